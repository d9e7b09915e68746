package sim

import (
	"sync"

	"mid1lights/internal/metrics"
)

// NVM is an EEPROM image held in memory. Fresh images read as erased (0xFF).
type NVM struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

func NewNVM(size int) *NVM {
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xFF
	}
	return &NVM{data: data}
}

// NewNVMFromImage wraps a copy of image.
func NewNVMFromImage(image []byte) *NVM {
	return &NVM{data: append([]byte(nil), image...)}
}

func (nvm *NVM) Byte(offset int) uint8 {
	nvm.mu.Lock()
	defer nvm.mu.Unlock()

	if offset < 0 || offset >= len(nvm.data) {
		return 0xFF
	}
	return nvm.data[offset]
}

func (nvm *NVM) UpdateByte(offset int, value uint8) {
	nvm.mu.Lock()
	defer nvm.mu.Unlock()

	if offset < 0 || offset >= len(nvm.data) {
		return
	}
	if nvm.data[offset] == value {
		return
	}
	nvm.data[offset] = value
	nvm.writes++
	metrics.RecordNVMWrite()
}

// Writes returns the number of bytes physically written.
func (nvm *NVM) Writes() int {
	nvm.mu.Lock()
	defer nvm.mu.Unlock()
	return nvm.writes
}

// Image returns a copy of the memory contents.
func (nvm *NVM) Image() []byte {
	nvm.mu.Lock()
	defer nvm.mu.Unlock()
	return append([]byte(nil), nvm.data...)
}

// Erase resets every byte to 0xFF.
func (nvm *NVM) Erase() {
	nvm.mu.Lock()
	defer nvm.mu.Unlock()
	for i := range nvm.data {
		nvm.data[i] = 0xFF
	}
}
