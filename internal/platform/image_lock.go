// Package platform holds host-OS helpers for the simulator.
package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"path/filepath"
)

// ErrAlreadyRunning indicates another simulator already owns the EEPROM
// image.
var ErrAlreadyRunning = errors.New("instance already running")

// ImageLock keeps a second simulator from saving over the same EEPROM image.
type ImageLock struct {
	listener net.Listener
	address  string
}

// AcquireImageLock binds a localhost port derived from the image path.
func AcquireImageLock(imagePath string) (*ImageLock, error) {
	key, err := filepath.Abs(imagePath)
	if err != nil {
		key = imagePath
	}

	address := fmt.Sprintf("127.0.0.1:%d", portFromKey(key))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", imagePath, ErrAlreadyRunning)
	}
	return &ImageLock{listener: listener, address: address}, nil
}

// Release frees the lock.
func (lock *ImageLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// Address returns the bound address.
func (lock *ImageLock) Address() string {
	if lock == nil {
		return ""
	}
	return lock.address
}

func portFromKey(key string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
