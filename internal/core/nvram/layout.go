// Package nvram describes how lighting state is laid out in non-volatile
// memory.
package nvram

import (
	"mid1lights/internal/core/host"
	"mid1lights/internal/core/model"
)

// Signature marks an initialised palette block.
const Signature uint16 = 0xC35A

// RecordSize is the stride of one palette record: hue (2), sat (1), val (1).
const RecordSize = 4

// PaletteLayout places the palette block: signature, one record per slot,
// then one animation byte per slot.
type PaletteLayout struct {
	Base  int
	Slots int
}

// SignatureAt returns the offset of the signature word.
func (layout PaletteLayout) SignatureAt() int {
	return layout.Base
}

// RecordAt returns the offset of slot's color record.
func (layout PaletteLayout) RecordAt(slot int) int {
	return layout.Base + 2 + slot*RecordSize
}

// AnimAt returns the offset of slot's animation byte.
func (layout PaletteLayout) AnimAt(slot int) int {
	return layout.Base + 2 + layout.Slots*RecordSize + slot
}

// Size returns the number of bytes the block occupies.
func (layout PaletteLayout) Size() int {
	return 2 + layout.Slots*(RecordSize+1)
}

// ReadWord reads a little-endian word.
func ReadWord(nvm host.NVM, offset int) uint16 {
	return uint16(nvm.Byte(offset)) | uint16(nvm.Byte(offset+1))<<8
}

// UpdateWord writes a little-endian word.
func UpdateWord(nvm host.NVM, offset int, value uint16) {
	nvm.UpdateByte(offset, uint8(value))
	nvm.UpdateByte(offset+1, uint8(value>>8))
}

// ReadRecord reads a color record.
func ReadRecord(nvm host.NVM, offset int) model.HSV {
	return model.HSV{
		H: ReadWord(nvm, offset),
		S: nvm.Byte(offset + 2),
		V: nvm.Byte(offset + 3),
	}
}

// UpdateRecord writes a color record.
func UpdateRecord(nvm host.NVM, offset int, color model.HSV) {
	UpdateWord(nvm, offset, color.H)
	nvm.UpdateByte(offset+2, color.S)
	nvm.UpdateByte(offset+3, color.V)
}
