// internal/register/image.go
package register

import (
	"fmt"
	"io"
	"strings"
)

// Image is the host-side copy of the chip register space.
// It is the single source of truth for every bit the host controls.
type Image [Size]byte

// SetBit sets bit n of the byte at addr.
func (img *Image) SetBit(addr, n uint8) {
	img[addr] |= 1 << n
}

// ClearBit clears bit n of the byte at addr.
func (img *Image) ClearBit(addr, n uint8) {
	img[addr] &^= 1 << n
}

// WriteBit sets or clears bit n of the byte at addr.
func (img *Image) WriteBit(addr, n uint8, on bool) {
	if on {
		img.SetBit(addr, n)
		return
	}
	img.ClearBit(addr, n)
}

// Bit reports whether bit n of the byte at addr is set.
func (img *Image) Bit(addr, n uint8) bool {
	return img[addr]&(1<<n) != 0
}

// WriteField replaces a width-bit field starting at bit shift.
func (img *Image) WriteField(addr, shift, width, value uint8) {
	mask := uint8((1<<width)-1) << shift
	img[addr] = (img[addr] &^ mask) | ((value << shift) & mask)
}

// Field returns the width-bit field starting at bit shift.
func (img *Image) Field(addr, shift, width uint8) uint8 {
	return (img[addr] >> shift) & uint8((1<<width)-1)
}

// Range returns a copy of the inclusive address range [start, end].
// It panics if the range touches the read-only telemetry block.
func (img *Image) Range(start, end uint8) []byte {
	if start < ConfigStart || end >= Size || start > end {
		panic(fmt.Sprintf("register: invalid write range 0x%02X-0x%02X", start, end))
	}
	out := make([]byte, int(end-start)+1)
	copy(out, img[start:int(end)+1])
	return out
}

// Dump writes one line per configuration register, MSB first:
//
//	0x07: 00000000
func (img *Image) Dump(w io.Writer) error {
	for addr := int(ConfigStart); addr < Size; addr++ {
		if _, err := fmt.Fprintf(w, "0x%02X: %08b\n", addr, img[addr]); err != nil {
			return err
		}
	}
	return nil
}

// Format returns the Dump output as a string.
func (img *Image) Format() string {
	var sb strings.Builder
	_ = img.Dump(&sb)
	return sb.String()
}
