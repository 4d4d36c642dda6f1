package uefi

import (
	"errors"
	"unsafe"
)

// Device path node header (§10.3.1): Type, SubType, Length[2].
const (
	devicePathHeaderSize = 4
	endDevicePathType    = 0x7f
	endEntireSubType     = 0xff

	// MaxDevicePathSize bounds the walk over firmware memory.
	MaxDevicePathSize = 64 * 1024
)

var (
	ErrNilDevicePath     = errors.New("nil device path")
	ErrDevicePathNode    = errors.New("device path node shorter than its header")
	ErrDevicePathTooLong = errors.New("device path exceeds maximum size")
)

// CopyDevicePath copies a firmware owned EFI_DEVICE_PATH_PROTOCOL instance,
// starting at p and up to and including the End Entire node, into Go
// memory.
func CopyDevicePath(p unsafe.Pointer) ([]byte, error) {
	if p == nil {
		return nil, ErrNilDevicePath
	}

	off := 0
	for {
		if off+devicePathHeaderSize > MaxDevicePathSize {
			return nil, ErrDevicePathTooLong
		}
		hdr := unsafe.Slice((*byte)(unsafe.Add(p, off)), devicePathHeaderSize)
		n := int(hdr[2]) | int(hdr[3])<<8
		if n < devicePathHeaderSize {
			return nil, ErrDevicePathNode
		}
		off += n
		if hdr[0] == endDevicePathType && hdr[1] == endEntireSubType {
			break
		}
	}
	if off > MaxDevicePathSize {
		return nil, ErrDevicePathTooLong
	}

	out := make([]byte, off)
	copy(out, unsafe.Slice((*byte)(p), off))
	return out, nil
}
