//go:build tamago && amd64

package uefi

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

// EFI Boot Services offsets
const loadImage = 0xc8

// BootServices calls the EFI_BOOT_SERVICES (§4.4) entries go-boot does
// not expose with a device path argument.
type BootServices struct {
	base        uint64
	imageHandle uint64
}

// NewBootServices binds the boot services table of systemTable, already
// validated by go-boot, for calls made on behalf of imageHandle.
func NewBootServices(imageHandle uint64, systemTable uint64) (*BootServices, error) {
	if imageHandle == 0 || systemTable == 0 {
		return nil, fmt.Errorf("invalid handles image:%#x system table:%#x", imageHandle, systemTable)
	}

	base := *(*uint64)(unsafe.Pointer(uintptr(systemTable + EFI_SYSTEM_TABLE_BOOT_SERVICES)))
	if base == 0 {
		return nil, errors.New("boot services not available")
	}

	return &BootServices{
		base:        base,
		imageHandle: imageHandle,
	}, nil
}

// LoadImage calls EFI_BOOT_SERVICES.LoadImage() with a device path and no
// source buffer, the firmware reads the image itself. A false bootPolicy
// requires an exact match of devicePath.
func (s *BootServices) LoadImage(bootPolicy bool, devicePath []byte) (imageHandle uint64, err error) {
	if len(devicePath) == 0 {
		return 0, ErrNilDevicePath
	}

	var policy uint64
	if bootPolicy {
		policy = 1
	}

	status := callService(fnAt(s.base, loadImage),
		policy,
		s.imageHandle,
		ptrval(&devicePath[0]),
		0,
		0,
		ptrval(&imageHandle),
	)
	runtime.KeepAlive(devicePath)

	return imageHandle, StatusError(status)
}
