package uefi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestLoadedImageLayout(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("64-bit layout")
	}

	var p EFI_LOADED_IMAGE_PROTOCOL
	assert.Equal(t, uintptr(24), unsafe.Offsetof(p.DeviceHandle))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(p.FilePath))
	assert.Equal(t, uintptr(48), unsafe.Offsetof(p.LoadOptionsSize))
	assert.Equal(t, uintptr(56), unsafe.Offsetof(p.LoadOptions))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(p.ImageBase))
}

func TestSetLoadOptions(t *testing.T) {
	var p EFI_LOADED_IMAGE_PROTOCOL
	opts := []byte{'a', 0, 'b', 0, 0, 0}

	p.SetLoadOptions(opts, 4)
	assert.Equal(t, uintptr(unsafe.Pointer(&opts[0])), p.LoadOptions)
	assert.Equal(t, uint32(4), p.LoadOptionsSize)

	p.SetLoadOptions(opts, 100)
	assert.Equal(t, uint32(len(opts)), p.LoadOptionsSize)

	p.SetLoadOptions(nil, 0)
	assert.Zero(t, p.LoadOptions)
	assert.Zero(t, p.LoadOptionsSize)
}
