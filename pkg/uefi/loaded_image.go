package uefi

import "unsafe"

// EFI_LOADED_IMAGE_PROTOCOL
// Can be used on any image handle to obtain information about the loaded image.
//
// Pointers are kept as uintptr: the structure lives in firmware memory and
// is never scanned by the Go collector.
type EFI_LOADED_IMAGE_PROTOCOL struct {
	Revision        uint32
	ParentHandle    EFI_HANDLE
	SystemTable     uintptr
	DeviceHandle    EFI_HANDLE
	FilePath        uintptr
	Reserved        uintptr
	LoadOptionsSize uint32
	LoadOptions     uintptr
	ImageBase       uintptr
	ImageSize       uint64
	ImageCodeType   uint32
	ImageDataType   uint32
	unload          uintptr
}

// SetLoadOptions points the image load options at opts and sets the size
// to size bytes, which may be less than len(opts) when opts carries a
// terminator the image should not count.
//
// The firmware keeps a raw pointer: opts must stay reachable until the
// image has been started and returned, see runtime.KeepAlive.
func (p *EFI_LOADED_IMAGE_PROTOCOL) SetLoadOptions(opts []byte, size uint32) {
	if len(opts) == 0 {
		p.LoadOptions = 0
		p.LoadOptionsSize = 0
		return
	}
	if int(size) > len(opts) {
		size = uint32(len(opts))
	}
	p.LoadOptions = uintptr(unsafe.Pointer(&opts[0]))
	p.LoadOptionsSize = size
}
