package uefi

// Protocol GUIDs in registry format, as parsed by go-boot.
const (
	EFI_LOADED_IMAGE_PROTOCOL_GUID = "5b1b31a1-9562-11d2-8e3f-00a0c969723b"

	// Installed on an image handle, it carries the full device path the
	// image was loaded from, file node included.
	EFI_LOADED_IMAGE_DEVICE_PATH_PROTOCOL_GUID = "bc62157e-3e33-4fec-9920-2d3b36d750df"
)
