//go:build tamago && amd64

// Package efiboot runs the boot sequence on UEFI firmware through go-boot,
// plus a direct LoadImage call taking the derived device path.
package efiboot

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"unsafe"

	goboot "github.com/usbarmory/go-boot/uefi"
	"github.com/usbarmory/go-boot/uefi/x64"

	"github.com/costinm/zebrafish-stub/pkg/boot"
	"github.com/costinm/zebrafish-stub/pkg/cmdline"
	"github.com/costinm/zebrafish-stub/pkg/devicepath"
	"github.com/costinm/zebrafish-stub/pkg/uefi"
)

// Firmware implements boot.Firmware for the running image.
type Firmware struct {
	imageHandle uint64
	systemTable uint64
	bs          *uefi.BootServices
}

// New returns the firmware of the running image, as handed to the
// entry point.
func New() *Firmware {
	return &Firmware{
		imageHandle: uint64(x64.UEFI.ImageHandle()),
		systemTable: uint64(x64.UEFI.Address()),
	}
}

func (f *Firmware) Init() error {
	log.SetFlags(0)

	if x64.UEFI.Boot == nil {
		return errors.New("boot services not available")
	}

	bs, err := uefi.NewBootServices(f.imageHandle, f.systemTable)
	if err != nil {
		return err
	}
	f.bs = bs

	return nil
}

// FileSystem returns the volume the stub was loaded from.
func (f *Firmware) FileSystem() (cmdline.Volume, error) {
	return cmdline.VolumeFunc(func() (fs.FS, error) {
		root, err := x64.UEFI.Root()
		if err != nil {
			return nil, err
		}
		return root, nil
	}), nil
}

func (f *Firmware) OwnDevicePath() (devicepath.DevicePath, error) {
	p, err := f.protocol(f.imageHandle, uefi.EFI_LOADED_IMAGE_DEVICE_PATH_PROTOCOL_GUID)
	if err != nil {
		return devicepath.DevicePath{}, fmt.Errorf("loaded image device path: %w", err)
	}

	b, err := uefi.CopyDevicePath(p)
	if err != nil {
		return devicepath.DevicePath{}, err
	}

	return devicepath.Parse(b)
}

func (f *Firmware) LoadImage(path devicepath.DevicePath, policy boot.BootPolicy) (boot.ImageHandle, error) {
	h, err := f.bs.LoadImage(bool(policy), path.Bytes())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	return boot.ImageHandle(h), nil
}

func (f *Firmware) LoadedImage(h boot.ImageHandle) (boot.LoadedImage, error) {
	p, err := f.protocol(uint64(h), uefi.EFI_LOADED_IMAGE_PROTOCOL_GUID)
	if err != nil {
		return nil, fmt.Errorf("loaded image: %w", err)
	}

	return (*uefi.EFI_LOADED_IMAGE_PROTOCOL)(p), nil
}

func (f *Firmware) StartImage(h boot.ImageHandle) error {
	return x64.UEFI.Boot.StartImage(uint64(h))
}

// protocol returns the address of the protocol interface guid installed
// on handle, in firmware memory.
func (f *Firmware) protocol(handle uint64, guid string) (unsafe.Pointer, error) {
	addr, err := x64.UEFI.Boot.HandleProtocol(handle, goboot.MustParseGUID(guid))
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, uefi.ErrUnsupported
	}

	return unsafe.Pointer(uintptr(addr)), nil
}
