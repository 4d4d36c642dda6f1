//go:build tamago && amd64

package main

import (
	"errors"
	"log"
	"os"

	ueficore "github.com/usbarmory/go-boot/uefi"
	"github.com/usbarmory/go-boot/uefi/x64"

	"github.com/costinm/zebrafish-stub/pkg/boot"
	"github.com/costinm/zebrafish-stub/pkg/cmdline"
	"github.com/costinm/zebrafish-stub/pkg/efiboot"
)

// File names on the boot volume, can be changed at link time:
//
//	-ldflags "-X main.KernelPath=\EFI\linux\kernel.efi"
var (
	KernelPath      = boot.DefaultKernelPath
	CmdlinePath     = cmdline.DefaultPath
	FallbackCmdline = cmdline.DefaultFallback
)

// Stub loaded by the firmware from the ESP. It loads the kernel next to
// it, passing the content of cmdline.txt (or a fallback that only names
// the initrd) as the kernel command line.
func main() {
	cfg := boot.Config{
		KernelPath:  KernelPath,
		CmdlinePath: CmdlinePath,
		Fallback:    FallbackCmdline,
	}

	if err := boot.New(efiboot.New(), cfg, log.Default()).Run(); err != nil {
		var be *boot.Error
		if errors.As(err, &be) {
			log.Printf("zebrafish: %s failed: %v", be.Step, be.Err)
		} else {
			log.Printf("zebrafish: %v", err)
		}
		os.Exit(1)
	}

	// the kernel returned
	if err := x64.UEFI.Boot.Exit(0); err != nil {
		log.Printf("halting due to exit error, %v", err)
		x64.UEFI.Runtime.ResetSystem(ueficore.EfiResetShutdown)
	}
}
