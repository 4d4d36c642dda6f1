//go:build tamago && amd64

package main

import (
	"fmt"
	"log"
	"runtime"
	"strings"

	_ "github.com/usbarmory/go-boot/cmd"
	"github.com/usbarmory/go-boot/shell"
	ueficore "github.com/usbarmory/go-boot/uefi"
	"github.com/usbarmory/go-boot/uefi/x64"

	"github.com/costinm/zebrafish-stub/pkg/boot"
	"github.com/costinm/zebrafish-stub/pkg/efiboot"
)

// Recovery stub: same boot sequence as zebrafish, driven from a go-boot
// shell so the kernel and command line can be picked by hand.
func main() {
	fw := efiboot.New()
	if err := fw.Init(); err != nil {
		log.Fatalf("firmware init: %v", err)
	}

	banner := fmt.Sprintf("zebrafish recovery • %s/%s (%s) • UEFI x64",
		runtime.GOOS, runtime.GOARCH, runtime.Version())

	iface := &shell.Interface{
		Banner:  banner,
		Console: x64.UEFI.Console,
	}

	addCommands(fw)

	// disable UEFI watchdog
	x64.UEFI.Boot.SetWatchdogTimer(0)

	iface.ReadWriter = x64.UEFI.Console
	iface.Start(false)

	log.Print("exit")

	if err := x64.UEFI.Boot.Exit(0); err != nil {
		log.Printf("halting due to exit error, %v", err)
		x64.UEFI.Runtime.ResetSystem(ueficore.EfiResetShutdown)
	}
}

func addCommands(fw boot.Firmware) {
	shell.Add(shell.Cmd{
		Name:   "zboot",
		Args:   2,
		Syntax: "[kernel_path] [cmdline]",
		Help:   "boot kernel, defaults to \\zebrafish-kernel and \\cmdline.txt",
		Fn: func(c *shell.Interface, arg []string) (res string, err error) {
			cfg := boot.DefaultConfig()
			if len(arg) > 0 && arg[0] != "" {
				cfg.KernelPath = arg[0]
			}
			if len(arg) > 1 {
				cfg.CommandLine = strings.Join(arg[1:], " ")
			}

			return "", boot.New(fw, cfg, log.Default()).Run()
		},
	})

	shell.Add(shell.Cmd{
		Name: "zcmdline",
		Help: "show the kernel command line",
		Fn: func(c *shell.Interface, _ []string) (res string, err error) {
			volume, err := fw.FileSystem()
			if err != nil {
				return "", err
			}

			cl, err := boot.New(fw, boot.DefaultConfig(), log.Default()).CommandLine(volume)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("%q (%d units, fallback:%v)\n", cl.String(), cl.Len(), cl.IsFallback()), nil
		},
	})

	shell.Add(shell.Cmd{
		Name: "zdevpath",
		Help: "show the stub and kernel device paths",
		Fn: func(c *shell.Interface, _ []string) (res string, err error) {
			own, err := fw.OwnDevicePath()
			if err != nil {
				return "", err
			}

			kernel, err := boot.New(fw, boot.DefaultConfig(), log.Default()).KernelPath()
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("stub:   %s\nkernel: %s\n", own, kernel), nil
		},
	})
}
