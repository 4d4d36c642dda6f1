package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/costinm/zebrafish-stub/pkg/boot"
	"github.com/costinm/zebrafish-stub/pkg/cmdline"
	"github.com/costinm/zebrafish-stub/pkg/devicepath"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "zfctl",
		Short:         "Inspect zebrafish boot volume files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCmdlineCommand(), newDevpathCommand())

	return root
}

func newCmdlineCommand() *cobra.Command {
	var (
		path     string
		fallback string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "cmdline <volume-dir>",
		Short: "Show the kernel command line the stub builds from a volume",
		Long: `Reads cmdline.txt from a mounted ESP (or any directory) the way the
stub does, printing the resulting command line or the fallback.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume := cmdline.VolumeFunc(func() (fs.FS, error) {
				return firmwareFS{os.DirFS(args[0])}, nil
			})

			logOut := io.Discard
			if verbose {
				logOut = cmd.ErrOrStderr()
			}

			cl, err := cmdline.NewLoader(volume,
				cmdline.WithPath(path),
				cmdline.WithFallback(fallback),
				cmdline.WithLogger(log.New(logOut, "", 0)),
			).Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "command line: %s\n", cl)
			fmt.Fprintf(out, "units:        %d of %d\n", cl.Len(), cmdline.MaxContentUnits)
			fmt.Fprintf(out, "load options: %s\n", humanize.Bytes(uint64(cl.ByteLen())))
			fmt.Fprintf(out, "fallback:     %v\n", cl.IsFallback())

			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", cmdline.DefaultPath, "command line file on the volume")
	cmd.Flags().StringVar(&fallback, "fallback", cmdline.DefaultFallback, "command line used when the file is missing")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the loader log")

	return cmd
}

func newDevpathCommand() *cobra.Command {
	var (
		kernel  string
		hexArg  bool
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "devpath <file|hex>",
		Short: "Derive the kernel device path from a raw device path",
		Long: `Reads a binary EFI device path, for example the FilePathList of a
Boot#### variable, and prints it with the kernel path the stub derives
from it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if hexArg {
				raw, err = hex.DecodeString(strings.ReplaceAll(args[0], " ", ""))
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			own, err := devicepath.Parse(raw)
			if err != nil {
				return err
			}

			storage := make([]byte, 0, devicepath.StorageSize(own, kernel))
			derived, err := devicepath.DeriveSibling(storage, own, kernel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "device path: %s\n", own)
			fmt.Fprintf(out, "kernel path: %s\n", derived)
			fmt.Fprintf(out, "kernel hex:  %x\n", derived.Bytes())

			if outFile != "" {
				return os.WriteFile(outFile, derived.Bytes(), 0o644)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kernel, "kernel", boot.DefaultKernelPath, "kernel file name on the same volume")
	cmd.Flags().BoolVarP(&hexArg, "hex", "x", false, "argument is the device path in hex")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write the derived device path to a file")

	return cmd
}

// firmwareFS maps firmware paths (`\EFI\BOOT`) onto a host fs.FS.
type firmwareFS struct {
	fsys fs.FS
}

func (f firmwareFS) Open(name string) (fs.File, error) {
	name = strings.TrimPrefix(name, `\`)
	name = strings.ReplaceAll(name, `\`, "/")
	if name == "" {
		name = "."
	}
	return f.fsys.Open(name)
}
