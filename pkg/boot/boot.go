// Package boot hands control from the stub to the kernel image: it picks
// the command line, derives the kernel device path from the stub's own
// and asks the firmware to load and start the kernel.
package boot

import (
	"log"
	"runtime"

	"github.com/costinm/zebrafish-stub/pkg/cmdline"
	"github.com/costinm/zebrafish-stub/pkg/devicepath"
)

// DefaultKernelPath is the kernel image, next to the stub.
const DefaultKernelPath = `\zebrafish-kernel`

// ImageHandle identifies a loaded image.
type ImageHandle uint64

// BootPolicy selects how LoadImage interprets the device path.
type BootPolicy bool

// ExactMatch loads precisely the given path.
const ExactMatch BootPolicy = false

// Firmware is the subset of boot services the stub runs on.
type Firmware interface {
	// Init prepares the firmware layer, before any other call.
	Init() error
	// FileSystem returns the volume the running image was loaded from.
	FileSystem() (cmdline.Volume, error)
	// OwnDevicePath returns the device path of the running image.
	OwnDevicePath() (devicepath.DevicePath, error)
	LoadImage(path devicepath.DevicePath, policy BootPolicy) (ImageHandle, error)
	LoadedImage(h ImageHandle) (LoadedImage, error)
	// StartImage only returns if the image fails to start or exits.
	StartImage(h ImageHandle) error
}

// LoadedImage is a loaded, not yet started, image.
type LoadedImage interface {
	// SetLoadOptions attaches opts, of which size bytes are reported to
	// the image. The image may read opts until it returns from start.
	SetLoadOptions(opts []byte, size uint32)
}

// Config names the files the stub uses.
type Config struct {
	KernelPath  string
	CmdlinePath string
	Fallback    string
	// CommandLine, when set, is used instead of reading CmdlinePath.
	CommandLine string
}

// DefaultConfig returns the zebrafish file names.
func DefaultConfig() Config {
	return Config{
		KernelPath:  DefaultKernelPath,
		CmdlinePath: cmdline.DefaultPath,
		Fallback:    cmdline.DefaultFallback,
	}
}

// Orchestrator runs the boot sequence once.
type Orchestrator struct {
	fw  Firmware
	cfg Config
	log *log.Logger
}

func New(fw Firmware, cfg Config, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		fw:  fw,
		cfg: cfg,
		log: logger,
	}
}

// Run boots the kernel. It returns nil if the kernel was started and
// returned control, and a *Error naming the failed step otherwise.
func (o *Orchestrator) Run() error {
	if err := o.fw.Init(); err != nil {
		return stepError(StepInit, err)
	}

	o.log.Print("zebrafish is booting...")

	volume, err := o.fw.FileSystem()
	if err != nil {
		return stepError(StepFileSystem, err)
	}

	cl, err := o.CommandLine(volume)
	if err != nil {
		return err
	}

	path, err := o.KernelPath()
	if err != nil {
		return err
	}

	o.log.Printf("loading kernel %s", path)

	h, err := o.fw.LoadImage(path, ExactMatch)
	// the firmware reads the path during the call only
	runtime.KeepAlive(path)
	if err != nil {
		return stepError(StepLoadImage, err)
	}

	img, err := o.fw.LoadedImage(h)
	if err != nil {
		return stepError(StepLoadedImage, err)
	}

	o.log.Printf("booting kernel, command line %q", cl.String())

	if err := handoff(img, cl, func() error { return o.fw.StartImage(h) }); err != nil {
		return stepError(StepStartImage, err)
	}

	return nil
}

// CommandLine loads the command line from volume, unless the
// configuration sets one.
func (o *Orchestrator) CommandLine(volume cmdline.Volume) (cmdline.CommandLine, error) {
	if o.cfg.CommandLine != "" {
		cl, err := cmdline.New(o.cfg.CommandLine)
		if err != nil {
			return cmdline.CommandLine{}, stepError(StepCommandLine, err)
		}
		return cl, nil
	}

	cl, err := cmdline.NewLoader(volume,
		cmdline.WithPath(o.cfg.CmdlinePath),
		cmdline.WithFallback(o.cfg.Fallback),
		cmdline.WithLogger(o.log),
	).Load()
	if err != nil {
		return cmdline.CommandLine{}, stepError(StepCommandLine, err)
	}
	return cl, nil
}

// KernelPath derives the kernel device path from the running image's own.
func (o *Orchestrator) KernelPath() (devicepath.DevicePath, error) {
	own, err := o.fw.OwnDevicePath()
	if err != nil {
		return devicepath.DevicePath{}, stepError(StepDevicePath, err)
	}

	storage := make([]byte, 0, devicepath.StorageSize(own, o.cfg.KernelPath))
	path, err := devicepath.DeriveSibling(storage, own, o.cfg.KernelPath)
	if err != nil {
		return devicepath.DevicePath{}, stepError(StepKernelPath, err)
	}

	return path, nil
}

// handoff attaches the command line to img and runs start while keeping
// the command line buffer alive: the firmware and the started image only
// hold a raw pointer to it.
//
// The buffer handed to the image ends with a CHAR16 NUL, but
// LoadOptionsSize counts the content units only (28 bytes for
// "root=/dev/sda1").
func handoff(img LoadedImage, cl cmdline.CommandLine, start func() error) error {
	opts := cl.LoadOptions()
	img.SetLoadOptions(opts, uint32(cl.ByteLen()))

	err := start()
	runtime.KeepAlive(opts)

	return err
}
