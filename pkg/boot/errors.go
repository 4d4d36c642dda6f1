package boot

import "fmt"

// Step is a stage of the boot sequence.
type Step int

const (
	StepInit Step = iota
	StepFileSystem
	StepCommandLine
	StepDevicePath
	StepKernelPath
	StepLoadImage
	StepLoadedImage
	StepStartImage
)

var stepNames = [...]string{
	StepInit:        "firmware init",
	StepFileSystem:  "boot volume file system",
	StepCommandLine: "command line",
	StepDevicePath:  "loaded image device path",
	StepKernelPath:  "kernel device path",
	StepLoadImage:   "load kernel image",
	StepLoadedImage: "kernel loaded image protocol",
	StepStartImage:  "start kernel image",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step %d", int(s))
	}
	return stepNames[s]
}

// Error is a boot step failure. All of them are fatal.
type Error struct {
	Step Step
	Err  error
}

func stepError(step Step, err error) *Error {
	return &Error{Step: step, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
