package uefi

import "fmt"

const (
	uintnSize = 32 << (^uintptr(0) >> 63) // 32 or 64
	errorMask = 1 << uintptr(uintnSize-1)
)

// Statuses returned by EFI_BOOT_SERVICES.LoadImage() (§7.4.1)
const (
	EFI_SUCCESS            EFI_STATUS = 0
	EFI_LOAD_ERROR         EFI_STATUS = errorMask | 1
	EFI_INVALID_PARAMETER  EFI_STATUS = errorMask | 2
	EFI_UNSUPPORTED        EFI_STATUS = errorMask | 3
	EFI_DEVICE_ERROR       EFI_STATUS = errorMask | 7
	EFI_OUT_OF_RESOURCES   EFI_STATUS = errorMask | 9
	EFI_NOT_FOUND          EFI_STATUS = errorMask | 14
	EFI_ACCESS_DENIED      EFI_STATUS = errorMask | 15
	EFI_SECURITY_VIOLATION EFI_STATUS = errorMask | 26
)

var errMap = make(map[EFI_STATUS]*Error)

var (
	ErrLoadError         = newError(EFI_LOAD_ERROR, "image failed to load")
	ErrInvalidParameter  = newError(EFI_INVALID_PARAMETER, "a parameter was incorrect")
	ErrUnsupported       = newError(EFI_UNSUPPORTED, "image type not supported")
	ErrDeviceError       = newError(EFI_DEVICE_ERROR, "physical device reported an error")
	ErrOutOfResources    = newError(EFI_OUT_OF_RESOURCES, "out of resources")
	ErrNotFound          = newError(EFI_NOT_FOUND, "image not found")
	ErrAccessDenied      = newError(EFI_ACCESS_DENIED, "image not allowed by platform policy")
	ErrSecurityViolation = newError(EFI_SECURITY_VIOLATION, "image signature not valid")
)

// Error is an EFI_STATUS with the error bit set.
type Error struct {
	code EFI_STATUS
	msg  string
}

func newError(code EFI_STATUS, msg string) *Error {
	err := &Error{
		code: code,
		msg:  msg,
	}
	errMap[code] = err
	return err
}

func (e *Error) Error() string {
	return e.msg
}

// Status returns the raw EFI_STATUS.
func (e *Error) Status() EFI_STATUS {
	return e.code
}

// StatusError returns the error object given by status. These
// can be checked/managed with errors.Is() and the like. Warnings (error
// bit clear) are not errors.
//
// Unknown codes get a fresh error which is not added to the map, so
// firmware returning vendor codes does not grow it.
func StatusError(status EFI_STATUS) error {
	if status&errorMask == 0 {
		return nil
	}
	if err, ok := errMap[status]; ok {
		return err
	}
	return &Error{
		code: status,
		msg:  fmt.Sprintf("unknown EFI error %#x", uint64(status)),
	}
}
