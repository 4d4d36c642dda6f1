package uefi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	assert.Nil(t, StatusError(EFI_SUCCESS))

	err := StatusError(EFI_NOT_FOUND)
	assert.Equal(t, ErrNotFound, err)
	assert.True(t, errors.Is(fmt.Errorf("open: %w", err), ErrNotFound))

	var e *Error
	assert.True(t, errors.As(StatusError(EFI_LOAD_ERROR), &e))
	assert.Equal(t, EFI_LOAD_ERROR, e.Status())
}

func TestStatusErrorWarning(t *testing.T) {
	// EFI_WARN_UNKNOWN_GLYPH
	assert.Nil(t, StatusError(1))
}

func TestStatusErrorUnknown(t *testing.T) {
	code := EFI_STATUS(errorMask | 0x7777)
	n := len(errMap)

	err := StatusError(code)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown EFI error")
	assert.Equal(t, n, len(errMap))
}

func TestStatusErrorLoadImage(t *testing.T) {
	for status, want := range map[EFI_STATUS]error{
		EFI_LOAD_ERROR:         ErrLoadError,
		EFI_INVALID_PARAMETER:  ErrInvalidParameter,
		EFI_UNSUPPORTED:        ErrUnsupported,
		EFI_DEVICE_ERROR:       ErrDeviceError,
		EFI_OUT_OF_RESOURCES:   ErrOutOfResources,
		EFI_NOT_FOUND:          ErrNotFound,
		EFI_ACCESS_DENIED:      ErrAccessDenied,
		EFI_SECURITY_VIOLATION: ErrSecurityViolation,
	} {
		assert.ErrorIs(t, StatusError(status), want, "%#x", uint64(status))
	}
}
