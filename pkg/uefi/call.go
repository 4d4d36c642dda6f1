//go:build tamago && amd64

package uefi

import (
	"sync"
	"unsafe"
)

const maxArgs = 10

var mux sync.Mutex

// defined in call_amd64.s
func callFn(fn uint64, n int, args *[maxArgs]uint64) (status uint64)

// callService calls an UEFI service using the Microsoft x64 calling
// convention, at most maxArgs arguments.
func callService(fn uint64, args ...uint64) EFI_STATUS {
	if len(args) > maxArgs {
		panic("internal error, too many EFI call arguments")
	}

	var a [maxArgs]uint64
	copy(a[:], args)

	mux.Lock()
	defer mux.Unlock()

	return EFI_STATUS(callFn(fn, len(args), &a))
}

// ptrval helps preparing callService arguments.
//
// Obtaining a pointer in this fashion is typically unsafe and tamago/dma
// package would be best to handle this. However, as arguments are prepared
// right before invoking Go assembly, it is considered safe as it is identical
// as having *uint64 as callService prototype.
func ptrval[T any](ptr *T) uint64 {
	return uint64(uintptr(unsafe.Pointer(ptr)))
}

// fnAt reads the function pointer stored at offset off of a firmware table.
func fnAt(base uint64, off uint64) uint64 {
	return *(*uint64)(unsafe.Pointer(uintptr(base + off)))
}
