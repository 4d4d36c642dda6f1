// Package uefi holds the raw EFI definitions used by the stub: status
// codes, protocol GUIDs and the in-memory layout of the protocols it
// touches directly. Files without a build constraint are plain data and
// helpers usable on any host; the firmware call itself only builds for
// tamago.
package uefi

type UINTN uintptr
type EFI_STATUS UINTN
type EFI_HANDLE uintptr

// EFI_SYSTEM_TABLE.BootServices offset (§4.3)
const EFI_SYSTEM_TABLE_BOOT_SERVICES = 0x60
