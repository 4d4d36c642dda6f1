package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costinm/zebrafish-stub/pkg/devicepath"
)

func execute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCmdline(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmdline.txt"), []byte("root=/dev/sda1"), 0o644))

	out, err := execute(t, "cmdline", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "command line: root=/dev/sda1")
	assert.Contains(t, out, "units:        14 of 16382")
	assert.Contains(t, out, "load options: 28 B")
	assert.Contains(t, out, "fallback:     false")
}

func TestCmdlineFallback(t *testing.T) {
	out, err := execute(t, "cmdline", "-v", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, `command line: initrd=\zebrafish-initrd`)
	assert.Contains(t, out, "fallback:     true")
	assert.Contains(t, out, "using fallback command line")
}

func TestCmdlineNestedPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "EFI", "linux"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "EFI", "linux", "cmdline"), []byte("quiet"), 0o644))

	out, err := execute(t, "cmdline", "--path", `\EFI\linux\cmdline`, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "command line: quiet")
}

func TestCmdlineRejectsUTF16(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmdline.txt"), []byte("\xff\xfeq\x00"), 0o644))

	_, err := execute(t, "cmdline", dir)
	assert.Error(t, err)
}

func ownPathHex(t *testing.T) string {
	b := []byte{0x02, 0x01, 0x0c, 0x00, 0xd0, 0x41, 0x03, 0x0a, 0x00, 0x00, 0x00, 0x00}
	file, err := devicepath.FilePathNode(`\EFI\BOOT\BOOTX64.EFI`)
	require.NoError(t, err)
	b, err = file.AppendEncoded(b)
	require.NoError(t, err)
	b = append(b, 0x7f, 0xff, 0x04, 0x00)
	return hex.EncodeToString(b)
}

func TestDevpath(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "kernel.dp")

	out, err := execute(t, "devpath", "-x", ownPathHex(t), "-o", outFile)
	require.NoError(t, err)

	assert.Contains(t, out, `device path: PciRoot(0x0)/\EFI\BOOT\BOOTX64.EFI`)
	assert.Contains(t, out, `kernel path: PciRoot(0x0)/\zebrafish-kernel`)

	raw, err := os.ReadFile(outFile)
	require.NoError(t, err)
	p, err := devicepath.Parse(raw)
	require.NoError(t, err)
	name, ok := p.FilePath()
	assert.True(t, ok)
	assert.Equal(t, `\zebrafish-kernel`, name)
}

func TestDevpathFromFile(t *testing.T) {
	raw, err := hex.DecodeString(ownPathHex(t))
	require.NoError(t, err)
	in := filepath.Join(t.TempDir(), "boot.dp")
	require.NoError(t, os.WriteFile(in, raw, 0o644))

	out, err := execute(t, "devpath", "--kernel", `\vmlinuz`, in)
	require.NoError(t, err)
	assert.Contains(t, out, `kernel path: PciRoot(0x0)/\vmlinuz`)
}

func TestDevpathInvalid(t *testing.T) {
	_, err := execute(t, "devpath", "-x", "0101")
	assert.ErrorIs(t, err, devicepath.ErrNoEnd)
}
