package devicepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kernel = `\zebrafish-kernel`

func derive(t *testing.T, own DevicePath, name string) DevicePath {
	p, err := DeriveSibling(make([]byte, 0, StorageSize(own, name)), own, name)
	require.NoError(t, err)
	return p
}

func TestDeriveSiblingReplacesFileNode(t *testing.T) {
	prefixes := [][]Node{
		{},
		{pciRoot},
		{pciRoot, pci, sata, gptHD},
	}

	for _, prefix := range prefixes {
		nodes := append(append([]Node{}, prefix...), fileNode(t, `\EFI\BOOT\BOOTX64.EFI`))
		own := mustParse(t, nodes...)

		got := derive(t, own, kernel)

		want := append(append([]Node{}, prefix...), fileNode(t, kernel))
		assert.Empty(t, nodeDiff(want, got.Nodes()), "prefix of %d nodes", len(prefix))

		name, ok := got.FilePath()
		assert.True(t, ok)
		assert.Equal(t, kernel, name)
	}
}

func TestDeriveSiblingDropsEverythingAfterFileNode(t *testing.T) {
	own := mustParse(t, pciRoot, fileNode(t, `\EFI`), fileNode(t, `\BOOTX64.EFI`))

	got := derive(t, own, kernel)
	assert.Empty(t, nodeDiff([]Node{pciRoot, fileNode(t, kernel)}, got.Nodes()))
}

func TestDeriveSiblingWithoutFileNode(t *testing.T) {
	own := mustParse(t, pciRoot, pci, sata, gptHD)

	got := derive(t, own, kernel)
	assert.Empty(t, nodeDiff([]Node{pciRoot, pci, sata, gptHD, fileNode(t, kernel)}, got.Nodes()))
}

func TestDeriveSiblingIdempotent(t *testing.T) {
	own := mustParse(t, pciRoot, pci, gptHD, fileNode(t, `\loader.efi`))

	a := derive(t, own, kernel)
	b := derive(t, own, kernel)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.NotSame(t, &a.Bytes()[0], &b.Bytes()[0])
}

func TestDeriveSiblingLeavesInputIntact(t *testing.T) {
	own := mustParse(t, pciRoot, fileNode(t, `\loader.efi`))
	before := append([]byte{}, own.Bytes()...)

	derive(t, own, kernel)
	assert.Equal(t, before, own.Bytes())
}

func TestDeriveSiblingStorageFull(t *testing.T) {
	own := mustParse(t, pciRoot, pci, gptHD, fileNode(t, `\loader.efi`))

	for _, size := range []int{0, pciRoot.Len(), own.Len()*4 + 8} {
		p, err := DeriveSibling(make([]byte, 0, size), own, kernel)
		assert.ErrorIs(t, err, ErrBufferFull, "storage %d", size)
		assert.True(t, p.IsZero())
	}
}

func TestDeriveSiblingInvalidName(t *testing.T) {
	own := mustParse(t, pciRoot)

	_, err := DeriveSibling(make([]byte, 0, 128), own, "\xff")
	assert.Error(t, err)
}
