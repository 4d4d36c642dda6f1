package devicepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	p := mustParse(t, pciRoot, pci, sata, gptHD, fileNode(t, `\zebrafish-kernel`))

	assert.Equal(t,
		`PciRoot(0x0)/Pci(0x1f,0x1)/Sata(0x0,0xffff,0x0)/HD(1,GPT,C12A7328-F81F-11D2-BA4B-00A0C93EC93B,0x800,0x100000)/\zebrafish-kernel`,
		p.String())
}

func TestStringUnknown(t *testing.T) {
	vendor := Node{Type: TypeBIOSBoot, SubType: 0x01, Data: []byte{0xab, 0x01}}
	p := mustParse(t, vendor)

	assert.Equal(t, "Path(5,1,AB01)", p.String())
	assert.Equal(t, "End", mustParse(t).String())
}

func TestStringMultiInstance(t *testing.T) {
	end := Node{Type: TypeEnd, SubType: SubTypeEndInstance}
	usb := Node{TypeMessaging, SubTypeMessagingUSB, []byte{0x2, 0x0}}
	p := mustParse(t, pciRoot, end, pciRoot, usb)

	assert.Equal(t, "PciRoot(0x0),PciRoot(0x0)/USB(0x2,0x0)", p.String())
}
