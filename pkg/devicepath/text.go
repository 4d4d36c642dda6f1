package devicepath

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// String renders p in the UEFI device path text form (§10.6), for logs.
// Node kinds without a dedicated form are printed as Path(type,subtype,data).
func (p DevicePath) String() string {
	if len(p.nodes) == 0 {
		return "End"
	}

	var sb strings.Builder
	for i, n := range p.nodes {
		if n.FullType() == EndInstance {
			sb.WriteByte(',')
			continue
		}
		if i > 0 && p.nodes[i-1].FullType() != EndInstance {
			sb.WriteByte('/')
		}
		sb.WriteString(n.String())
	}
	return sb.String()
}

func (n Node) String() string {
	d := n.Data
	le := binary.LittleEndian

	switch n.FullType() {
	case FullType{TypeHardware, SubTypeHardwarePCI}:
		if len(d) == 2 {
			return fmt.Sprintf("Pci(0x%x,0x%x)", d[1], d[0])
		}
	case FullType{TypeACPI, SubTypeACPI}:
		if len(d) == 8 {
			return acpiString(le.Uint32(d), le.Uint32(d[4:]))
		}
	case FullType{TypeMessaging, SubTypeMessagingSCSI}:
		if len(d) == 4 {
			return fmt.Sprintf("Scsi(0x%x,0x%x)", le.Uint16(d), le.Uint16(d[2:]))
		}
	case FullType{TypeMessaging, SubTypeMessagingUSB}:
		if len(d) == 2 {
			return fmt.Sprintf("USB(0x%x,0x%x)", d[0], d[1])
		}
	case FullType{TypeMessaging, SubTypeMessagingMAC}:
		if len(d) == 33 {
			return fmt.Sprintf("MAC(%s,0x%x)", hex.EncodeToString(d[:6]), d[32])
		}
	case FullType{TypeMessaging, SubTypeMessagingSATA}:
		if len(d) == 6 {
			return fmt.Sprintf("Sata(0x%x,0x%x,0x%x)", le.Uint16(d), le.Uint16(d[2:]), le.Uint16(d[4:]))
		}
	case FullType{TypeMessaging, SubTypeMessagingNVMe}:
		if len(d) == 12 {
			eui := make([]string, 8)
			for i, c := range d[4:12] {
				eui[i] = fmt.Sprintf("%02X", c)
			}
			return fmt.Sprintf("NVMe(0x%x,%s)", le.Uint32(d), strings.Join(eui, "-"))
		}
	case FullType{TypeMedia, SubTypeMediaHardDrive}:
		if len(d) == 38 {
			return hardDriveString(d)
		}
	case MediaFilePath:
		if s, err := n.FilePath(); err == nil {
			return s
		}
	}

	return fmt.Sprintf("Path(%d,%d,%s)", n.Type, n.SubType, strings.ToUpper(hex.EncodeToString(d)))
}

func acpiString(hid, uid uint32) string {
	// compressed EISA id "PNP"
	if hid&0xffff == 0x41d0 {
		switch hid >> 16 {
		case 0x0a03:
			return fmt.Sprintf("PciRoot(0x%x)", uid)
		case 0x0a08:
			return fmt.Sprintf("PcieRoot(0x%x)", uid)
		}
		return fmt.Sprintf("Acpi(PNP%04X,0x%x)", hid>>16, uid)
	}
	return fmt.Sprintf("Acpi(0x%08X,0x%x)", hid, uid)
}

func hardDriveString(d []byte) string {
	le := binary.LittleEndian
	part := le.Uint32(d)
	start := le.Uint64(d[4:])
	size := le.Uint64(d[12:])
	sig := d[20:36]

	switch d[36] {
	case 0x01:
		return fmt.Sprintf("HD(%d,MBR,0x%08X,0x%x,0x%x)", part, le.Uint32(sig), start, size)
	case 0x02:
		return fmt.Sprintf("HD(%d,GPT,%s,0x%x,0x%x)", part, guidString(sig), start, size)
	}
	return fmt.Sprintf("HD(%d,%d,0,0x%x,0x%x)", part, d[36], start, size)
}

func guidString(b []byte) string {
	le := binary.LittleEndian
	return fmt.Sprintf("%08X-%04X-%04X-%s-%s",
		le.Uint32(b), le.Uint16(b[4:]), le.Uint16(b[6:]),
		strings.ToUpper(hex.EncodeToString(b[8:10])),
		strings.ToUpper(hex.EncodeToString(b[10:16])))
}
