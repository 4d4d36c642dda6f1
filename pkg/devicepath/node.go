// Package devicepath encodes and rewrites EFI device paths (UEFI §10).
//
// A device path is a sequence of nodes, each a 4 byte header (type,
// subtype, little endian length including the header) followed by its
// payload, terminated by an End Entire node.
package devicepath

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/costinm/zebrafish-stub/pkg/uefi"
)

// Type is a device path node type.
type Type uint8

// SubType is a device path node subtype, scoped by Type.
type SubType uint8

const (
	TypeHardware  Type = 0x01
	TypeACPI      Type = 0x02
	TypeMessaging Type = 0x03
	TypeMedia     Type = 0x04
	TypeBIOSBoot  Type = 0x05
	TypeEnd       Type = 0x7f
)

const (
	SubTypeHardwarePCI    SubType = 0x01
	SubTypeHardwareVendor SubType = 0x04

	SubTypeACPI         SubType = 0x01
	SubTypeACPIExpanded SubType = 0x02

	SubTypeMessagingSCSI   SubType = 0x02
	SubTypeMessagingUSB    SubType = 0x05
	SubTypeMessagingMAC    SubType = 0x0b
	SubTypeMessagingVendor SubType = 0x0a
	SubTypeMessagingSATA   SubType = 0x12
	SubTypeMessagingNVMe   SubType = 0x17

	SubTypeMediaHardDrive SubType = 0x01
	SubTypeMediaCDROM     SubType = 0x02
	SubTypeMediaVendor    SubType = 0x03
	SubTypeMediaFilePath  SubType = 0x04

	SubTypeEndInstance SubType = 0x01
	SubTypeEndEntire   SubType = 0xff
)

const (
	headerSize = 4

	// MaxNodeSize is the largest encodable node, header included.
	MaxNodeSize = 0xffff
)

// FullType is the (type, subtype) pair identifying a node kind.
type FullType struct {
	Type    Type
	SubType SubType
}

var (
	MediaFilePath = FullType{TypeMedia, SubTypeMediaFilePath}
	EndEntire     = FullType{TypeEnd, SubTypeEndEntire}
	EndInstance   = FullType{TypeEnd, SubTypeEndInstance}
)

// Node is a single device path node. Data is the payload after the header.
type Node struct {
	Type    Type
	SubType SubType
	Data    []byte
}

// FullType returns the node (type, subtype) pair.
func (n Node) FullType() FullType {
	return FullType{n.Type, n.SubType}
}

// Len returns the encoded length of the node, header included.
func (n Node) Len() int {
	return headerSize + len(n.Data)
}

// Equal reports whether both nodes have the same kind and payload.
func (n Node) Equal(o Node) bool {
	return n.FullType() == o.FullType() && bytes.Equal(n.Data, o.Data)
}

// AppendEncoded appends the wire form of n to b.
func (n Node) AppendEncoded(b []byte) ([]byte, error) {
	if n.Len() > MaxNodeSize {
		return b, fmt.Errorf("%w: %d bytes", ErrNodeTooLarge, n.Len())
	}
	b = append(b, byte(n.Type), byte(n.SubType))
	b = binary.LittleEndian.AppendUint16(b, uint16(n.Len()))
	return append(b, n.Data...), nil
}

// FilePathNode returns a Media/FilePath node for a firmware path such as
// `\EFI\BOOT\BOOTX64.EFI`.
func FilePathNode(name string) (Node, error) {
	data, err := uefi.EncodeStringZ(name)
	if err != nil {
		return Node{}, fmt.Errorf("file path %q: %w", name, err)
	}
	return Node{
		Type:    TypeMedia,
		SubType: SubTypeMediaFilePath,
		Data:    data,
	}, nil
}

// FilePath returns the path name carried by a Media/FilePath node.
func (n Node) FilePath() (string, error) {
	if n.FullType() != MediaFilePath {
		return "", fmt.Errorf("%w: %s", ErrNotFilePath, n.FullType())
	}
	return uefi.DecodeString(n.Data)
}

func (t FullType) String() string {
	return fmt.Sprintf("(0x%02x,0x%02x)", uint8(t.Type), uint8(t.SubType))
}
