package devicepath

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrTruncated    = errors.New("device path truncated")
	ErrNodeLength   = errors.New("device path node length shorter than header")
	ErrNoEnd        = errors.New("device path has no end node")
	ErrNodeTooLarge = errors.New("device path node too large")
	ErrNotFilePath  = errors.New("not a file path node")
	ErrBufferFull   = errors.New("device path storage full")
	ErrFinalized    = errors.New("device path builder already finalized")
)

// DevicePath is an immutable, validated device path. The encoded form,
// End Entire node included, is shared with the storage it was built in or
// parsed from.
type DevicePath struct {
	b     []byte
	nodes []Node
}

// Parse validates an encoded device path. Bytes following the End Entire
// node are ignored. Multi-instance paths are accepted; End Instance nodes
// are kept as regular nodes.
func Parse(b []byte) (DevicePath, error) {
	var nodes []Node

	off := 0
	for {
		if off+headerSize > len(b) {
			return DevicePath{}, fmt.Errorf("%w at offset %d", ErrNoEnd, off)
		}

		n := int(binary.LittleEndian.Uint16(b[off+2:]))
		if n < headerSize {
			return DevicePath{}, fmt.Errorf("%w: %d at offset %d", ErrNodeLength, n, off)
		}
		if off+n > len(b) {
			return DevicePath{}, fmt.Errorf("%w: node at offset %d needs %d bytes", ErrTruncated, off, n)
		}

		node := Node{
			Type:    Type(b[off]),
			SubType: SubType(b[off+1]),
			Data:    b[off+headerSize : off+n : off+n],
		}
		off += n

		if node.FullType() == EndEntire {
			break
		}
		nodes = append(nodes, node)
	}

	return DevicePath{b: b[:off:off], nodes: nodes}, nil
}

// Nodes returns the path nodes, without the End Entire terminator.
// Node payloads alias the path storage and must not be modified.
func (p DevicePath) Nodes() []Node {
	out := make([]Node, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// Len returns the number of nodes, End Entire excluded.
func (p DevicePath) Len() int {
	return len(p.nodes)
}

// Bytes returns the encoded path, End Entire included. The slice aliases the
// path storage: it is meant to be handed to firmware, not modified.
func (p DevicePath) Bytes() []byte {
	return p.b
}

// IsZero reports whether p was never built.
func (p DevicePath) IsZero() bool {
	return p.b == nil
}

// Equal reports whether both paths have the same nodes.
func (p DevicePath) Equal(o DevicePath) bool {
	if len(p.nodes) != len(o.nodes) {
		return false
	}
	for i := range p.nodes {
		if !p.nodes[i].Equal(o.nodes[i]) {
			return false
		}
	}
	return true
}

// FilePath returns the name carried by the first Media/FilePath node.
func (p DevicePath) FilePath() (string, bool) {
	for _, n := range p.nodes {
		if n.FullType() == MediaFilePath {
			s, err := n.FilePath()
			return s, err == nil
		}
	}
	return "", false
}
