package devicepath

import "fmt"

// Builder accumulates nodes into caller supplied storage. It never grows
// the storage: once cap(storage) is reached Push fails with ErrBufferFull.
// The DevicePath returned by Finalize aliases the storage, which must
// outlive every use of the path.
type Builder struct {
	buf       []byte
	finalized bool
}

// NewBuilder returns a builder writing into storage[:0].
func NewBuilder(storage []byte) *Builder {
	return &Builder{buf: storage[:0]}
}

// Push appends a copy of n.
func (b *Builder) Push(n Node) error {
	if b.finalized {
		return ErrFinalized
	}
	if n.FullType() == EndEntire {
		return fmt.Errorf("push %s: end node is added by Finalize", n.FullType())
	}
	return b.append(n)
}

// Finalize terminates the path and returns it. The builder can not be
// used afterwards.
func (b *Builder) Finalize() (DevicePath, error) {
	if b.finalized {
		return DevicePath{}, ErrFinalized
	}
	if err := b.append(Node{Type: TypeEnd, SubType: SubTypeEndEntire}); err != nil {
		return DevicePath{}, err
	}
	b.finalized = true

	return Parse(b.buf[:len(b.buf):len(b.buf)])
}

func (b *Builder) append(n Node) error {
	if len(b.buf)+n.Len() > cap(b.buf) {
		return fmt.Errorf("%w: %d of %d bytes used, node %s needs %d",
			ErrBufferFull, len(b.buf), cap(b.buf), n.FullType(), n.Len())
	}

	buf, err := n.AppendEncoded(b.buf)
	if err != nil {
		return err
	}
	b.buf = buf

	return nil
}
