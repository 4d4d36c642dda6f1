package devicepath

import "fmt"

// DeriveSibling returns the path of file name on the same device as own.
//
// Nodes of own are copied up to, not including, the first Media/FilePath
// node, which names the image own points to; a single FilePath node for
// name is appended instead. A path without a file node is copied whole.
// The result is built in storage, see Builder. On error no path is
// returned.
func DeriveSibling(storage []byte, own DevicePath, name string) (DevicePath, error) {
	b := NewBuilder(storage)

	for _, n := range own.nodes {
		if n.FullType() == MediaFilePath {
			break
		}
		if err := b.Push(n); err != nil {
			return DevicePath{}, fmt.Errorf("copy node %s: %w", n.FullType(), err)
		}
	}

	file, err := FilePathNode(name)
	if err != nil {
		return DevicePath{}, err
	}
	if err := b.Push(file); err != nil {
		return DevicePath{}, fmt.Errorf("append %q: %w", name, err)
	}

	p, err := b.Finalize()
	if err != nil {
		return DevicePath{}, fmt.Errorf("finalize: %w", err)
	}

	return p, nil
}

// StorageSize returns a storage size large enough to derive a sibling of
// own named name.
func StorageSize(own DevicePath, name string) int {
	// UTF-16 never takes more than 2 bytes per UTF-8 byte, plus NUL
	return len(own.b) + headerSize + 2*len(name) + 2
}
