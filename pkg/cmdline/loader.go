package cmdline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// MaxReadSize is the most bytes read from the command line file, leaving
// room for a CHAR16 terminator in a MaxUnits buffer.
const MaxReadSize = MaxUnits - 2

var (
	ErrStat                = errors.New("cannot stat command line file")
	ErrRead                = errors.New("cannot read command line file")
	ErrInvalidUTF8         = errors.New("command line file is not valid UTF-8")
	ErrUnsupportedEncoding = errors.New("command line file is UTF-16, only UTF-8 is supported")
)

// Volume is the file system the command line is read from.
type Volume interface {
	OpenVolume() (fs.FS, error)
}

// VolumeFunc adapts a function to Volume.
type VolumeFunc func() (fs.FS, error)

func (f VolumeFunc) OpenVolume() (fs.FS, error) {
	return f()
}

// Loader reads the command line file from a volume.
type Loader struct {
	volume   Volume
	path     string
	fallback string
	log      *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithPath sets the command line file name.
func WithPath(path string) Option {
	return func(l *Loader) {
		l.path = path
	}
}

// WithFallback sets the command line used when the file is missing.
func WithFallback(s string) Option {
	return func(l *Loader) {
		l.fallback = s
	}
}

// WithLogger sets the logger reporting which command line was used.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		l.log = logger
	}
}

func NewLoader(volume Volume, opts ...Option) *Loader {
	l := &Loader{
		volume:   volume,
		path:     DefaultPath,
		fallback: DefaultFallback,
		log:      log.Default(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the command line from the file, or the fallback when the
// volume or file can not be opened, the file is not a regular file or it
// is empty. Those cases are expected and only logged.
//
// An error is returned only when the file exists but is unusable: stat or
// read failures, UTF-16 or otherwise invalid content. Callers treat these
// as fatal.
func (l *Loader) Load() (CommandLine, error) {
	root, err := l.volume.OpenVolume()
	if err != nil {
		return l.useFallback("cannot open volume: %v", err)
	}

	f, err := root.Open(l.path)
	if err != nil {
		return l.useFallback("cannot open %s: %v", l.path, err)
	}
	defer f.Close()

	// A missing file is a normal configuration, an existing file whose
	// metadata can not be read means the volume is inconsistent.
	fi, err := f.Stat()
	if err != nil {
		return CommandLine{}, fmt.Errorf("%w %s: %w", ErrStat, l.path, err)
	}

	readSize := MaxReadSize
	if fi.Size() < int64(readSize) {
		readSize = int(fi.Size())
	}
	truncated := fi.Size() > int64(readSize)

	if !fi.Mode().IsRegular() {
		return l.useFallback("%s is not a regular file", l.path)
	}

	// two extra bytes keep the buffer NUL terminated as a CHAR16 string
	buf := make([]byte, readSize+2)
	n, err := io.ReadFull(f, buf[:readSize])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return CommandLine{}, fmt.Errorf("%w %s: %w", ErrRead, l.path, err)
	}
	if n == 0 {
		return l.useFallback("%s is empty", l.path)
	}
	buf[n] = 0
	buf[n+1] = 0

	content := buf[:n]
	if isUTF16(content) {
		return CommandLine{}, fmt.Errorf("%s: %w", l.path, ErrUnsupportedEncoding)
	}
	if truncated {
		content = trimPartialRune(content)
	}
	if !utf8.Valid(content) {
		return CommandLine{}, fmt.Errorf("%s: %w", l.path, ErrInvalidUTF8)
	}

	cl, err := New(string(content))
	if err != nil {
		return CommandLine{}, fmt.Errorf("%s: %w", l.path, err)
	}

	if truncated {
		l.log.Printf("%s truncated to %s", l.path, humanize.Bytes(uint64(n)))
	}
	l.log.Printf("read %s from %s", humanize.Bytes(uint64(n)), l.path)

	return cl, nil
}

func (l *Loader) useFallback(format string, args ...any) (CommandLine, error) {
	l.log.Printf("warning: "+format+", using fallback command line", args...)
	return Fallback(l.fallback)
}

// isUTF16 detects files saved as UTF-16: a byte order mark or NUL bytes,
// which never appear in a UTF-8 command line.
func isUTF16(b []byte) bool {
	if bytes.HasPrefix(b, []byte{0xff, 0xfe}) || bytes.HasPrefix(b, []byte{0xfe, 0xff}) {
		return true
	}
	return bytes.IndexByte(b, 0) >= 0
}

// trimPartialRune drops an incomplete UTF-8 sequence left at the end of b
// by truncation.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if !utf8.RuneStart(c) {
			continue
		}
		if !utf8.FullRune(b[len(b)-i:]) {
			return b[:len(b)-i]
		}
		break
	}
	return b
}
