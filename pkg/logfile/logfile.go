// Package logfile loads .wpilog files into memory for parsing. Plain files
// are mapped read-only so a parsed Log can borrow its strings and payloads
// straight from the page cache; zstd-compressed files are inflated into a
// heap buffer.
package logfile

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sys/unix"
)

// zstdMagic is the little-endian frame magic 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil)
})

// File is a loaded log file. Bytes stays valid until Close.
type File struct {
	path       string
	data       []byte
	mapped     bool
	compressed bool
}

// Open loads the file at path. Compressed input is detected by its frame
// magic, not by extension.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("failed to open log file: %s is a directory", path)
	}

	lf := &File{path: path}
	if fi.Size() == 0 {
		lf.data = []byte{}
		return lf, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to map log file: %w", err)
	}
	lf.data = data
	lf.mapped = true

	if bytes.HasPrefix(data, zstdMagic) {
		if err := lf.inflate(); err != nil {
			_ = lf.Close()
			return nil, err
		}
	}
	return lf, nil
}

func (f *File) inflate() error {
	dec, err := decoder()
	if err != nil {
		return fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	raw, err := dec.DecodeAll(f.data, nil)
	if err != nil {
		return fmt.Errorf("failed to decompress log file: %w", err)
	}
	if err := unix.Munmap(f.data); err != nil {
		return fmt.Errorf("failed to unmap log file: %w", err)
	}
	f.data = raw
	f.mapped = false
	f.compressed = true
	return nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Bytes returns the decompressed file contents. The slice is read-only when
// Mapped reports true; writing to it faults.
func (f *File) Bytes() []byte { return f.data }

// Size returns the length of Bytes.
func (f *File) Size() int { return len(f.data) }

// Mapped reports whether Bytes is backed by a memory mapping.
func (f *File) Mapped() bool { return f.mapped }

// Compressed reports whether the file on disk was zstd-compressed.
func (f *File) Compressed() bool { return f.compressed }

// Close releases the mapping. Anything borrowed from Bytes, including a Log
// parsed without copying strings, must not be used afterwards.
func (f *File) Close() error {
	if !f.mapped {
		f.data = nil
		return nil
	}
	data := f.data
	f.data = nil
	f.mapped = false
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("failed to unmap log file: %w", err)
	}
	return nil
}

// Compress returns data as a single zstd frame, the form Open inflates.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}
