// Package image loads binary images for disassembly, unpacking gzip and
// zip containers transparently.
package image

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"dis6502/internal/disasm"
)

// MaxSize is the 6502 address space. Longer images are truncated.
const MaxSize = disasm.AddressSpace

// Container formats recognised by Decode.
const (
	FormatRaw  = "raw"
	FormatGzip = "gzip"
	FormatZip  = "zip"
)

type Image struct {
	Name   string
	Data   []byte
	Format string // container the data was unpacked from
	Size   int    // size before truncation
}

// Digest is the hex SHA-256 of the (unpacked, truncated) data.
func (img *Image) Digest() string {
	return fmt.Sprintf("%x", sha256.Sum256(img.Data))
}

// Truncated reports whether the image exceeded MaxSize.
func (img *Image) Truncated() bool { return img.Size > len(img.Data) }

// Open reads and decodes the file at path.
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	return Decode(path, data)
}

// Read reads and decodes everything from r.
func Read(name string, r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return Decode(name, data)
}

// Decode unpacks data if it is a gzip stream or zip archive (first member)
// and truncates the result to MaxSize.
func Decode(name string, data []byte) (*Image, error) {
	img := &Image{Name: name, Format: FormatRaw}

	switch {
	case len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b:
		slog.Debug("Detected gzip compression", "file", name)
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip reader creation failed: %w", err)
		}
		defer reader.Close()

		if data, err = io.ReadAll(reader); err != nil {
			return nil, fmt.Errorf("gzip decompression failed: %w", err)
		}
		img.Format = FormatGzip

	case isZip(data):
		slog.Debug("Detected ZIP archive", "file", name)
		reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("zip reader creation failed: %w", err)
		}
		if len(reader.File) == 0 {
			return nil, errors.New("zip archive is empty")
		}

		file := reader.File[0]
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file in zip: %w", err)
		}
		defer rc.Close()

		if data, err = io.ReadAll(rc); err != nil {
			return nil, fmt.Errorf("failed to read file from zip: %w", err)
		}
		slog.Debug("ZIP decompression successful", "file", name, "member", file.Name)
		img.Format = FormatZip
	}

	img.Size = len(data)
	if len(data) > MaxSize {
		slog.Warn("Image larger than 64K, truncating", "file", name, "size", len(data))
		data = data[:MaxSize]
	}
	img.Data = data
	return img, nil
}

// isZip matches a local file header or, for an archive with no members,
// the end of central directory record.
func isZip(data []byte) bool {
	return len(data) >= 4 && (bytes.HasPrefix(data, []byte("PK\x03\x04")) || bytes.HasPrefix(data, []byte("PK\x05\x06")))
}
