package utils

import (
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// CompressType is the compression format of a byte stream.
type CompressType int

const (
	CompressNone CompressType = iota
	CompressGzip
	CompressSnappy
	CompressZstd
)

// ParseCompressType maps a compression name from the command line to a
// CompressType.
func ParseCompressType(name string) (CompressType, error) {
	switch name {
	case "", "none":
		return CompressNone, nil
	case "gzip":
		return CompressGzip, nil
	case "snappy":
		return CompressSnappy, nil
	case "zstd":
		return CompressZstd, nil
	}
	return CompressNone, errors.Errorf("no recognized compression type %q", name)
}

// Extension returns the customary file suffix for the format.
func (c CompressType) Extension() string {
	switch c {
	case CompressGzip:
		return ".gz"
	case CompressSnappy:
		return ".snappy"
	case CompressZstd:
		return ".zst"
	}
	return ""
}

// nopWriteCloser adapts a plain writer to the WriteCloser shape the
// compressing writers share.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// WrapReader layers decompression over a raw byte stream.
func WrapReader(rd io.Reader, compressType CompressType) (io.ReadCloser, error) {
	switch compressType {
	case CompressNone:
		return io.NopCloser(rd), nil
	case CompressGzip:
		zr, err := gzip.NewReader(rd)
		if err != nil {
			return nil, errors.Wrap(err, "creating gzip reader")
		}
		return zr, nil
	case CompressSnappy:
		return io.NopCloser(snappy.NewReader(rd)), nil
	case CompressZstd:
		zr, err := zstd.NewReader(rd)
		if err != nil {
			return nil, errors.Wrap(err, "creating zstd reader")
		}
		return zstdReadCloser{zr}, nil
	}
	return nil, errors.Errorf("no recognized compression type %v", compressType)
}

// WrapWriter layers compression over a raw byte sink. Closing the returned
// writer flushes the compressor but leaves the underlying sink open.
func WrapWriter(wr io.Writer, compressType CompressType) (io.WriteCloser, error) {
	switch compressType {
	case CompressNone:
		return nopWriteCloser{wr}, nil
	case CompressGzip:
		return gzip.NewWriter(wr), nil
	case CompressSnappy:
		return snappy.NewBufferedWriter(wr), nil
	case CompressZstd:
		zw, err := zstd.NewWriter(wr)
		if err != nil {
			return nil, errors.Wrap(err, "creating zstd writer")
		}
		return zw, nil
	}
	return nil, errors.Errorf("no recognized compression type %v", compressType)
}
