// Package csv is a streaming CSV reader and writer operating one Unicode
// scalar at a time. It supports multi-scalar field and row delimiters,
// quoted fields with doubled-quote escaping, edge trimming, header rows
// with name-based lookup, ASCII/UTF-8/UTF-16/UTF-32 byte streams with Byte
// Order Mark detection, and heuristic field-delimiter detection for
// unlabeled input.
package csv

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// NewReaderFromString parses CSV data held in a string.
func NewReaderFromString(data string, settings Settings) (*Reader, error) {
	return NewReader(strings.NewReader(data), settings)
}

// NewReaderFromBytes parses CSV data held in a byte slice.
func NewReaderFromBytes(data []byte, settings Settings) (*Reader, error) {
	return NewReader(bytes.NewReader(data), settings)
}

// FileReader couples a Reader with the file it reads from.
type FileReader struct {
	*Reader
	f *os.File
}

// OpenReader opens path and parses it as CSV.
func OpenReader(path string, settings Settings) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening csv file")
	}
	r, err := NewReader(f, settings)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileReader{Reader: r, f: f}, nil
}

// Close releases the underlying file.
func (r *FileReader) Close() error { return r.f.Close() }

// FileWriter couples a Writer with the file it writes to.
type FileWriter struct {
	*Writer
	f *os.File
}

// CreateWriter creates path and serializes CSV into it.
func CreateWriter(path string, settings Settings) (*FileWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "creating csv file")
	}
	w, err := NewWriter(f, settings)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileWriter{Writer: w, f: f}, nil
}

// Close finalizes the stream and releases the file.
func (w *FileWriter) Close() error {
	err := w.EndFile()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadAll consumes src to its end and returns every row.
func ReadAll(src io.Reader, settings Settings) ([][]string, error) {
	r, err := NewReader(src, settings)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for {
		row, err := r.ReadRow()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// WriteAll serializes rows into dst and finalizes the stream.
func WriteAll(dst io.Writer, rows [][]string, settings Settings) error {
	w, err := NewWriter(dst, settings)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return w.EndFile()
}

// WriteString serializes rows and returns the result as a string.
func WriteString(rows [][]string, settings Settings) (string, error) {
	var buf bytes.Buffer
	if err := WriteAll(&buf, rows, settings); err != nil {
		return "", err
	}
	return buf.String(), nil
}
