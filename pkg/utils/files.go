// Package utils provides the file and image helpers shared by the
// command line tools and the display drivers.
package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// ErrNoROM is returned when an archive does not contain a ROM image.
var ErrNoROM = errors.New("no rom found in archive")

// romExtensions are the extensions preferred when picking a file out
// of an archive.
var romExtensions = []string{".gb", ".gbc", ".bin"}

// LoadFile loads the given file and performs decompression if necessary.
// gzip files are decompressed, and zip and 7z archives return the
// first ROM image they contain.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("opening gzip file: %w", err)
		}
		defer func() { _ = r.Close() }()
		return io.ReadAll(r)

	case ".zip":
		r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("opening zip archive: %w", err)
		}
		names := make([]string, len(r.File))
		for i, f := range r.File {
			names[i] = f.Name
		}
		idx := pickROM(names)
		if idx < 0 {
			return nil, ErrNoROM
		}
		return readArchived(r.File[idx].Open)

	case ".7z":
		r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("opening 7z archive: %w", err)
		}
		names := make([]string, len(r.File))
		for i, f := range r.File {
			names[i] = f.Name
		}
		idx := pickROM(names)
		if idx < 0 {
			return nil, ErrNoROM
		}
		return readArchived(r.File[idx].Open)

	default:
		// return the data as is
		return data, nil
	}
}

// pickROM returns the index of the first name with a ROM extension,
// or of the first regular file when none has one.
func pickROM(names []string) int {
	fallback := -1
	for i, name := range names {
		if strings.HasSuffix(name, "/") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		for _, romExt := range romExtensions {
			if ext == romExt {
				return i
			}
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

func readArchived(open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, fmt.Errorf("opening archived file: %w", err)
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
