// Package object wraps the standard ELF and DWARF readers behind the
// narrow surface the correlation engine consumes: DWARF data, the
// function symbol table, and a few per-binary facts (address width,
// content fingerprint).
package object

import (
	"debug/dwarf"
	"debug/elf"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"
)

// File is an opened ELF object: either the binary itself or a separate
// debug-info companion file.
type File struct {
	path   string
	elf    *elf.File
	logger zerolog.Logger
}

// Open opens the ELF file at path. An unreadable or non-ELF file is a
// run-level failure; callers are expected to abort.
func Open(path string, logger zerolog.Logger) (*File, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file %s: %w", path, err)
	}

	o := &File{
		path:   path,
		elf:    f,
		logger: logger.With().Str("component", "object").Logger(),
	}

	if sum, err := o.Fingerprint(); err == nil {
		o.logger.Debug().
			Str("file", path).
			Str("fingerprint", sum).
			Msg("Opened ELF object")
	}

	return o, nil
}

// Close releases the underlying file handle.
func (o *File) Close() error {
	return o.elf.Close()
}

// Path returns the path the object was opened from.
func (o *File) Path() string {
	return o.path
}

// DWARF returns the object's DWARF debug data. Missing or malformed
// debug sections are a run-level failure for a debug-info source.
func (o *File) DWARF() (*dwarf.Data, error) {
	d, err := o.elf.DWARF()
	if err != nil {
		return nil, fmt.Errorf("no DWARF info in %s: %w", o.path, err)
	}
	return d, nil
}

// AddrHexWidth returns the number of hex digits needed to print an
// address at the binary's native address size.
func (o *File) AddrHexWidth() int {
	if o.elf.Class == elf.ELFCLASS32 {
		return 8
	}
	return 16
}

// Fingerprint returns a short content hash of the file, used to spot
// stale debug data in diagnostics.
func (o *File) Fingerprint() (string, error) {
	data, err := os.ReadFile(o.path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", o.path, err)
	}
	return fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}
