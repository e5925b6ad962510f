package object

import (
	"debug/elf"
	"errors"
	"fmt"
)

// ErrNoSymbolTable reports that the object carries no symbol table at
// all (stripped binary).
var ErrNoSymbolTable = errors.New("object has no symbol table")

// Symbol is one function-typed record from the symbol table. Table is
// the record's position in the source table, preserved so that callers
// can reconstruct original table order.
type Symbol struct {
	Name    string
	Address uint64
	Size    uint64
	Table   int
}

// FunctionSymbols returns the STT_FUNC records of the symbol table in
// original table order. Non-function records (objects, sections, files)
// are dropped here so that every downstream index is a function index.
func (o *File) FunctionSymbols() ([]Symbol, error) {
	syms, err := o.elf.Symbols()
	if err != nil {
		if errors.Is(err, elf.ErrNoSymbols) {
			return nil, fmt.Errorf("%w: %s", ErrNoSymbolTable, o.path)
		}
		return nil, fmt.Errorf("failed to read symbol table of %s: %w", o.path, err)
	}

	var out []Symbol
	for i, s := range syms {
		if elf.ST_TYPE(s.Info) != elf.STT_FUNC {
			continue
		}
		out = append(out, Symbol{
			Name:    s.Name,
			Address: s.Value,
			Size:    s.Size,
			Table:   i,
		})
	}

	o.logger.Debug().
		Str("file", o.path).
		Int("total", len(syms)).
		Int("functions", len(out)).
		Msg("Loaded symbol table")

	return out, nil
}
