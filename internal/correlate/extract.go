package correlate

import (
	"debug/dwarf"
	"fmt"
)

// FunctionEntry is one defined function extracted from a compilation
// unit's entry tree. File is the declared path as recorded by the
// compiler until the normalizer rewrites it.
type FunctionEntry struct {
	Name    string
	Unit    *CompileUnit
	File    string
	Line    int
	Address uint64
}

// Extractor walks one compilation unit's entry tree in document order,
// yielding defined functions. It is a single forward traversal over the
// unit and is not restartable.
type Extractor struct {
	reader *dwarf.Reader
	unit   *CompileUnit
	files  []*dwarf.LineFile
	filter string
	done   bool
}

// NewExtractor positions a reader at the unit and loads its line-table
// file names for decl-file resolution. A missing line table is not
// fatal: declared files then degrade to the unit's comp dir.
func NewExtractor(d *dwarf.Data, unit *CompileUnit, filter string) (*Extractor, error) {
	r := d.Reader()
	r.Seek(unit.Offset)

	cu, err := r.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to read unit %s: %w", unit.Name, err)
	}
	if cu == nil || cu.Tag != dwarf.TagCompileUnit {
		return nil, fmt.Errorf("entry at offset %#x is not a compilation unit", unit.Offset)
	}

	var files []*dwarf.LineFile
	if lr, err := d.LineReader(cu); err == nil && lr != nil {
		files = lr.Files()
	}

	return &Extractor{
		reader: r,
		unit:   unit,
		files:  files,
		filter: filter,
	}, nil
}

// Next returns the next defined function in document order, or nil when
// the unit is exhausted. Subprograms without a name or without a low
// address (declarations, abstract inlined instances, entries pruned by
// the compiler) are skipped silently. With a name filter set, the first
// match ends the traversal.
func (e *Extractor) Next() (*FunctionEntry, error) {
	if e.done {
		return nil, nil
	}

	for {
		ent, err := e.reader.Next()
		if err != nil {
			e.done = true
			return nil, fmt.Errorf("failed to read entry in unit %s: %w", e.unit.Name, err)
		}
		if ent == nil || ent.Tag == dwarf.TagCompileUnit {
			e.done = true
			return nil, nil
		}
		if ent.Tag != dwarf.TagSubprogram {
			continue
		}

		name, ok := ent.Val(dwarf.AttrName).(string)
		if !ok || name == "" {
			continue
		}
		if e.filter != "" && name != e.filter {
			continue
		}
		addr, ok := lowPC(ent)
		if !ok {
			// Declaration-only stub.
			continue
		}

		fn := &FunctionEntry{
			Name:    name,
			Unit:    e.unit,
			File:    e.declFile(ent),
			Line:    declLine(ent),
			Address: addr,
		}
		if e.filter != "" {
			e.done = true
		}
		return fn, nil
	}
}

// lowPC extracts the entry's low address. Some producers encode it with
// constant class rather than address class.
func lowPC(ent *dwarf.Entry) (uint64, bool) {
	switch v := ent.Val(dwarf.AttrLowpc).(type) {
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	default:
		return 0, false
	}
}

// declFile resolves the decl-file attribute through the unit's line
// table. Out-of-range indices and DWARF<5 slot 0 fall back to the
// unit's comp dir rather than failing the function.
func (e *Extractor) declFile(ent *dwarf.Entry) string {
	idx, ok := ent.Val(dwarf.AttrDeclFile).(int64)
	if !ok || idx < 0 || int(idx) >= len(e.files) || e.files[idx] == nil {
		return e.unit.CompDir
	}
	return e.files[idx].Name
}

func declLine(ent *dwarf.Entry) int {
	line, ok := ent.Val(dwarf.AttrDeclLine).(int64)
	if !ok || line < 0 {
		return 0
	}
	return int(line)
}
