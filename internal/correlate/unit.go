// Package correlate implements the correlation engine: it walks DWARF
// compilation units to enumerate defined functions, re-roots their
// declared source paths, and resolves each function's position among
// same-named symbol table records by address equality.
package correlate

import (
	"debug/dwarf"
	"errors"
	"fmt"
	"strings"
)

// ErrUnitNotFound reports a compilation unit filter that matched
// nothing. It is distinct from an empty binary so that a typo in the
// filter is not mistaken for an empty result.
var ErrUnitNotFound = errors.New("no compilation unit matches filter")

// CompileUnit describes one DWARF compilation unit. Name has leading
// ".." components dropped; CompDir is the compile-time root recorded by
// the producer, which path normalization strips when re-rooting.
type CompileUnit struct {
	Offset  dwarf.Offset
	Name    string
	CompDir string
}

// Units enumerates every compilation unit in d, in section order.
func Units(d *dwarf.Data) ([]CompileUnit, error) {
	r := d.Reader()

	var units []CompileUnit
	for {
		ent, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read debug info: %w", err)
		}
		if ent == nil {
			break
		}
		if ent.Tag != dwarf.TagCompileUnit {
			r.SkipChildren()
			continue
		}

		name, _ := ent.Val(dwarf.AttrName).(string)
		dir, _ := ent.Val(dwarf.AttrCompDir).(string)
		units = append(units, CompileUnit{
			Offset:  ent.Offset,
			Name:    CleanRelative(name),
			CompDir: dir,
		})
		r.SkipChildren()
	}

	return units, nil
}

// SelectUnits filters units to those whose name contains filter as a
// substring (case-sensitive). An empty filter selects every unit; a
// non-empty filter matching zero units is ErrUnitNotFound.
func SelectUnits(units []CompileUnit, filter string) ([]CompileUnit, error) {
	if filter == "" {
		return units, nil
	}

	var out []CompileUnit
	for _, u := range units {
		if strings.Contains(u.Name, filter) {
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnitNotFound, filter)
	}
	return out, nil
}
