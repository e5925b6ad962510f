package correlate

import (
	"debug/dwarf"

	"github.com/rs/zerolog"
)

// Options configures one correlation run.
type Options struct {
	// UnitFilter restricts the run to compilation units whose name
	// contains this substring. Empty selects all units.
	UnitFilter string
	// FunctionFilter restricts extraction to functions with exactly
	// this name; each unit's walk stops at its first match.
	FunctionFilter string
	// BasePath re-roots declared source paths. Empty leaves them
	// untouched.
	BasePath string
	// Mode selects absolute or relative symbol indexing.
	Mode Mode
}

// Record is one resolved function, ready for output.
type Record struct {
	Name    string
	File    string
	Line    int
	Address uint64
	Index   int
	// Indexed is false when no symbol table was available and Index is
	// meaningless.
	Indexed bool
	Unit    string
}

// Failure is a function whose symbol match failed. Failures are
// reported on the error channel and never mixed into the data output.
type Failure struct {
	Function *FunctionEntry
	Err      error
}

// UnitResult groups the records extracted from one compilation unit, in
// extraction order.
type UnitResult struct {
	Unit    CompileUnit
	Records []Record
}

// Result is the outcome of a full run. Per-function failures live in
// Failures; their functions produced no Record.
type Result struct {
	Units    []UnitResult
	Failures []Failure
}

// Pipeline drives select → extract → normalize → match over one
// debug-info source. It is synchronous and single-threaded: units are
// correlated one after another against the shared read-only symbol
// table.
type Pipeline struct {
	dwarf   *dwarf.Data
	matcher *Matcher
	logger  zerolog.Logger
}

// NewPipeline creates a pipeline over d. matcher may be nil when no
// symbol table is available; records are then emitted without indices.
func NewPipeline(d *dwarf.Data, matcher *Matcher, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		dwarf:   d,
		matcher: matcher,
		logger:  logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes the pipeline. It returns an error only for run-level
// failures (unreadable debug info, unit filter matching nothing);
// malformed single units and unmatched functions are reported and do
// not stop processing of their siblings.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	units, err := Units(p.dwarf)
	if err != nil {
		return nil, err
	}
	selected, err := SelectUnits(units, opts.UnitFilter)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i := range selected {
		unit := &selected[i]

		ex, err := NewExtractor(p.dwarf, unit, opts.FunctionFilter)
		if err != nil {
			p.logger.Error().Err(err).Str("unit", unit.Name).
				Msg("Skipping malformed compilation unit")
			continue
		}

		ur := UnitResult{Unit: *unit}
		for {
			fn, err := ex.Next()
			if err != nil {
				p.logger.Error().Err(err).Str("unit", unit.Name).
					Msg("Aborting malformed compilation unit")
				break
			}
			if fn == nil {
				break
			}

			fn.File = NormalizePath(fn.File, unit.CompDir, opts.BasePath)

			rec := Record{
				Name:    fn.Name,
				File:    fn.File,
				Line:    fn.Line,
				Address: fn.Address,
				Unit:    unit.Name,
			}
			if p.matcher != nil {
				mr, err := p.matcher.Match(fn, opts.Mode)
				if err != nil {
					res.Failures = append(res.Failures, Failure{Function: fn, Err: err})
					p.logger.Warn().Err(err).
						Str("function", fn.Name).
						Str("unit", unit.Name).
						Msg("Symbol match failed")
					continue
				}
				rec.Index = mr.Index
				rec.Indexed = true
			}
			ur.Records = append(ur.Records, rec)
		}
		res.Units = append(res.Units, ur)
	}

	resolved := 0
	for _, ur := range res.Units {
		resolved += len(ur.Records)
	}
	p.logger.Info().
		Int("units", len(res.Units)).
		Int("resolved", resolved).
		Int("failed", len(res.Failures)).
		Msg("Correlation run completed")

	return res, nil
}
