package correlate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/symdex/symdex/internal/object"
)

// ErrNoMatchingSymbol reports a function whose address has no
// counterpart among same-named symbol table records: the function was
// optimized away, or the debug data is stale relative to the binary.
var ErrNoMatchingSymbol = errors.New("no symbol table record matches address")

// Mode selects how a function's position among same-named symbol
// records is reported.
type Mode int

const (
	// Absolute is the 1-based position among same-named records in
	// original table order.
	Absolute Mode = iota
	// Relative is the 1-based rank among same-named records sorted by
	// ascending address.
	Relative
)

func (m Mode) String() string {
	if m == Relative {
		return "relative"
	}
	return "absolute"
}

// MatchResult pairs a function with its resolved symbol table index.
type MatchResult struct {
	Function *FunctionEntry
	Index    int
	Mode     Mode
}

// symref is one same-named record inside a nameView. tableOrd is its
// 1-based order of appearance among records sharing the name.
type symref struct {
	addr     uint64
	tableOrd int
}

// nameView holds the records sharing one name, sorted by ascending
// address; equal addresses keep original table order (stable sort), so
// output is deterministic.
type nameView struct {
	sorted []symref
}

// Matcher resolves function addresses against one loaded symbol table.
// The table is read-only shared state; the matcher only derives cached
// per-name views from it.
type Matcher struct {
	symbols []object.Symbol
	views   *viewCache
	logger  zerolog.Logger
}

// NewMatcher creates a matcher over symbols. The slice must be in
// original symbol table order.
func NewMatcher(symbols []object.Symbol, logger zerolog.Logger) *Matcher {
	return &Matcher{
		symbols: symbols,
		views:   newViewCache(viewCacheCapacity),
		logger:  logger.With().Str("component", "matcher").Logger(),
	}
}

// view returns the per-name view for name, building and caching it on
// first use so repeated lookups don't rescan the whole table.
func (m *Matcher) view(name string) *nameView {
	if v, ok := m.views.Get(name); ok {
		return v
	}

	var refs []symref
	for _, s := range m.symbols {
		if s.Name == name {
			refs = append(refs, symref{addr: s.Address, tableOrd: len(refs) + 1})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].addr < refs[j].addr
	})

	v := &nameView{sorted: refs}
	m.views.Put(name, v)
	return v
}

// Match resolves fn's index among symbol records sharing its name,
// matching by address equality. Records sharing both name and address
// (aliases) resolve to the same index and are never an error.
func (m *Matcher) Match(fn *FunctionEntry, mode Mode) (*MatchResult, error) {
	refs := m.view(fn.Name).sorted

	i := sort.Search(len(refs), func(i int) bool {
		return refs[i].addr >= fn.Address
	})
	if i == len(refs) || refs[i].addr != fn.Address {
		return nil, fmt.Errorf("%w: %s at %#x (%d candidate(s))",
			ErrNoMatchingSymbol, fn.Name, fn.Address, len(refs))
	}

	idx := i + 1
	if mode == Absolute {
		idx = refs[i].tableOrd
	}

	m.logger.Debug().
		Str("function", fn.Name).
		Uint64("address", fn.Address).
		Str("mode", mode.String()).
		Int("index", idx).
		Msg("Resolved symbol index")

	return &MatchResult{Function: fn, Index: idx, Mode: mode}, nil
}
