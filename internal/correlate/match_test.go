package correlate

import (
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symdex/symdex/internal/object"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// dupTable is a symbol table whose "dup" records are not in address
// order: original table order 0x300, 0x100, 0x200.
func dupTable() []object.Symbol {
	return []object.Symbol{
		{Name: "dup", Address: 0x300, Table: 3},
		{Name: "other", Address: 0x150, Table: 5},
		{Name: "dup", Address: 0x100, Table: 7},
		{Name: "dup", Address: 0x200, Table: 9},
	}
}

func TestMatchDuplicateNames(t *testing.T) {
	m := NewMatcher(dupTable(), testLogger())
	fn := &FunctionEntry{Name: "dup", Address: 0x200}

	// Third same-named record in table order.
	abs, err := m.Match(fn, Absolute)
	require.NoError(t, err)
	assert.Equal(t, 3, abs.Index)

	// Second-lowest address among the three.
	rel, err := m.Match(fn, Relative)
	require.NoError(t, err)
	assert.Equal(t, 2, rel.Index)
}

func TestMatchSingleRecord(t *testing.T) {
	m := NewMatcher([]object.Symbol{
		{Name: "f", Address: 0x42, Table: 1},
	}, testLogger())
	fn := &FunctionEntry{Name: "f", Address: 0x42}

	for _, mode := range []Mode{Absolute, Relative} {
		mr, err := m.Match(fn, mode)
		require.NoError(t, err)
		assert.Equal(t, 1, mr.Index, "mode %s", mode)
	}
}

func TestMatchUnmatchedAddress(t *testing.T) {
	m := NewMatcher(dupTable(), testLogger())

	_, err := m.Match(&FunctionEntry{Name: "dup", Address: 0x999}, Absolute)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatchingSymbol))

	// A failed match must not poison later lookups of the same name.
	mr, err := m.Match(&FunctionEntry{Name: "dup", Address: 0x100}, Relative)
	require.NoError(t, err)
	assert.Equal(t, 1, mr.Index)
}

func TestMatchUnknownName(t *testing.T) {
	m := NewMatcher(dupTable(), testLogger())

	_, err := m.Match(&FunctionEntry{Name: "missing", Address: 0x100}, Absolute)
	assert.True(t, errors.Is(err, ErrNoMatchingSymbol))
}

func TestMatchAliases(t *testing.T) {
	// Two records share name and address: a legitimate alias, both
	// co-ranked, never an error.
	m := NewMatcher([]object.Symbol{
		{Name: "dup", Address: 0x100, Table: 1},
		{Name: "dup", Address: 0x100, Table: 2},
		{Name: "dup", Address: 0x200, Table: 3},
	}, testLogger())
	fn := &FunctionEntry{Name: "dup", Address: 0x100}

	abs, err := m.Match(fn, Absolute)
	require.NoError(t, err)
	assert.Equal(t, 1, abs.Index)

	rel, err := m.Match(fn, Relative)
	require.NoError(t, err)
	assert.Equal(t, 1, rel.Index)

	// The record after the aliases still ranks past both of them.
	after, err := m.Match(&FunctionEntry{Name: "dup", Address: 0x200}, Relative)
	require.NoError(t, err)
	assert.Equal(t, 3, after.Index)
}

// TestMatchIndexBounds checks that every resolvable record yields an
// index within [1, count of same-named records] in both modes.
func TestMatchIndexBounds(t *testing.T) {
	table := dupTable()
	m := NewMatcher(table, testLogger())

	counts := make(map[string]int)
	for _, s := range table {
		counts[s.Name]++
	}

	for _, s := range table {
		fn := &FunctionEntry{Name: s.Name, Address: s.Address}
		for _, mode := range []Mode{Absolute, Relative} {
			mr, err := m.Match(fn, mode)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, mr.Index, 1)
			assert.LessOrEqual(t, mr.Index, counts[s.Name])
		}
	}
}

func TestMatchViewCaching(t *testing.T) {
	m := NewMatcher(dupTable(), testLogger())

	_, err := m.Match(&FunctionEntry{Name: "dup", Address: 0x300}, Absolute)
	require.NoError(t, err)
	require.Equal(t, 1, m.views.Len())

	// Same name again reuses the cached view.
	_, err = m.Match(&FunctionEntry{Name: "dup", Address: 0x100}, Relative)
	require.NoError(t, err)
	assert.Equal(t, 1, m.views.Len())

	_, err = m.Match(&FunctionEntry{Name: "other", Address: 0x150}, Absolute)
	require.NoError(t, err)
	assert.Equal(t, 2, m.views.Len())
}

func TestViewCacheEviction(t *testing.T) {
	c := newViewCache(2)
	c.Put("a", &nameView{})
	c.Put("b", &nameView{})
	c.Put("c", &nameView{})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.Get("c")
	assert.True(t, ok)
}
