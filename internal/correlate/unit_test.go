package correlate

import (
	"errors"
	"testing"
)

func TestSelectUnits(t *testing.T) {
	units := []CompileUnit{
		{Offset: 0x0, Name: "src/main.c"},
		{Offset: 0x100, Name: "src/util.c"},
		{Offset: 0x200, Name: "lib/parse.c"},
	}

	t.Run("empty filter selects all units", func(t *testing.T) {
		got, err := SelectUnits(units, "")
		if err != nil {
			t.Fatalf("SelectUnits() error = %v", err)
		}
		if len(got) != len(units) {
			t.Errorf("got %d units, want %d", len(got), len(units))
		}
	})

	t.Run("substring filter", func(t *testing.T) {
		got, err := SelectUnits(units, "src/")
		if err != nil {
			t.Fatalf("SelectUnits() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d units, want 2", len(got))
		}
		if got[0].Name != "src/main.c" || got[1].Name != "src/util.c" {
			t.Errorf("unexpected selection: %v", got)
		}
	})

	t.Run("filter is case-sensitive", func(t *testing.T) {
		_, err := SelectUnits(units, "SRC/")
		if !errors.Is(err, ErrUnitNotFound) {
			t.Errorf("error = %v, want ErrUnitNotFound", err)
		}
	})

	t.Run("zero matches is an error, not empty success", func(t *testing.T) {
		_, err := SelectUnits(units, "no-such-unit")
		if !errors.Is(err, ErrUnitNotFound) {
			t.Errorf("error = %v, want ErrUnitNotFound", err)
		}
	})

	t.Run("empty filter over empty list is not an error", func(t *testing.T) {
		got, err := SelectUnits(nil, "")
		if err != nil {
			t.Fatalf("SelectUnits() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d units, want 0", len(got))
		}
	})
}
