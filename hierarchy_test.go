package allocation

import (
	"errors"
	"testing"
)

func TestNewHierarchy(t *testing.T) {
	tests := []struct {
		name    string
		defs    []LevelDef
		wantErr bool
	}{
		{name: "empty", wantErr: true},
		{name: "missing field", defs: []LevelDef{{Name: "Asset"}}, wantErr: true},
		{name: "duplicate field", defs: []LevelDef{{Name: "A", Field: "x"}, {Name: "B", Field: "x"}}, wantErr: true},
		{name: "single level", defs: []LevelDef{{Name: "Asset", Field: "ticker"}}},
		{name: "two levels", defs: []LevelDef{{Name: "Asset", Field: "ticker"}, {Name: "Class", Field: "class"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewHierarchy(tc.defs...)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewHierarchy() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestHierarchyLevels(t *testing.T) {
	h := threeLevels(t)

	if got := h.Top(); got.Name() != "Class" || got.Index() != 2 {
		t.Errorf("Top() = %v, want Class at index 2", got)
	}
	below, ok := h.Below(h.Top())
	if !ok || below.Field() != "sector" {
		t.Errorf("Below(Top()) = %v, %v, want sector", below, ok)
	}
	if _, ok := h.Below(Level{}); ok {
		t.Errorf("Below(leaf) should not exist")
	}
	if l, ok := h.LevelByField("ticker"); !ok || l.Index() != 0 {
		t.Errorf("LevelByField(ticker) = %v, %v, want index 0", l, ok)
	}

	var names []string
	for l := range h.Levels() {
		names = append(names, l.Name())
	}
	if want := []string{"Class", "Sector", "Asset"}; !equalStrings(names, want) {
		t.Errorf("Levels() = %v, want %v", names, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLevelIndexOf(t *testing.T) {
	tests := []struct {
		name     string
		id       StructuralID
		size     int
		want     int
		wantKind IntegrityKind
		wantErr  bool
	}{
		{name: "leaf", id: id("AAA", "Tech"), size: 2, want: 0},
		{name: "aggregator", id: id("", "Tech"), size: 2, want: 1},
		{name: "short id misses the top", id: id("", "Tech"), size: 3, wantErr: true, wantKind: NonContiguous},
		{name: "middle level", id: id("", "Software", "Equity"), size: 3, want: 1},
		{name: "top level", id: id("", "", "Equity"), size: 3, want: 2},
		{name: "single level", id: id("AAA"), size: 1, want: 0},
		{name: "hole", id: id("AAA", "", "Equity"), size: 3, wantErr: true, wantKind: NonContiguous},
		{name: "missing top", id: id("AAA", ""), size: 2, wantErr: true, wantKind: NonContiguous},
		{name: "empty", id: id("", ""), size: 2, wantErr: true, wantKind: EmptyStructure},
		{name: "too deep", id: id("AAA", "Tech", "Equity"), size: 2, wantErr: true, wantKind: OutOfRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LevelIndexOf(tc.id, tc.size)
			if tc.wantErr {
				var ie *IntegrityError
				if !errors.As(err, &ie) {
					t.Fatalf("LevelIndexOf(%v) error = %v, want an IntegrityError", tc.id, err)
				}
				if ie.Kind != tc.wantKind {
					t.Errorf("LevelIndexOf(%v) kind = %v, want %v", tc.id, ie.Kind, tc.wantKind)
				}
				if !errors.Is(err, ErrStructuralIntegrity) {
					t.Errorf("LevelIndexOf(%v) error does not match ErrStructuralIntegrity", tc.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("LevelIndexOf(%v) unexpected error: %v", tc.id, err)
			}
			if got != tc.want {
				t.Errorf("LevelIndexOf(%v) = %d, want %d", tc.id, got, tc.want)
			}
		})
	}
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		id   StructuralID
		want Key
	}{
		{id("AAA", "Tech"), "AAA|Tech"},
		{id("", "Tech"), "Tech"},
		{id("", "Software", "Equity"), "Software|Equity"},
		{id("", ""), ""},
		// trailing or leading holes do not change the key
		{id("Tech", ""), "Tech"},
		// separators inside entries are escaped
		{id("", "A|B"), `A\|B`},
		{id(`C:\`, "Tech"), `C:\\|Tech`},
	}
	for _, tc := range tests {
		if got := KeyOf(tc.id); got != tc.want {
			t.Errorf("KeyOf(%v) = %q, want %q", tc.id, got, tc.want)
		}
	}

	// keys are pure: same entries, same key; different entries, different keys.
	if KeyOf(id("AAA", "Tech")) != KeyOf(id("AAA", "Tech")) {
		t.Error("KeyOf is not deterministic")
	}
	if KeyOf(id("AAA", "Tech")) == KeyOf(id("BBB", "Tech")) {
		t.Error("KeyOf collides on different values")
	}
	if KeyOf(id("A", "B")) == KeyOf(id("", "A|B")) {
		t.Error("KeyOf collides across levels")
	}
}

func TestParentKey(t *testing.T) {
	tests := []struct {
		id    StructuralID
		level int
		want  Key
	}{
		{id("AAA", "Tech"), 0, "Tech"},
		{id("", "Tech"), 1, ""},
		{id("AAA", "Software", "Equity"), 0, "Software|Equity"},
		{id("", "Software", "Equity"), 1, "Equity"},
	}
	for _, tc := range tests {
		if got := ParentKey(tc.id, tc.level); got != tc.want {
			t.Errorf("ParentKey(%v, %d) = %q, want %q", tc.id, tc.level, got, tc.want)
		}
	}
}
