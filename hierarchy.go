package allocation

import (
	"fmt"
	"iter"
	"strings"
)

// keySeparator joins the specified entries of a structural id into a Key.
const keySeparator = "|"

// keyEscaper protects separators inside entries so that a key always splits
// back into the entries it was made of.
var keyEscaper = strings.NewReplacer(`\`, `\\`, keySeparator, `\`+keySeparator)

// Level is one tier of a drill-down classification (e.g. asset class, then asset).
// It is immutable once the Hierarchy is built.
type Level struct {
	name  string // display label
	field string // record property used for grouping at this level
	index int    // 0 is the leaf level
}

func (l Level) Name() string  { return l.name }
func (l Level) Field() string { return l.field }
func (l Level) Index() int    { return l.index }

func (l Level) String() string { return fmt.Sprintf("%s(%s)#%d", l.name, l.field, l.index) }

// LevelDef is the wire form of a Level: the index is assigned by position.
type LevelDef struct {
	Name  string
	Field string
}

// Hierarchy is an ordered sequence of levels: index 0 is the lowest (most
// granular) level, the last one is the top.
type Hierarchy struct {
	levels []Level
}

// NewHierarchy builds a Hierarchy from its definitions, the first definition
// being the leaf level.
func NewHierarchy(defs ...LevelDef) (*Hierarchy, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("hierarchy must have at least one level")
	}
	h := &Hierarchy{levels: make([]Level, 0, len(defs))}
	seen := make(map[string]int, len(defs))
	for i, d := range defs {
		if d.Field == "" {
			return nil, fmt.Errorf("hierarchy level %d (%q) has no field", i, d.Name)
		}
		if j, exists := seen[d.Field]; exists {
			return nil, fmt.Errorf("hierarchy levels %d and %d share the field %q", j, i, d.Field)
		}
		seen[d.Field] = i
		name := d.Name
		if name == "" {
			name = d.Field
		}
		h.levels = append(h.levels, Level{name: name, field: d.Field, index: i})
	}
	return h, nil
}

// Size returns the number of levels.
func (h *Hierarchy) Size() int { return len(h.levels) }

// Level returns the level at index i.
func (h *Hierarchy) Level(i int) (Level, bool) {
	if i < 0 || i >= len(h.levels) {
		return Level{}, false
	}
	return h.levels[i], true
}

// Top returns the coarsest level.
func (h *Hierarchy) Top() Level { return h.levels[len(h.levels)-1] }

// Below returns the level directly below l, false at the leaf level.
func (h *Hierarchy) Below(l Level) (Level, bool) { return h.Level(l.index - 1) }

// LevelByField finds the level grouping records on field.
func (h *Hierarchy) LevelByField(field string) (Level, bool) {
	for _, l := range h.levels {
		if l.field == field {
			return l, true
		}
	}
	return Level{}, false
}

// Levels iterates over levels from the top down to the leaf level.
func (h *Hierarchy) Levels() iter.Seq[Level] {
	return func(yield func(Level) bool) {
		for i := len(h.levels) - 1; i >= 0; i-- {
			if !yield(h.levels[i]) {
				return
			}
		}
	}
}

// Defs returns the wire form of the hierarchy.
func (h *Hierarchy) Defs() []LevelDef {
	defs := make([]LevelDef, len(h.levels))
	for i, l := range h.levels {
		defs[i] = LevelDef{Name: l.name, Field: l.field}
	}
	return defs
}

// Key is the string form of the specified entries of a structural id. It
// identifies nodes in a FractalPlan and datasets in a ChartCache.
type Key string

func (k Key) String() string { return string(k) }

// StructuralID locates a record in the hierarchy, one slot per level index.
// An empty slot is unspecified.
type StructuralID []string

// At returns the slot at index i, "" when unspecified or out of range.
func (id StructuralID) At(i int) string {
	if i < 0 || i >= len(id) {
		return ""
	}
	return id[i]
}

// LevelIndexOf returns the level index the structural id is anchored at.
//
// Scanning from the top level down, the record's level is one above the first
// unspecified slot, or 0 when every slot is specified. Slots must be filled
// contiguously from the top: a specified slot below the first hole, an empty
// id, or an id longer than the hierarchy is an IntegrityError.
func LevelIndexOf(id StructuralID, size int) (int, error) {
	if len(id) > size {
		return 0, &IntegrityError{Kind: OutOfRange, Key: KeyOf(id), Record: -1}
	}
	level := 0
	for i := size - 1; i >= 0; i-- {
		if id.At(i) == "" {
			level = i + 1
			break
		}
	}
	if level == size {
		if KeyOf(id) == "" {
			return 0, &IntegrityError{Kind: EmptyStructure, Record: -1}
		}
		return 0, &IntegrityError{Kind: NonContiguous, Key: KeyOf(id), Record: -1}
	}
	for j := level - 1; j >= 0; j-- {
		if id.At(j) != "" {
			return 0, &IntegrityError{Kind: NonContiguous, Key: KeyOf(id), Record: -1}
		}
	}
	return level, nil
}

// KeyOf joins the specified entries of id, in index order. A "|" or "\\"
// inside an entry is escaped with a backslash.
func KeyOf(id StructuralID) Key {
	parts := make([]string, 0, len(id))
	for _, v := range id {
		if v != "" {
			parts = append(parts, keyEscaper.Replace(v))
		}
	}
	return Key(strings.Join(parts, keySeparator))
}

// ParentKey is the key of the node above a record anchored at level: its own
// level entry and everything below are dropped.
func ParentKey(id StructuralID, level int) Key {
	if level+1 >= len(id) {
		return ""
	}
	return KeyOf(id[level+1:])
}
