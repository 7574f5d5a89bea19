package allocation

import (
	"errors"
	"fmt"
)

// Validate checks records against h as the rows of a fractal tree and returns
// every failure joined, unlike MapFractalHierarchy which stops at the first
// one. It is meant for editing flows where all the faulty rows must be
// reported at once.
func Validate[A Allocation](records []A, h *Hierarchy) error {
	var errs []error
	keys := make(map[Key]int, len(records))
	levels := make(map[int]int, len(records)) // record -> level, valid records only

	for i, r := range records {
		id := r.StructuralID()
		level, err := LevelIndexOf(id, h.Size())
		if err != nil {
			errs = append(errs, at(err, i))
			continue
		}
		levels[i] = level
		key := KeyOf(id)
		if first, dup := keys[key]; dup {
			errs = append(errs, fmt.Errorf("%w (first seen at record #%d)", &IntegrityError{Kind: DuplicateKey, Key: key, Record: i}, first))
			continue
		}
		keys[key] = i
		if err := checkMeasure(r, i); err != nil {
			errs = append(errs, err)
		}
	}

	// parents must exist among the aggregator rows
	for i, r := range records {
		level, ok := levels[i]
		if !ok || level == h.Size()-1 {
			continue
		}
		parent := ParentKey(r.StructuralID(), level)
		if j, ok := keys[parent]; !ok || levels[j] <= level {
			errs = append(errs, &IntegrityError{Kind: MissingParent, Key: KeyOf(r.StructuralID()), Parent: parent, Record: i})
		}
	}
	return errors.Join(errs...)
}

// ValidatePositions checks records against h as flat positions, the input of
// a MultiLevelDataSource. Positions are grouped by value at every level, so
// they need no aggregator rows and may share a key; only malformed structural
// ids and negative measures are reported.
func ValidatePositions[A Allocation](records []A, h *Hierarchy) error {
	var errs []error
	for i, r := range records {
		if _, err := LevelIndexOf(r.StructuralID(), h.Size()); err != nil {
			errs = append(errs, at(err, i))
			continue
		}
		if err := checkMeasure(r, i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkMeasure[A Allocation](r A, i int) error {
	if r.Measure().IsNegative() {
		return fmt.Errorf("record #%d %q: negative measure %v", i, KeyOf(r.StructuralID()), r.Measure())
	}
	return nil
}

// ValidatePlan checks the details of p.
func ValidatePlan(p *Plan, h *Hierarchy) error {
	if err := Validate(p.Details, h); err != nil {
		return fmt.Errorf("plan %q: %w", p.Name, err)
	}
	return nil
}

// ValidateSnapshot checks the positions of s.
func ValidateSnapshot(s *Snapshot, h *Hierarchy) error {
	if err := ValidatePositions(s.Positions, h); err != nil {
		return fmt.Errorf("snapshot %q: %w", s.Name, err)
	}
	return nil
}
