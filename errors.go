package allocation

import (
	"errors"
	"fmt"
)

// ErrStructuralIntegrity is matched by every IntegrityError.
var ErrStructuralIntegrity = errors.New("structural integrity violation")

// IntegrityKind classifies an IntegrityError.
type IntegrityKind int

const (
	// MissingParent: the ancestor chain of a record is incomplete.
	MissingParent IntegrityKind = iota
	// DuplicateKey: two records share a structural key.
	DuplicateKey
	// NonContiguous: a specified slot follows an unspecified one.
	NonContiguous
	// EmptyStructure: no slot is specified.
	EmptyStructure
	// OutOfRange: the structural id has more slots than the hierarchy has levels.
	OutOfRange
)

func (k IntegrityKind) String() string {
	switch k {
	case MissingParent:
		return "missing parent"
	case DuplicateKey:
		return "duplicate key"
	case NonContiguous:
		return "non-contiguous structural id"
	case EmptyStructure:
		return "empty structural id"
	case OutOfRange:
		return "structural id deeper than the hierarchy"
	default:
		return fmt.Sprintf("IntegrityKind(%d)", int(k))
	}
}

// IntegrityError reports malformed allocation data. Record is the position of
// the offending record in the input, -1 when unknown.
type IntegrityError struct {
	Kind   IntegrityKind
	Key    Key
	Parent Key // only for MissingParent
	Record int
}

func (e *IntegrityError) Error() string {
	var where string
	if e.Record >= 0 {
		where = fmt.Sprintf("record #%d ", e.Record)
	}
	switch e.Kind {
	case MissingParent:
		return fmt.Sprintf("%s: %s%q references unknown parent %q", e.Kind, where, e.Key, e.Parent)
	default:
		return fmt.Sprintf("%s: %s%q", e.Kind, where, e.Key)
	}
}

func (e *IntegrityError) Is(target error) bool { return target == ErrStructuralIntegrity }

// at returns err with the record position set, when err is an IntegrityError.
func at(err error, record int) error {
	var ie *IntegrityError
	if errors.As(err, &ie) {
		c := *ie
		c.Record = record
		return &c
	}
	return err
}
