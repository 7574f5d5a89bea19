package renderer

// Validation is the list of problems found in a plan or a snapshot.
type Validation struct {
	Name     string
	Problems []string
}

// NewValidation flattens err into one problem per joined error.
func NewValidation(name string, err error) *Validation {
	return &Validation{Name: name, Problems: problems(err)}
}

func problems(err error) []string {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		var out []string
		for _, inner := range e.Unwrap() {
			out = append(out, problems(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		// a prefix wrapped around joined errors is dropped
		if inner, ok := e.Unwrap().(interface{ Unwrap() []error }); ok {
			return problems(inner.(error))
		}
	}
	return []string{err.Error()}
}
