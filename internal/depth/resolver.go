package depth

// Decision is the operator's answer when a recommended field is
// missing from the dataset.
type Decision int

const (
	// Abort stops the computation with a UserAbortedError.
	Abort Decision = iota
	// Continue proceeds with the documented fallback.
	Continue
)

func (d Decision) String() string {
	if d == Continue {
		return "continue"
	}
	return "abort"
}

// Resolver supplies abort/continue decisions for missing-field
// fallbacks. A terminal-backed implementation asks the operator; a
// scripted one serves automated runs and tests.
type Resolver interface {
	Resolve(field string) (Decision, error)
}

// Scripted is a Resolver with fixed per-field decisions.
type Scripted struct {
	Decisions map[string]Decision
	Default   Decision
}

func (s Scripted) Resolve(field string) (Decision, error) {
	if d, ok := s.Decisions[field]; ok {
		return d, nil
	}
	return s.Default, nil
}
