package loader

//go:generate go tool stringer -type=Phase -trimprefix=Phase -output=phase_string.go

// Phase is a state of the configure cycle.
type Phase int

const (
	PhaseMigrate Phase = iota
	PhaseLoad
	PhaseWriteBack
	PhaseDone
)
