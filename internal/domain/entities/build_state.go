package entities

// BuildState is a step of the linear build pipeline
type BuildState int

const (
	StateIdle BuildState = iota
	StateCleaned
	StateBuilt
	StateArtifactDiscovered
	StateRepaired
	StateDone
	StateFailed
)

var buildStateNames = map[BuildState]string{
	StateIdle:               "idle",
	StateCleaned:            "cleaned",
	StateBuilt:              "built",
	StateArtifactDiscovered: "artifact-discovered",
	StateRepaired:           "repaired",
	StateDone:               "done",
	StateFailed:             "failed",
}

func (s BuildState) String() string {
	if name, ok := buildStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Next returns the state that follows s on success. Done and Failed are terminal.
func (s BuildState) Next() BuildState {
	switch s {
	case StateIdle, StateCleaned, StateBuilt, StateArtifactDiscovered, StateRepaired:
		return s + 1
	default:
		return s
	}
}

// Terminal reports whether no further transition is possible
func (s BuildState) Terminal() bool {
	return s == StateDone || s == StateFailed
}
