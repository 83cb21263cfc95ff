package resolve

// State is a step of one resolution.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFallingBack
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFallingBack:
		return "falling_back"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// next lists the legal transitions out of each state. Idle goes straight to
// FallingBack when no remote is configured.
var next = map[State][]State{
	StateIdle:        {StateRequesting, StateFallingBack},
	StateRequesting:  {StateSucceeded, StateFallingBack},
	StateSucceeded:   {StateDone},
	StateFallingBack: {StateDone},
}

func canMove(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Reason explains why a result was computed locally.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNoRemote          Reason = "no_remote"
	ReasonNetwork           Reason = "network"
	ReasonTimeout           Reason = "timeout"
	ReasonStatus            Reason = "status"
	ReasonUnparsable        Reason = "unparsable"
	ReasonUnrecognizedShape Reason = "unrecognized_shape"
	ReasonEmpty             Reason = "empty"
)
