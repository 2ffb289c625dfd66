package editor

// Mode represents the current interaction state
type Mode int

const (
	ModeIdle     Mode = iota // No gesture in progress
	ModeDragging             // A card follows the pointer
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeDragging:
		return "DRAGGING"
	default:
		return "UNKNOWN"
	}
}

// Action reports what a click did.
type Action int

const (
	ActionNone      Action = iota // Click hit nothing
	ActionAdd                     // Add affordance; kind choice requested
	ActionRemove                  // Remove affordance; card removed
	ActionDragStart               // Card picked up
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionDragStart:
		return "drag"
	default:
		return "unknown"
	}
}
