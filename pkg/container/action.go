package container

// Action tells a consumer how to apply an entry to its cached image.
type Action uint8

const (
	ActionAdd    Action = 1
	ActionUpdate Action = 2
	ActionDelete Action = 3
)

const (
	actionMask     = 0x0f
	permissionFlag = 0x10
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "ADD"
	case ActionUpdate:
		return "UPDATE"
	case ActionDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the action is defined.
func (a Action) IsValid() bool {
	return a >= ActionAdd && a <= ActionDelete
}
