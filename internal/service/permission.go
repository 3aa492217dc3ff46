package service

// Action names a permission-gated operation on the terminal.
type Action string

const (
	ActionStartOrder    Action = "order:start"
	ActionUpdateOrder   Action = "order:update"
	ActionAdvanceStatus Action = "order:advance"
	ActionFinalizeOrder Action = "order:finalize"
	ActionCancelOrder   Action = "order:cancel"
)

// PermissionChecker decides whether the operator behind a session may
// perform an action. The backend owns the real role model; this is the
// local gate the UI consults before attempting a call.
type PermissionChecker interface {
	Allowed(action Action) bool
}

// AllowAll grants every action. Used for terminals without operator
// roles configured.
type AllowAll struct{}

func (AllowAll) Allowed(Action) bool { return true }

// StaticPermissions grants exactly the listed actions.
type StaticPermissions map[Action]bool

func (p StaticPermissions) Allowed(action Action) bool { return p[action] }
