package models

// UserStatus and FilePermission are stored by display name so the rows stay
// readable in SQL; the ID pairs match the seeded lookup values.

type UserStatus struct {
	ID   int
	Name string
}

var (
	StatusActive    = UserStatus{1, "Active"}
	StatusInactive  = UserStatus{2, "Inactive"}
	StatusSuspended = UserStatus{3, "Suspended"}
)

type FilePermission struct {
	ID   int
	Name string
}

var (
	PermissionPublic  = FilePermission{1, "Public"}
	PermissionPrivate = FilePermission{2, "Private"}
)
