package room

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Membership struct {
	RoomID   string
	UserID   string
	Username string
	Role     Role
	JoinedAt time.Time
}

// DisplayName is the username shown to other members, falling back to the user id.
func (m Membership) DisplayName() string {
	if m.Username != "" {
		return m.Username
	}
	return m.UserID
}
