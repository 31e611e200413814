package domain

type UserStatus int8

const (
	UserStatusActive             UserStatus = 1
	UserStatusInactive           UserStatus = 2
	UserStatusWaitChangePassword UserStatus = 3
	UserStatusBanned             UserStatus = 4
)

func (s UserStatus) String() string {
	switch s {
	case UserStatusActive:
		return "active"
	case UserStatusInactive:
		return "inactive"
	case UserStatusWaitChangePassword:
		return "wait_change_password"
	case UserStatusBanned:
		return "banned"
	default:
		return "unknown"
	}
}

// CanSignIn reports whether a user in this status may hold a session.
func (s UserStatus) CanSignIn() bool {
	return s == UserStatusActive || s == UserStatusWaitChangePassword
}

// User is an ERP account. Role is the single source of what the user may do;
// there are no per-user grants.
type User struct {
	BaseEntity `bson:",inline"`
	Name       string            `bson:"name,omitempty"`
	Email      string            `bson:"email,omitempty"`
	Avatar     string            `bson:"avatar,omitempty"`
	Password   EncryptedPassword `bson:"password,omitempty"`
	Status     UserStatus        `bson:"status,omitempty"`
	Role       Role              `bson:"role"`
}
