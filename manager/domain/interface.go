package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type QueryUserOptions struct {
	IDs      []bson.ObjectID
	Emails   []string
	Roles    []Role
	Statuses []UserStatus
	Result   []*User
}

type QueryAuditLogOptions struct {
	TimestampGTE int64
	TimestampLTE int64
	UserIDs      []bson.ObjectID
	AllowedOnly  *bool
	Limit        int64
	Result       []*AuditLog
}

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	QueryUsers(ctx context.Context, opt *QueryUserOptions) error
	CreateAuditLog(ctx context.Context, log *AuditLog) error
	QueryAuditLogs(ctx context.Context, opt *QueryAuditLogOptions) error
}

type CreateUserOptions struct {
	Name     string
	Email    string
	Avatar   string
	Password string
	Role     Role
}

// AccessCheck is a request to evaluate a set of permissions for a role.
type AccessCheck struct {
	Role        Role
	Permissions []Permission
	Mode        AccessMode
}

// AccessDecision is the outcome of an AccessCheck. Missing lists the
// requested permissions the role does not hold.
type AccessDecision struct {
	Role        Role
	Permissions []Permission
	Mode        AccessMode
	Allowed     bool
	Missing     []Permission
}

// RequestMeta identifies the request an authorization decision belongs to.
type RequestMeta struct {
	RequestID string
	IP        string
	Action    string
}

type Service interface {
	// accounts and sessions
	CreateAdminUserIfNotExists(ctx context.Context, email, password string) error
	CreateDemoUserIfNotExists(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (token string, err error)
	Logout(ctx context.Context, claims *Claims) error
	VerifyJWTToken(ctx context.Context, tokenString string, meta RequestMeta, perms ...Permission) (Claims, error)
	PruneRevokedTokens(ctx context.Context) int
	CurrentRole(ctx context.Context, claims *Claims) Role
	GetSelf(ctx context.Context, claims *Claims) (*User, error)
	CreateNewUser(ctx context.Context, operator *Claims, opt CreateUserOptions) (*User, error)
	UpdateUserRole(ctx context.Context, operator *Claims, userID string, role Role) error
	DeactivateUser(ctx context.Context, operator *Claims, userID string) error
	QueryUsers(ctx context.Context, opt *QueryUserOptions) error

	// role-permission matrix
	Matrix() *Matrix
	RoleSummaries(ctx context.Context) []RoleSummary
	RoleSummary(ctx context.Context, role Role) RoleSummary
	CompareRoles(ctx context.Context, a, b Role) (aSenior bool, bSenior bool)
	CheckAccess(ctx context.Context, operator *Claims, meta RequestMeta, check AccessCheck) (AccessDecision, error)
	QueryAuditLogs(ctx context.Context, opt *QueryAuditLogOptions) error
}
