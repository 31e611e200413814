package domain

import "go.mongodb.org/mongo-driver/v2/bson"

type AccessMode string

const (
	AccessModeAll AccessMode = "all"
	AccessModeAny AccessMode = "any"
)

// AuditLog records one authorization decision.
type AuditLog struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	UserID      bson.ObjectID `bson:"user_id,omitempty"`
	Role        Role          `bson:"role,omitempty"`
	Action      string        `bson:"action,omitempty"`
	Permissions []string      `bson:"permissions,omitempty"`
	Mode        AccessMode    `bson:"mode,omitempty"`
	Allowed     bool          `bson:"allowed"`
	RequestID   string        `bson:"request_id,omitempty"`
	Timestamp   int64         `bson:"timestamp,omitempty"`
	IP          string        `bson:"ip,omitempty"`
}
