package domain

import (
	"fmt"
	"time"

	"github.com/Gthulhu/erp/pkg/util"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/x/bsonx/bsoncore"
)

func encodeBSONString(s string) (byte, []byte, error) {
	return byte(bson.TypeString), bsoncore.AppendString(nil, s), nil
}

func decodeBSONString(typ byte, data []byte, target string) (string, error) {
	if typ != byte(bson.TypeString) {
		return "", fmt.Errorf("invalid type %v for %s", bson.Type(typ), target)
	}
	str, _, ok := bsoncore.ReadString(data)
	if !ok {
		return "", fmt.Errorf("read %s: malformed bson string", target)
	}
	return str, nil
}

// EncryptedPassword holds an argon2id hash once stored. A plain value is
// hashed on its way into the database.
type EncryptedPassword string

func (value EncryptedPassword) MarshalBSONValue() (byte, []byte, error) {
	plain := string(value)
	if util.IsArgon2Hash(plain) {
		return encodeBSONString(plain)
	}
	hashed, err := util.CreateArgon2Hash(plain)
	if err != nil {
		return 0, nil, err
	}
	return encodeBSONString(hashed)
}

func (value *EncryptedPassword) UnmarshalBSONValue(typ byte, data []byte) error {
	str, err := decodeBSONString(typ, data, "EncryptedPassword")
	if err != nil {
		return err
	}
	*value = EncryptedPassword(str)
	return nil
}

func (value EncryptedPassword) String() string {
	return "*******"
}

// Cmp reports whether plainText matches the stored hash.
func (value EncryptedPassword) Cmp(plainText string) (bool, error) {
	return util.ComparePasswordAndHash(plainText, string(value))
}

// MarshalBSONValue stores a role by its key so the collection stays readable
// and independent of the enum's numeric order.
func (r Role) MarshalBSONValue() (byte, []byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return 0, nil, err
	}
	return encodeBSONString(string(text))
}

// UnmarshalBSONValue decodes a stored role key. Keys that are no longer
// recognised decode to RoleNone so the user is granted nothing.
func (r *Role) UnmarshalBSONValue(typ byte, data []byte) error {
	str, err := decodeBSONString(typ, data, "Role")
	if err != nil {
		return err
	}
	parsed, err := ParseRole(str)
	if err != nil {
		parsed = RoleNone
	}
	*r = parsed
	return nil
}

// BaseEntity carries the bookkeeping fields shared by stored documents.
// Times are unix milliseconds.
type BaseEntity struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	CreatedTime int64         `bson:"createdTime,omitempty"`
	UpdatedTime int64         `bson:"updatedTime,omitempty"`
	CreatorID   bson.ObjectID `bson:"creatorID,omitempty"`
	UpdaterID   bson.ObjectID `bson:"updaterID,omitempty"`
}

// NewBaseEntity stamps a new document as created by creator. A nil creator
// marks a system-created document.
func NewBaseEntity(creator *bson.ObjectID) BaseEntity {
	now := time.Now().UnixMilli()
	entity := BaseEntity{CreatedTime: now, UpdatedTime: now}
	if creator != nil {
		entity.CreatorID = *creator
		entity.UpdaterID = *creator
	}
	return entity
}

// Touch records an update by updater.
func (e *BaseEntity) Touch(updater bson.ObjectID) {
	e.UpdaterID = updater
	e.UpdatedTime = time.Now().UnixMilli()
}
