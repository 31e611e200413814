package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Claims represents JWT token claims
type Claims struct {
	UID  string `json:"uid"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) GetBsonObjectUID() (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(c.UID)
	if err != nil {
		return bson.NilObjectID, errors.WithMessagef(err, "invalid uid %q", c.UID)
	}
	return id, nil
}
