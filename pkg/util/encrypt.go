package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned for stored passwords that are not argon2id
// PHC strings.
var ErrMalformedHash = errors.New("malformed argon2id hash")

const (
	argon2Prefix  = "$argon2id$"
	argon2SaltLen = 16
)

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	keyLen      uint32
}

// passwordParams applies to new hashes only. Stored hashes carry the
// parameters they were made with, so raising these needs no rehash.
var passwordParams = argon2Params{
	memory:      16 * 1024,
	iterations:  3,
	parallelism: 2,
	keyLen:      32,
}

func (p argon2Params) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.parallelism, p.keyLen)
}

// CreateArgon2Hash hashes password with a random salt into
// $argon2id$v=19$m=<KiB>,t=<passes>,p=<lanes>$<salt>$<key>.
func CreateArgon2Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "read argon2 salt")
	}
	p := passwordParams
	enc := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s", argon2Prefix, argon2.Version,
		p.memory, p.iterations, p.parallelism,
		enc.EncodeToString(salt), enc.EncodeToString(p.derive(password, salt))), nil
}

// IsArgon2Hash reports whether value is already a well-formed argon2id hash.
func IsArgon2Hash(value string) bool {
	_, _, _, err := parseArgon2Hash(value)
	return err == nil
}

// ComparePasswordAndHash reports whether password produces encodedHash. The
// comparison is constant time.
func ComparePasswordAndHash(password, encodedHash string) (bool, error) {
	p, salt, key, err := parseArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(key, p.derive(password, salt)) == 1, nil
}

func parseArgon2Hash(encoded string) (p argon2Params, salt, key []byte, err error) {
	rest, ok := strings.CutPrefix(encoded, argon2Prefix)
	if !ok {
		return p, nil, nil, ErrMalformedHash
	}
	// version, parameters, salt, key
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return p, nil, nil, errors.WithMessagef(ErrMalformedHash, "%d fields", len(fields))
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errors.WithMessagef(ErrMalformedHash, "version %q", fields[0])
	}
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, nil, nil, errors.WithMessagef(ErrMalformedHash, "parameters %q", fields[1])
	}

	enc := base64.RawStdEncoding
	if salt, err = enc.DecodeString(fields[2]); err != nil || len(salt) == 0 {
		return p, nil, nil, errors.WithMessage(ErrMalformedHash, "salt")
	}
	if key, err = enc.DecodeString(fields[3]); err != nil || len(key) == 0 {
		return p, nil, nil, errors.WithMessage(ErrMalformedHash, "key")
	}
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}
