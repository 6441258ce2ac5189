package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidHashFormat   = errors.New("invalid encoded hash format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrEmptyHash           = errors.New("stored password hash is empty")
)

// Argon2id cost for newly hashed passwords. Stored hashes carry their own.
const (
	argonMemory  = 64 * 1024
	argonTime    = 3
	argonThreads = 2
	argonSaltLen = 16
	argonKeyLen  = 32
)

// storedHash is a decoded password hash that can check a candidate password.
type storedHash interface {
	matches(password string) (bool, error)
}

type argon2idHash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func (h argon2idHash) derive(password string) []byte {
	return argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.threads, uint32(len(h.key)))
}

func (h argon2idHash) matches(password string) (bool, error) {
	return subtle.ConstantTimeCompare(h.key, h.derive(password)) == 1, nil
}

// String renders h as $argon2id$v=19$m=...,t=...,p=...$<salt>$<key>.
func (h argon2idHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key),
	)
}

// bcryptHash is a hash written before accounts moved to Argon2id.
type bcryptHash []byte

func (h bcryptHash) matches(password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(h, []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrInvalidHashFormat, err)
	}
}

// HashPassword hashes password with Argon2id and a random salt.
func HashPassword(password string) (string, error) {
	h := argon2idHash{
		memory:  argonMemory,
		time:    argonTime,
		threads: argonThreads,
		salt:    make([]byte, argonSaltLen),
		key:     make([]byte, argonKeyLen),
	}
	if _, err := rand.Read(h.salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	h.key = h.derive(password)

	return h.String(), nil
}

// VerifyPassword checks whether password matches encodedHash, which may be
// an Argon2id hash or a legacy bcrypt one ($2a$, $2b$, $2y$). An empty hash
// is an error, never a match.
func VerifyPassword(password, encodedHash string) (bool, error) {
	h, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}
	return h.matches(password)
}

// decodeHash picks the scheme from the hash prefix and parses the rest.
func decodeHash(encodedHash string) (storedHash, error) {
	if encodedHash == "" {
		return nil, ErrEmptyHash
	}

	scheme, rest, ok := strings.Cut(strings.TrimPrefix(encodedHash, "$"), "$")
	if !ok || !strings.HasPrefix(encodedHash, "$") {
		return nil, ErrInvalidHashFormat
	}

	switch scheme {
	case "2a", "2b", "2y":
		return bcryptHash(encodedHash), nil
	case "argon2id":
		return decodeArgon2id(rest)
	default:
		return nil, ErrInvalidHashFormat
	}
}

// decodeArgon2id parses "v=19$m=..,t=..,p=..$<salt>$<key>".
func decodeArgon2id(s string) (argon2idHash, error) {
	fields := strings.Split(s, "$")
	if len(fields) != 4 {
		return argon2idHash{}, ErrInvalidHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil {
		return argon2idHash{}, ErrInvalidHashFormat
	}
	if version != argon2.Version {
		return argon2idHash{}, ErrIncompatibleVersion
	}

	var h argon2idHash
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil {
		return argon2idHash{}, ErrInvalidHashFormat
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[2]); err != nil {
		return argon2idHash{}, ErrInvalidHashFormat
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[3]); err != nil || len(h.key) == 0 {
		return argon2idHash{}, ErrInvalidHashFormat
	}

	return h, nil
}
