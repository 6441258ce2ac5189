package model

import (
	"database/sql/driver"
	"fmt"
	"log/slog"
)

const redacted = "[REDACTED]"

// Secret holds credential material such as signing keys and password hashes.
// It never renders its value through fmt, slog or JSON; call Reveal where
// the raw value is actually needed.
type Secret string

// Reveal returns the underlying value.
func (s Secret) Reveal() string { return string(s) }

// Empty reports whether no value is set.
func (s Secret) Empty() bool { return s == "" }

func (s Secret) String() string { return redacted }

func (s Secret) GoString() string { return redacted }

// Format covers verbs that bypass String, such as %q and %x.
func (s Secret) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, redacted)
}

func (s Secret) LogValue() slog.Value { return slog.StringValue(redacted) }

func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// Value stores the raw value; the database is the one place it belongs.
func (s Secret) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan reads the raw value from the database.
func (s *Secret) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = ""
	case string:
		*s = Secret(v)
	case []byte:
		*s = Secret(v)
	default:
		return fmt.Errorf("secret: cannot scan %T", src)
	}
	return nil
}
