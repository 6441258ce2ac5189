package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestSecretNeverPrints(t *testing.T) {
	s := Secret("hunter2-signing-key")

	outputs := []string{
		s.String(),
		fmt.Sprint(s),
		fmt.Sprintf("%v %s %q %x %#v %+v", s, s, s, s, s, s),
	}
	for _, out := range outputs {
		if strings.Contains(out, "hunter2") {
			t.Errorf("secret leaked through fmt: %q", out)
		}
	}

	b, err := json.Marshal(struct {
		Key Secret `json:"key"`
	}{s})
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	if strings.Contains(string(b), "hunter2") {
		t.Errorf("secret leaked through JSON: %s", b)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("configured", "secret", s, "user", User{Email: "a@b.c", PasswordHash: s})
	if strings.Contains(buf.String(), "hunter2") {
		t.Errorf("secret leaked through slog: %s", buf.String())
	}
}

func TestSecretReveal(t *testing.T) {
	s := Secret("raw")
	if s.Reveal() != "raw" {
		t.Errorf("Reveal() = %q, want raw", s.Reveal())
	}
	if s.Empty() {
		t.Error("Empty() = true for a set secret")
	}
	if !Secret("").Empty() {
		t.Error("Empty() = false for an unset secret")
	}
}

func TestSecretScan(t *testing.T) {
	var s Secret
	if err := s.Scan([]byte("$argon2id$abc")); err != nil {
		t.Fatalf("Scan() unexpected error: %v", err)
	}
	if s.Reveal() != "$argon2id$abc" {
		t.Errorf("Scan() stored %q", s.Reveal())
	}
	if err := s.Scan(nil); err != nil || !s.Empty() {
		t.Errorf("Scan(nil) = %v, value %q", err, s.Reveal())
	}
	if err := s.Scan(42); err == nil {
		t.Error("Scan(int) expected error")
	}
}

func TestTokenPayloadWellFormed(t *testing.T) {
	full := TokenPayload{Name: "Foo", Surname: "Bar", Email: "foo@bar.com"}
	if !full.WellFormed() {
		t.Error("WellFormed() = false for a complete payload")
	}

	noID := full
	noID.ID = 0
	if !noID.WellFormed() {
		t.Error("WellFormed() should not require an id")
	}

	for _, p := range []TokenPayload{
		{Surname: "Bar", Email: "foo@bar.com"},
		{Name: "Foo", Email: "foo@bar.com"},
		{Name: "Foo", Surname: "Bar"},
	} {
		if p.WellFormed() {
			t.Errorf("WellFormed() = true for %+v", p)
		}
	}
}
