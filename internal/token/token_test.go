package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/lucasvrm/ecodoacao/internal/database"
	"github.com/lucasvrm/ecodoacao/internal/store"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(store.NewSettingsStore(db))
}

// makeToken builds an unsigned JWT carrying the given claims.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "."
}

func TestSetTokensPartialUpdate(t *testing.T) {
	s := setupStore(t)

	if err := s.SetTokens("acc-1", "ref-1"); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if s.Access() != "acc-1" || s.Refresh() != "ref-1" {
		t.Errorf("tokens = %q / %q", s.Access(), s.Refresh())
	}

	// Empty refresh leaves the stored one untouched.
	if err := s.SetTokens("acc-2", ""); err != nil {
		t.Fatalf("set access only: %v", err)
	}
	if s.Access() != "acc-2" {
		t.Errorf("access = %q, want acc-2", s.Access())
	}
	if s.Refresh() != "ref-1" {
		t.Errorf("refresh = %q, want ref-1", s.Refresh())
	}
}

func TestClearRemovesBoth(t *testing.T) {
	s := setupStore(t)

	s.SetTokens("acc", "ref")
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Access() != "" || s.Refresh() != "" {
		t.Errorf("tokens after clear = %q / %q", s.Access(), s.Refresh())
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not a jwt", "abc"},
		{"two segments", "aa.bb"},
		{"payload not base64", "aa.!!!.cc"},
		{"payload not json", "aa." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".cc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decode(tc.raw); got != nil {
				t.Errorf("Decode(%q) = %v, want nil", tc.raw, got)
			}
		})
	}
}

func TestDecodeClaims(t *testing.T) {
	tok := makeToken(t, map[string]any{"username": "maria", "is_staff": true})
	claims := Decode(tok)
	if claims == nil {
		t.Fatal("expected claims")
	}
	if claims["username"] != "maria" {
		t.Errorf("username = %v", claims["username"])
	}
	if claims["is_staff"] != true {
		t.Errorf("is_staff = %v", claims["is_staff"])
	}
}

func TestExpiresIn(t *testing.T) {
	s := setupStore(t)

	// No token at all
	if _, ok := s.ExpiresIn(); ok {
		t.Error("expected ok=false without token")
	}

	// Token without exp
	s.SetTokens(makeToken(t, map[string]any{"username": "maria"}), "")
	if _, ok := s.ExpiresIn(); ok {
		t.Error("expected ok=false without exp claim")
	}

	// Token expiring in ~5 minutes
	exp := time.Now().Add(5 * time.Minute).Unix()
	s.SetTokens(makeToken(t, map[string]any{"exp": exp}), "")
	d, ok := s.ExpiresIn()
	if !ok {
		t.Fatal("expected ok=true")
	}
	if d < 4*time.Minute || d > 5*time.Minute {
		t.Errorf("expires in %v, want ~5m", d)
	}
}
