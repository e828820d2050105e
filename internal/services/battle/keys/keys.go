// Package keys reads and writes the local file holding the API tokens.
package keys

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultPath is the key file name the login command writes.
const DefaultPath = "battle_keys.json"

//go:embed keys.schema.json
var schemaSource string

var schema = jsonschema.MustCompileString("battle_keys.schema.json", schemaSource)

// Keys are the bearer and refresh tokens for one account.
type Keys struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Load reads and validates the key file at path.
func Load(path string) (Keys, error) {
	if strings.TrimSpace(path) == "" {
		return Keys{}, fmt.Errorf("key file path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Keys{}, fmt.Errorf("read key file: %w", err)
	}
	return Parse(raw)
}

// Parse validates raw key file content against the key file schema.
func Parse(raw []byte) (Keys, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return Keys{}, fmt.Errorf("decode key file: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Keys{}, fmt.Errorf("validate key file: %w", err)
	}

	var k Keys
	if err := json.Unmarshal(raw, &k); err != nil {
		return Keys{}, fmt.Errorf("decode key file: %w", err)
	}
	k.AccessToken = strings.TrimSpace(k.AccessToken)
	k.RefreshToken = strings.TrimSpace(k.RefreshToken)
	return k, nil
}

// Save writes the keys as indented JSON with sorted keys, replacing path
// atomically.
func Save(path string, k Keys) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("key file path is required")
	}
	b, err := json.MarshalIndent(map[string]string{
		"access_token":  k.AccessToken,
		"refresh_token": k.RefreshToken,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode key file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create key dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace key file: %w", err)
	}
	return nil
}

// AccessExpiry returns the access token's exp claim. The token is not
// verified; ok is false when the token is not a JWT or carries no exp.
func (k Keys) AccessExpiry() (time.Time, bool) {
	if k.AccessToken == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(k.AccessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the access token carries an exp claim at or
// before now.
func (k Keys) Expired(now time.Time) bool {
	exp, ok := k.AccessExpiry()
	return ok && !now.Before(exp)
}
