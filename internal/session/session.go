// Package session holds the single stored credential every API call is
// authenticated with.
package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Fixed storage keys.
const (
	keyCredentials = "credentials"
	keyUsername    = "username"
)

// Credential is the opaque token derived from a username and password.
type Credential struct {
	Username string
	Token    string
}

// Header is the Authorization header value for the credential.
func (c Credential) Header() string {
	return "Basic " + c.Token
}

// Encode turns a username/password pair into an opaque token.
func Encode(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// Decode reverses Encode.
func Decode(token string) (username, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", fmt.Errorf("%w: missing separator", ErrInvalidCredential)
	}
	return user, pass, nil
}

// Store persists the credential across process restarts.
//
// Credentials returns ErrNoCredentials when nothing is stored. Clear may run
// while calls are in flight; those calls keep their header, later reads see
// the cleared state.
type Store interface {
	Save(ctx context.Context, username, password string) error
	Credentials(ctx context.Context) (Credential, error)
	Username(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
	Close() error
}

func validate(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username must not be empty", ErrInvalidCredential)
	}
	if strings.Contains(username, ":") {
		return fmt.Errorf("%w: username must not contain ':'", ErrInvalidCredential)
	}
	return nil
}
