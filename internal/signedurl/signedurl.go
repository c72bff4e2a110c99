// Package signedurl issues and verifies expiring file-access tokens.
// Stored media paths (mood backgrounds, music tracks) are never exposed
// directly; clients receive a short-lived signed URL instead.
package signedurl

import (
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const urlAudience = "booksphere-files"

// Payload is what a signed URL grants: one file path, optionally bound to
// a user.
type Payload struct {
	FilePath string `json:"filepath"`
	UserID   string `json:"user_id,omitempty"`
}

// Signer mints and verifies signed file URLs using PASETO v4.local tokens.
type Signer struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
}

// NewSigner creates a Signer from a raw 32-byte key and a token lifetime.
func NewSigner(key []byte, ttl time.Duration) (*Signer, error) {
	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("signed url key: %w", err)
	}
	return &Signer{key: symmetricKey, ttl: ttl}, nil
}

// Sign returns a URL path granting temporary access to the file, shaped as
// /api/v1/files/{token}.
func (s *Signer) Sign(filePath, userID string) string {
	now := time.Now()

	token := paseto.NewToken()
	token.SetAudience(urlAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.ttl))
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("filepath", filePath)
	if userID != "" {
		//nolint:errcheck // Token.Set only errors on invalid types, which we control
		_ = token.Set("user_id", userID)
	}

	return "/api/v1/files/" + token.V4Encrypt(s.key, nil)
}

// Verify checks a token from a signed URL and returns its payload.
// Expired or tampered tokens fail.
func (s *Signer) Verify(tokenString string) (*Payload, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(urlAudience))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid file token: %w", err)
	}

	var payload Payload
	if err := json.Unmarshal(token.ClaimsJSON(), &payload); err != nil {
		return nil, fmt.Errorf("parse file token claims: %w", err)
	}
	if payload.FilePath == "" {
		return nil, fmt.Errorf("file token carries no path")
	}
	return &payload, nil
}
