package videotoken

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signer produces CDN playback tokens for a single video library. The token
// scheme is sha256(secret + resourcePath + expiry) where expiry is the unix
// timestamp rendered in decimal; the CDN edge recomputes the same digest and
// rejects mismatches or expired timestamps.
type Signer struct {
	libraryID string
	secret    string
	ttl       time.Duration
}

// DefaultTTL bounds a token's validity when no TTL is configured.
const DefaultTTL = 2 * time.Hour

// NewSigner builds a signer for the given library. An empty libraryID or
// secret yields a signer that reports not Ready; callers are expected to fall
// back to unsigned URLs in that case rather than fail.
func NewSigner(libraryID, secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{
		libraryID: strings.TrimSpace(libraryID),
		secret:    strings.TrimSpace(secret),
		ttl:       ttl,
	}
}

// Ready reports whether the signer has the configuration needed to sign.
func (s *Signer) Ready() bool {
	return s != nil && s.libraryID != "" && s.secret != ""
}

// LibraryID returns the library the signer is scoped to.
func (s *Signer) LibraryID() string {
	if s == nil {
		return ""
	}
	return s.libraryID
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration {
	if s == nil {
		return DefaultTTL
	}
	return s.ttl
}

// ResourcePath returns the CDN path component the token authorizes.
func (s *Signer) ResourcePath(videoID string) string {
	return fmt.Sprintf("/%s/%s", s.libraryID, videoID)
}

// Sign computes the token for videoID expiring at expiresAt. The result is
// the lowercase hex sha256 digest; identical inputs always produce identical
// tokens, so the signer holds no per-call state.
func (s *Signer) Sign(videoID string, expiresAt time.Time) string {
	payload := s.secret + s.ResourcePath(videoID) + strconv.FormatInt(expiresAt.Unix(), 10)
	digest := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(digest[:])
}

// SignWithTTL signs videoID with an expiry of now plus the configured TTL and
// returns the token together with the expiry it embeds.
func (s *Signer) SignWithTTL(videoID string, now time.Time) (token string, expiresAt time.Time) {
	expiresAt = now.Add(s.ttl)
	return s.Sign(videoID, expiresAt), expiresAt
}
