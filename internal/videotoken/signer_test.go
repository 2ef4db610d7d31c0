package videotoken

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"testing"
	"time"
)

var hexTokenRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestSignerSignMatchesScheme(t *testing.T) {
	t.Parallel()

	signer := NewSigner("12345", "s3cret", time.Hour)
	expiresAt := time.Unix(1767225600, 0)

	token := signer.Sign("vid_abc", expiresAt)

	want := sha256.Sum256([]byte("s3cret/12345/vid_abc1767225600"))
	if token != hex.EncodeToString(want[:]) {
		t.Fatalf("token does not match digest scheme: %s", token)
	}
	if !hexTokenRe.MatchString(token) {
		t.Fatalf("token is not 64 lowercase hex chars: %s", token)
	}
}

func TestSignerIsDeterministic(t *testing.T) {
	t.Parallel()

	signer := NewSigner("12345", "s3cret", time.Hour)
	expiresAt := time.Unix(1767225600, 0)

	first := signer.Sign("vid_abc", expiresAt)
	second := signer.Sign("vid_abc", expiresAt)
	if first != second {
		t.Fatalf("same inputs produced different tokens: %s vs %s", first, second)
	}
}

func TestSignerAdjacentExpiriesDiffer(t *testing.T) {
	t.Parallel()

	signer := NewSigner("12345", "s3cret", time.Hour)
	base := time.Unix(1767225600, 0)

	if signer.Sign("vid_abc", base) == signer.Sign("vid_abc", base.Add(time.Second)) {
		t.Fatalf("expiries one second apart produced identical tokens")
	}
}

func TestSignerDistinctInputsDiffer(t *testing.T) {
	t.Parallel()

	expiresAt := time.Unix(1767225600, 0)

	a := NewSigner("12345", "s3cret", time.Hour).Sign("vid_abc", expiresAt)
	b := NewSigner("12345", "s3cret", time.Hour).Sign("vid_xyz", expiresAt)
	c := NewSigner("12345", "other", time.Hour).Sign("vid_abc", expiresAt)
	d := NewSigner("99999", "s3cret", time.Hour).Sign("vid_abc", expiresAt)

	seen := map[string]bool{a: true}
	for _, token := range []string{b, c, d} {
		if seen[token] {
			t.Fatalf("distinct inputs collided: %s", token)
		}
		seen[token] = true
	}
}

func TestSignerReady(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		libraryID string
		secret    string
		want      bool
	}{
		{"both present", "12345", "s3cret", true},
		{"missing secret", "12345", "", false},
		{"missing library", "", "s3cret", false},
		{"whitespace only", " ", "\t", false},
		{"both missing", "", "", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NewSigner(tc.libraryID, tc.secret, time.Hour).Ready(); got != tc.want {
				t.Fatalf("Ready() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSignerResourcePath(t *testing.T) {
	t.Parallel()

	signer := NewSigner("12345", "s3cret", time.Hour)
	if got := signer.ResourcePath("vid_abc"); got != "/12345/vid_abc" {
		t.Fatalf("unexpected resource path %q", got)
	}
}

func TestSignerSignWithTTL(t *testing.T) {
	t.Parallel()

	signer := NewSigner("12345", "s3cret", 90*time.Minute)
	now := time.Unix(1767225600, 0)

	token, expiresAt := signer.SignWithTTL("vid_abc", now)
	if !expiresAt.Equal(now.Add(90 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}
	if token != signer.Sign("vid_abc", expiresAt) {
		t.Fatalf("SignWithTTL token disagrees with Sign for same expiry")
	}
}

func TestSignerDefaultTTL(t *testing.T) {
	t.Parallel()

	if got := NewSigner("12345", "s3cret", 0).TTL(); got != DefaultTTL {
		t.Fatalf("unexpected default ttl %v", got)
	}
}
