package playback

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/youssefadel/eduplatform-backend/internal/videotoken"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
)

// UnsignedWarning is surfaced alongside unsigned URLs so operators can see the
// platform is serving videos without token protection.
const UnsignedWarning = "video token signing is not configured; serving unsigned playback URL"

// PlaybackURL is the result of building an embed URL for a lesson video.
type PlaybackURL struct {
	URL       string
	Signed    bool
	Token     string
	ExpiresAt time.Time
	// Warning is non-empty only in degraded (unsigned) mode.
	Warning string
}

// Builder assembles CDN embed URLs. It performs no I/O: the caller resolves
// the lesson's remote asset id and the viewer's access decision first, then
// the builder turns those into a URL or a typed refusal.
type Builder struct {
	signer       *videotoken.Signer
	deliveryHost string
}

// NewBuilder constructs a playback URL builder.
func NewBuilder(signer *videotoken.Signer, deliveryHost string) (*Builder, error) {
	if signer == nil {
		return nil, fmt.Errorf("video token signer required")
	}
	deliveryHost = strings.TrimSpace(deliveryHost)
	if deliveryHost == "" {
		return nil, fmt.Errorf("delivery host required")
	}
	return &Builder{signer: signer, deliveryHost: deliveryHost}, nil
}

// Build produces the embed URL for videoID.
//
// An empty videoID means the lesson has no uploaded video yet; that is a
// content problem, not a permission one, and is reported as such even when
// the viewer would also have been denied. A viewer without access gets a
// forbidden error. When the signer is not ready the URL is returned unsigned
// with a warning instead of failing playback outright.
func (b *Builder) Build(videoID string, allowed bool, now time.Time) (*PlaybackURL, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeContentUnavailable, "lesson has no video")
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not entitled to view this video")
	}

	base := fmt.Sprintf("https://%s/embed/%s/%s",
		b.deliveryHost,
		url.PathEscape(b.signer.LibraryID()),
		url.PathEscape(videoID),
	)

	if !b.signer.Ready() {
		return &PlaybackURL{
			URL:     base,
			Signed:  false,
			Warning: UnsignedWarning,
		}, nil
	}

	token, expiresAt := b.signer.SignWithTTL(videoID, now)

	query := url.Values{}
	query.Set("token", token)
	query.Set("expires", strconv.FormatInt(expiresAt.Unix(), 10))

	return &PlaybackURL{
		URL:       base + "?" + query.Encode(),
		Signed:    true,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
