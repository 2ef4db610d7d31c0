package bunny

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/youssefadel/eduplatform-backend/pkg/config"
	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

const (
	defaultBaseURL            = "https://video.bunnycdn.com"
	errorBodyReadLimit  int64 = 4096
	accessKeyHeaderName       = "AccessKey"
)

var (
	errAPIKeyRequired    = errors.New("bunny api key is required")
	errLibraryIDRequired = errors.New("bunny library id is required")
)

// Client wraps the Bunny Stream management API. Every call is scoped to the
// configured library and authenticated via the AccessKey header.
type Client struct {
	httpClient     *http.Client
	uploadClient   *http.Client
	baseURL        string
	libraryID      string
	apiKey         string
	requestTimeout time.Duration
	logger         *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client used for metadata calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUploadClient overrides the HTTP client used for streaming uploads.
func WithUploadClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.uploadClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Bunny Stream client from configuration.
func NewClient(cfg config.BunnyConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	libraryID := strings.TrimSpace(cfg.LibraryID)
	if libraryID == "" {
		return nil, errLibraryIDRequired
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 15 * time.Second
	}
	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = 10 * time.Minute
	}

	client := &Client{
		apiKey:         apiKey,
		libraryID:      libraryID,
		baseURL:        defaultBaseURL,
		requestTimeout: requestTimeout,
		httpClient:     &http.Client{Timeout: requestTimeout},
		uploadClient:   &http.Client{Timeout: uploadTimeout},
		logger:         logg,
	}
	if trimmed := strings.TrimSpace(cfg.APIBaseURL); trimmed != "" {
		client.baseURL = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// LibraryID returns the configured library identifier.
func (c *Client) LibraryID() string {
	if c == nil {
		return ""
	}
	return c.libraryID
}

// VideoCreated is the response shape returned when registering a new asset.
// Unknown fields are tolerated; the guid is required.
type VideoCreated struct {
	GUID      string `json:"guid"`
	LibraryID int64  `json:"videoLibraryId"`
	Title     string `json:"title"`
}

// Video is the asset metadata shape returned by the library API.
type Video struct {
	GUID         string `json:"guid"`
	Title        string `json:"title"`
	LengthSecs   int64  `json:"length"`
	Status       int    `json:"status"`
	StorageSize  int64  `json:"storageSize"`
	DateUploaded string `json:"dateUploaded"`
}

type videoList struct {
	TotalItems   int64   `json:"totalItems"`
	CurrentPage  int     `json:"currentPage"`
	ItemsPerPage int     `json:"itemsPerPage"`
	Items        []Video `json:"items"`
}

// CreateVideo registers a new (empty) asset under the library and returns its id.
// The asset holds no bytes until UploadVideo succeeds; an asset created here but
// never filled is an orphan the caller must treat as a failed upload.
func (c *Client) CreateVideo(ctx context.Context, title string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeConfigIncomplete, "bunny client not configured")
	}
	payload, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal create video request")
	}

	c.log(ctx, "request", "create_video", map[string]any{"title": title})

	var created VideoCreated
	if err := c.doJSON(ctx, http.MethodPost, c.videoURL(""), bytes.NewReader(payload), &created); err != nil {
		c.logError(ctx, "create_video", err)
		return "", err
	}
	if strings.TrimSpace(created.GUID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeRemoteAsset, "create video response missing guid")
	}

	c.log(ctx, "response", "create_video", map[string]any{"video_id": created.GUID})
	return created.GUID, nil
}

// UploadVideo streams the file content into an already created asset id.
func (c *Client) UploadVideo(ctx context.Context, videoID string, body io.Reader) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeConfigIncomplete, "bunny client not configured")
	}
	if strings.TrimSpace(videoID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "video id is required")
	}
	if body == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "upload body is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.videoURL(videoID), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload request")
	}
	req.Header.Set(accessKeyHeaderName, c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	c.log(ctx, "request", "upload_video", map[string]any{"video_id": videoID})

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		mapped := c.mapTransportError(err, "upload video")
		c.logError(ctx, "upload_video", mapped)
		return mapped
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		mapped := c.remoteRejection(resp, "upload video")
		c.logError(ctx, "upload_video", mapped)
		return mapped
	}

	c.log(ctx, "response", "upload_video", map[string]any{"video_id": videoID})
	return nil
}

// UpdateVideoTitle renames an asset. Metadata-only; retry-safe.
func (c *Client) UpdateVideoTitle(ctx context.Context, videoID, title string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeConfigIncomplete, "bunny client not configured")
	}
	if strings.TrimSpace(videoID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "video id is required")
	}
	payload, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal rename request")
	}

	c.log(ctx, "request", "update_video_title", map[string]any{"video_id": videoID})
	if err := c.doJSON(ctx, http.MethodPost, c.videoURL(videoID), bytes.NewReader(payload), nil); err != nil {
		c.logError(ctx, "update_video_title", err)
		return err
	}
	c.log(ctx, "response", "update_video_title", map[string]any{"video_id": videoID})
	return nil
}

// DeleteVideo removes an asset by id. Metadata-only; retry-safe.
func (c *Client) DeleteVideo(ctx context.Context, videoID string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeConfigIncomplete, "bunny client not configured")
	}
	if strings.TrimSpace(videoID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "video id is required")
	}

	c.log(ctx, "request", "delete_video", map[string]any{"video_id": videoID})
	if err := c.doJSON(ctx, http.MethodDelete, c.videoURL(videoID), nil, nil); err != nil {
		c.logError(ctx, "delete_video", err)
		return err
	}
	c.log(ctx, "response", "delete_video", map[string]any{"video_id": videoID})
	return nil
}

// GetVideo fetches asset metadata. Used for diagnostics, never on the playback hot path.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConfigIncomplete, "bunny client not configured")
	}
	if strings.TrimSpace(videoID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video id is required")
	}

	var video Video
	if err := c.doJSON(ctx, http.MethodGet, c.videoURL(videoID), nil, &video); err != nil {
		return nil, err
	}
	if strings.TrimSpace(video.GUID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeRemoteAsset, "video metadata response missing guid")
	}
	return &video, nil
}

// ListVideos pages through the library's assets.
func (c *Client) ListVideos(ctx context.Context, page, itemsPerPage int) ([]Video, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConfigIncomplete, "bunny client not configured")
	}
	if page <= 0 {
		page = 1
	}
	if itemsPerPage <= 0 {
		itemsPerPage = 100
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("itemsPerPage", strconv.Itoa(itemsPerPage))

	var list videoList
	if err := c.doJSON(ctx, http.MethodGet, c.videoURL("")+"?"+query.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) videoURL(videoID string) string {
	base := fmt.Sprintf("%s/library/%s/videos", strings.TrimRight(c.baseURL, "/"), url.PathEscape(c.libraryID))
	if videoID == "" {
		return base
	}
	return base + "/" + url.PathEscape(videoID)
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, body io.Reader, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build bunny request")
	}
	req.Header.Set(accessKeyHeaderName, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err, fmt.Sprintf("%s %s", strings.ToLower(method), "bunny api"))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteRejection(resp, fmt.Sprintf("%s %s", strings.ToLower(method), "bunny api"))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteAsset, err, "decode bunny response")
	}
	return nil
}

// remoteRejection turns a non-2xx response into a structured failure carrying
// the remote status and raw body for diagnostics.
func (c *Client) remoteRejection(resp *http.Response, op string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	body := strings.TrimSpace(string(raw))
	err := pkgerrors.Wrap(
		pkgerrors.CodeRemoteAsset,
		fmt.Errorf("status %d: %s", resp.StatusCode, body),
		fmt.Sprintf("%s rejected", op),
	)
	return err.WithDetails(map[string]any{
		"status": resp.StatusCode,
		"body":   body,
	})
}

// mapTransportError distinguishes timeouts from other transport failures so
// callers can retry only where that is safe.
func (c *Client) mapTransportError(err error, op string) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.Wrap(pkgerrors.CodeRemoteTimeout, err, fmt.Sprintf("%s timed out", op))
	case errors.As(err, &netErr) && netErr.Timeout():
		return pkgerrors.Wrap(pkgerrors.CodeRemoteTimeout, err, fmt.Sprintf("%s timed out", op))
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s failed", op))
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	c.logger.Info(ctx, fmt.Sprintf("bunny %s", op))
}

func (c *Client) logError(ctx context.Context, op string, err error) {
	if c == nil || c.logger == nil {
		return
	}
	ctx = c.logger.WithField(ctx, "operation", op)
	c.logger.Error(ctx, fmt.Sprintf("bunny %s failed", op), err)
}
