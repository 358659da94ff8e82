// Package player builds embedded player links for catalog timestamps.
package player

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultEmbedBaseURL is the YouTube embed endpoint
const DefaultEmbedBaseURL = "https://www.youtube.com/embed"

var (
	// ErrInvalidTimestamp is returned for timestamps that are not "MM:SS"
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrMissingVideoID is returned when a video URL has no v query parameter
	ErrMissingVideoID = errors.New("video url has no v parameter")
)

// ParseTimestamp converts "MM:SS" into elapsed seconds
func ParseTimestamp(ts string) (int, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, ts)
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, ts, err)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, ts, err)
	}
	if minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("%w: %q: negative component", ErrInvalidTimestamp, ts)
	}

	return minutes*60 + seconds, nil
}

// VideoID extracts the v query parameter from a watch URL
func VideoID(videoURL string) (string, error) {
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingVideoID, err)
	}

	id := u.Query().Get("v")
	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingVideoID, videoURL)
	}
	return id, nil
}

// Builder creates embed URLs against a configurable player endpoint
type Builder struct {
	baseURL string
}

// NewBuilder creates a builder. An empty base selects DefaultEmbedBaseURL.
func NewBuilder(baseURL string) *Builder {
	if baseURL == "" {
		baseURL = DefaultEmbedBaseURL
	}
	return &Builder{baseURL: strings.TrimRight(baseURL, "/")}
}

// EmbedURL returns a player link that starts at ts with autoplay on
func (b *Builder) EmbedURL(videoURL, ts string) (string, error) {
	link, _, err := b.Embed(videoURL, ts)
	return link, err
}

// Embed returns the player link for ts together with its start offset in seconds
func (b *Builder) Embed(videoURL, ts string) (string, int, error) {
	id, err := VideoID(videoURL)
	if err != nil {
		return "", 0, err
	}

	start, err := ParseTimestamp(ts)
	if err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("%s/%s?start=%d&autoplay=1", b.baseURL, url.PathEscape(id), start), start, nil
}
