package domain

import (
	"net/url"
	"strings"
	"time"
)

// Video is an entry of the portfolio catalog.
type Video struct {
	ID          int64
	VimeoID     string
	Title       string
	Client      string
	Production  string
	Creation    string
	Category    string
	Description string
	CreatedAt   time.Time
}

// VideoSummary is the projection served to the admin listing.
type VideoSummary struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	VimeoID string `json:"vimeo_id"`
}

// VimeoIDFromLink returns the last path segment of a Vimeo link. Bare ids are
// accepted as they are.
func VimeoIDFromLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", ErrInvalidVimeoLink
	}

	path := link
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		path = u.Path
	}
	path = strings.TrimRight(path, "/")

	id := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		id = path[i+1:]
	}
	if id == "" {
		return "", ErrInvalidVimeoLink
	}
	return id, nil
}

// ValidateVideo validates a Video before insertion.
func ValidateVideo(v *Video) error {
	if v == nil {
		return ErrMissingRequiredField
	}
	if v.VimeoID == "" || strings.TrimSpace(v.Title) == "" {
		return ErrMissingRequiredField
	}
	return nil
}
