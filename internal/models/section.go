package models

import (
	"encoding/json"
	"net/url"
	"time"
)

// SectionType identifies the payload carried by a project section
type SectionType string

const (
	SectionText    SectionType = "text"
	SectionGallery SectionType = "gallery"
	SectionVideo   SectionType = "video"
	SectionImage   SectionType = "image"
)

// Valid reports whether t is a known section type
func (t SectionType) Valid() bool {
	switch t {
	case SectionText, SectionGallery, SectionVideo, SectionImage:
		return true
	}
	return false
}

// MediaKind distinguishes gallery entries
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Section is one block of a project's detail page
type Section struct {
	ID        string      `json:"id"`
	ProjectID int64       `json:"project_id"`
	Type      SectionType `json:"type"`
	Title     string      `json:"title,omitempty"`
	Payload   Payload     `json:"content"`
	Order     int         `json:"order"`
	CreatedAt time.Time   `json:"created_at"`

	// Raw is the payload as stored; Payload is decoded from it.
	Raw json.RawMessage `json:"-"`
}

// Payload is the decoded, type-specific content of a section.
// Only the field matching the section type is populated.
type Payload struct {
	Text    string        `json:"text,omitempty"`
	Gallery []GalleryItem `json:"gallery,omitempty"`
	Video   *Video        `json:"video,omitempty"`
	Image   *Image        `json:"image,omitempty"`
}

// GalleryItem is an image or a video with an optional poster frame
type GalleryItem struct {
	Kind   MediaKind `json:"type"`
	URL    string    `json:"url"`
	Poster string    `json:"poster,omitempty"`
}

// Video references an embeddable video
type Video struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	EmbedURL  string `json:"embed_url,omitempty"`
}

// Image is a single captioned image
type Image struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// DecodePayload decodes raw into the shape declared by t.
// Fields belonging to other types, unknown fields and malformed values are
// ignored; the result is an empty payload rather than an error.
func DecodePayload(t SectionType, raw []byte) Payload {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return Payload{}
	}

	var p Payload
	switch t {
	case SectionText:
		_ = json.Unmarshal(fields["text"], &p.Text)
	case SectionGallery:
		p.Gallery = decodeGallery(fields["gallery"])
	case SectionVideo:
		var v Video
		if json.Unmarshal(fields["video"], &v) == nil && v.URL != "" {
			v.EmbedURL = EmbedURL(v.URL)
			p.Video = &v
		}
	case SectionImage:
		var img Image
		if json.Unmarshal(fields["image"], &img) == nil && img.URL != "" {
			p.Image = &img
		}
	}
	return p
}

// decodeGallery accepts both bare URL strings and {type,url,poster} objects
func decodeGallery(raw json.RawMessage) []GalleryItem {
	var entries []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &entries) != nil {
		return nil
	}

	items := make([]GalleryItem, 0, len(entries))
	for _, e := range entries {
		var s string
		if json.Unmarshal(e, &s) == nil {
			if s != "" {
				items = append(items, GalleryItem{Kind: MediaImage, URL: s})
			}
			continue
		}

		var item GalleryItem
		if json.Unmarshal(e, &item) != nil || item.URL == "" {
			continue
		}
		if item.Kind != MediaVideo {
			item.Kind = MediaImage
		}
		if item.Kind == MediaImage {
			item.Poster = ""
		}
		items = append(items, item)
	}
	return items
}

// EmbedURL hides the title, byline and portrait overlays of an embedded
// player. Unparseable URLs are returned unchanged.
func EmbedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	q := u.Query()
	q.Set("title", "0")
	q.Set("byline", "0")
	q.Set("portrait", "0")
	u.RawQuery = q.Encode()
	return u.String()
}
