package models

import (
	"regexp"
	"time"
)

// AspectRatio is the card shape hint for a project's cover image
type AspectRatio string

const (
	AspectLandscape AspectRatio = "4:3"
	AspectPortrait  AspectRatio = "3:4"
	AspectBanner    AspectRatio = "9:2"
)

// OrDefault returns the ratio, falling back to 4:3 for empty or unknown values
func (a AspectRatio) OrDefault() AspectRatio {
	switch a {
	case AspectPortrait, AspectBanner:
		return a
	}
	return AspectLandscape
}

// Project represents a portfolio project
type Project struct {
	ID            int64       `json:"id" yaml:"id"`
	Slug          string      `json:"slug" yaml:"slug"`
	Title         string      `json:"title" yaml:"title"`
	Description   string      `json:"description" yaml:"description"`
	ImageURL      string      `json:"image_url" yaml:"image_url"`
	Link          string      `json:"link,omitempty" yaml:"link"`
	Category      string      `json:"category,omitempty" yaml:"category"`
	Client        string      `json:"client,omitempty" yaml:"client"`
	Role          string      `json:"role,omitempty" yaml:"role"`
	Year          string      `json:"year,omitempty" yaml:"year"`
	Tags          []string    `json:"tags" yaml:"tags"`
	Order         int         `json:"order" yaml:"order"`
	AspectRatio   AspectRatio `json:"aspect_ratio,omitempty" yaml:"aspect_ratio"`
	Featured      bool        `json:"featured" yaml:"featured"`
	FeaturedOrder int         `json:"featured_order,omitempty" yaml:"featured_order"`
	CreatedAt     time.Time   `json:"created_at" yaml:"created_at"`
}

// HasTag reports whether tag is one of the project's tags
func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase, hyphen-separated URL-safe slug
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
