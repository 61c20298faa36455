package models

import "time"

// About holds the about page content
type About struct {
	ID               int64             `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Email            string            `json:"email" yaml:"email"`
	Title            string            `json:"title" yaml:"title"`
	AvatarURL        string            `json:"avatar_url" yaml:"avatar_url"`
	ShortBio         string            `json:"short_bio" yaml:"short_bio"`
	WhatIDo          string            `json:"what_i_do" yaml:"what_i_do"`
	Brands           []string          `json:"brands" yaml:"brands"`
	Awards           []Award           `json:"awards" yaml:"awards"`
	CareerHighlights []CareerHighlight `json:"career_highlights" yaml:"career_highlights"`
}

// Award is a recognition listed on the about page
type Award struct {
	ID     int64  `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Issuer string `json:"issuer,omitempty" yaml:"issuer"`
	Year   int    `json:"year" yaml:"year"`
}

// CareerHighlight is a notable past position
type CareerHighlight struct {
	ID        int64     `json:"id" yaml:"id"`
	Company   string    `json:"company" yaml:"company"`
	Role      string    `json:"role" yaml:"role"`
	Period    string    `json:"period" yaml:"period"`
	LogoURL   string    `json:"logo_url" yaml:"logo_url"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Experience is an entry in the experience list
type Experience struct {
	ID        int64     `json:"id" yaml:"id"`
	Company   string    `json:"company" yaml:"company"`
	Role      string    `json:"role" yaml:"role"`
	Period    string    `json:"period" yaml:"period"`
	LogoURL   string    `json:"logo_url" yaml:"logo_url"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
