// Package catalog filters, orders and groups portfolio projects.
package catalog

import (
	"net/url"

	"folio.dev/internal/models"
)

// Query parameter keys carrying filter criteria
const (
	KeyClient = "client"
	KeyYear   = "year"
	KeyTag    = "tag"
	KeyRole   = "role"
)

// Keys lists every filter key in canonical order
var Keys = []string{KeyClient, KeyYear, KeyTag, KeyRole}

// Criteria is an optional set of constraints on projects.
// Empty fields are not applied; supplied fields are combined with AND.
type Criteria struct {
	Client string `json:"client,omitempty"`
	Year   string `json:"year,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Role   string `json:"role,omitempty"`
}

// ParseCriteria reads criteria from query parameters
func ParseCriteria(v url.Values) Criteria {
	return Criteria{
		Client: v.Get(KeyClient),
		Year:   v.Get(KeyYear),
		Tag:    v.Get(KeyTag),
		Role:   v.Get(KeyRole),
	}
}

// Values encodes the supplied criteria as query parameters
func (c Criteria) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set(KeyClient, c.Client)
	set(KeyYear, c.Year)
	set(KeyTag, c.Tag)
	set(KeyRole, c.Role)
	return v
}

// Empty reports whether no constraint is supplied
func (c Criteria) Empty() bool {
	return c == Criteria{}
}

// Matches reports whether p satisfies every supplied constraint.
// Client, year and role are exact matches; tag is a membership test.
func (c Criteria) Matches(p models.Project) bool {
	if c.Client != "" && p.Client != c.Client {
		return false
	}
	if c.Year != "" && p.Year != c.Year {
		return false
	}
	if c.Role != "" && p.Role != c.Role {
		return false
	}
	if c.Tag != "" && !p.HasTag(c.Tag) {
		return false
	}
	return true
}

// Clear removes all filter keys from v, keeping unrelated parameters
func Clear(v url.Values) url.Values {
	out := url.Values{}
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	for _, k := range Keys {
		out.Del(k)
	}
	return out
}
