// Package model defines the data structures used throughout the application.
//
// OPTIONAL FIELDS:
// Content comes from a CMS where any field may be missing. We model a missing
// scalar as a nil pointer and a missing list as a nil slice, so callers can tell
// "absent" from "empty":
//
//	Title: nil          → the entry has no title field at all
//	Title: ptr("")      → the entry has an empty title
//	Socials: nil        → JSON null, the list field is absent
//	Socials: []Social{} → JSON [], the list is present but empty
//
// Pointer fields use `omitempty` so absent scalars disappear from the JSON.
// Slices deliberately do NOT use omitempty, otherwise an empty list would be
// indistinguishable from a missing one.
package model

// Image is a picture hosted by the content source.
type Image struct {
	URL *string `json:"url,omitempty"`
}

// Social is one external profile link shown on the home page.
type Social struct {
	ID   *int64  `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
	Logo Image   `json:"logo"`
	URL  *string `json:"url,omitempty"`
}

// HomePage is the landing page content. There is one per site, keyed by an
// external content ID.
type HomePage struct {
	FirstName    *string  `json:"firstName,omitempty"`
	SecondName   *string  `json:"secondName,omitempty"`
	Introduction *string  `json:"introduction,omitempty"`
	Avatar       Image    `json:"avatar"`
	Socials      []Social `json:"socials"`
}

// Technology is a filter tag. Two technologies are the same tag when their
// titles are byte-for-byte equal.
type Technology struct {
	Title *string `json:"title,omitempty"`
}

// SameTag reports whether t and other name the same tag. Two absent titles
// are considered equal.
func (t Technology) SameTag(other Technology) bool {
	if t.Title == nil || other.Title == nil {
		return t.Title == nil && other.Title == nil
	}
	return *t.Title == *other.Title
}

// Project is one portfolio entry.
//
// Body is only set by content sources that carry a long-form description
// (the markdown content directory renders it to HTML).
type Project struct {
	ID           *int64       `json:"id,omitempty"`
	Title        *string      `json:"title,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Link         *string      `json:"link,omitempty"`
	Picture      Image        `json:"picture"`
	Technologies []Technology `json:"technologies"`
	Body         *string      `json:"body,omitempty"`
}

// ProjectsPage holds every project plus the universe of filterable
// technologies. Technologies is independent of which projects reference them.
type ProjectsPage struct {
	Projects     []Project    `json:"projects"`
	Technologies []Technology `json:"technologies"`
}
