// Package normalizer converts raw content entries into the typed domain model.
//
// All defensive handling of missing data lives here, so the rest of the
// application can work with model types directly. The mapping is built from
// small total functions, one per nested path; each returns an absent result
// (nil pointer or nil slice) instead of failing when its input is missing.
//
// The functions are pure: no I/O, no logging, and identical input always
// produces an equal output.
package normalizer

import (
	"strings"

	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/raw"
)

// HomePage maps a home page entry. It returns nil only when the entry itself
// is absent; missing fields inside a present entry become absent fields.
func HomePage(entry raw.Value) *model.HomePage {
	if !entry.Present() {
		return nil
	}

	f := entry.Fields()
	return &model.HomePage{
		FirstName:    text(f.Get("firstName")),
		SecondName:   text(f.Get("secondName")),
		Introduction: text(f.Get("introduction")),
		Avatar:       image(f.Get("avatar")),
		Socials:      mapList(f.Get("socials"), social),
	}
}

// ProjectsPage maps a projects page entry. It returns nil only when the entry
// itself is absent.
func ProjectsPage(entry raw.Value) *model.ProjectsPage {
	if !entry.Present() {
		return nil
	}

	f := entry.Fields()
	return &model.ProjectsPage{
		Projects:     mapList(f.Get("projects"), project),
		Technologies: mapList(f.Get("technologies"), technology),
	}
}

// RepairURL turns a protocol-relative URL ("//host/path") into an absolute
// one by prefixing "http:". URLs in any other form are returned unchanged.
func RepairURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "http:" + u
	}
	return u
}

func social(v raw.Value) model.Social {
	f := v.Fields()
	return model.Social{
		ID:   integer(f.Get("id")),
		Name: text(f.Get("name")),
		Logo: image(f.Get("logo")),
		URL:  text(f.Get("url")),
	}
}

func project(v raw.Value) model.Project {
	f := v.Fields()
	return model.Project{
		ID:           integer(f.Get("id")),
		Title:        text(f.Get("title")),
		Description:  text(f.Get("description")),
		Link:         text(f.Get("link")),
		Picture:      image(f.Get("picture")),
		Technologies: mapList(f.Get("technologies"), technology),
		Body:         text(f.Get("body")),
	}
}

func technology(v raw.Value) model.Technology {
	return model.Technology{Title: text(v.Fields().Get("title"))}
}

// image reads an asset's file URL. If the asset, its fields or its file are
// missing, the Image has no URL.
func image(asset raw.Value) model.Image {
	u, ok := asset.Path("fields", "file", "url").Text()
	if !ok {
		return model.Image{}
	}
	repaired := RepairURL(u)
	return model.Image{URL: &repaired}
}

// mapList maps each element of a list field, preserving order. An absent (or
// non-list) field yields nil; a present empty list yields an empty slice.
func mapList[T any](v raw.Value, fn func(raw.Value) T) []T {
	items, ok := v.Items()
	if !ok {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func text(v raw.Value) *string {
	s, ok := v.Text()
	if !ok {
		return nil
	}
	return &s
}

func integer(v raw.Value) *int64 {
	n, ok := v.Int()
	if !ok {
		return nil
	}
	return &n
}
