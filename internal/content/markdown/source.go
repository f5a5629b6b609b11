// Package markdown serves portfolio content from a directory of markdown
// files, for sites that keep their content in the repository instead of a CMS.
//
// Layout:
//
//	content/
//	  home.md            frontmatter only: firstName, secondName, introduction,
//	                     avatar, socials[{id, name, url, logo}]
//	  projects/
//	    camel.md         frontmatter: id, title, description, link,
//	    ...              image{url, alt}, pubDate, technologies[], draft
//	                     body: markdown, rendered to HTML
//
// Entries are built in the same shape the Contentful API returns, with links
// already inlined, so the normalizer maps them without knowing the source.
package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/cobbinma/portfolio/internal/content"
	"github.com/cobbinma/portfolio/internal/raw"
)

const (
	homeFile    = "home.md"
	projectsDir = "projects"
)

// pubDate layouts accepted in project frontmatter.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"Jan 2 2006",
	"Jan 02 2006",
}

// compile-time check that *Source implements content.Fetcher
var _ content.Fetcher = (*Source)(nil)

// Config names the content directory and which entry ids map to which page.
type Config struct {
	Dir        string
	HomeID     string
	ProjectsID string
}

// Source is a content.Fetcher that reads markdown files on every fetch.
type Source struct {
	cfg    Config
	md     goldmark.Markdown
	logger *slog.Logger
}

// New returns a Source for cfg.Dir. The directory is not read until the
// first fetch, so edits show up without a restart.
func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		cfg: cfg,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		logger: logger,
	}
}

// FetchEntry builds the home or projects page entry. Any other id, or a page
// whose files are missing, is absent. opts is ignored: links are always fully
// inlined.
func (s *Source) FetchEntry(ctx context.Context, id string, _ content.Options) (raw.Value, error) {
	switch id {
	case s.cfg.HomeID:
		return s.home(id)
	case s.cfg.ProjectsID:
		return s.projects(ctx, id)
	default:
		return raw.Absent(), nil
	}
}

type homeMatter struct {
	FirstName    *string        `yaml:"firstName"`
	SecondName   *string        `yaml:"secondName"`
	Introduction *string        `yaml:"introduction"`
	Avatar       *string        `yaml:"avatar"`
	Socials      []socialMatter `yaml:"socials"`
}

type socialMatter struct {
	ID   *int64  `yaml:"id"`
	Name *string `yaml:"name"`
	URL  *string `yaml:"url"`
	Logo *string `yaml:"logo"`
}

type projectMatter struct {
	ID           *int64       `yaml:"id"`
	Title        *string      `yaml:"title"`
	Description  *string      `yaml:"description"`
	Link         *string      `yaml:"link"`
	Image        *imageMatter `yaml:"image"`
	PubDate      string       `yaml:"pubDate"`
	Technologies []string     `yaml:"technologies"`
	Draft        bool         `yaml:"draft"`
}

type imageMatter struct {
	URL string `yaml:"url"`
	Alt string `yaml:"alt"`
}

func (s *Source) home(id string) (raw.Value, error) {
	path := filepath.Join(s.cfg.Dir, homeFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("home page file missing", "path", path)
			return raw.Absent(), nil
		}
		return raw.Absent(), fmt.Errorf("markdown: reading %s: %w", path, err)
	}

	var m homeMatter
	if _, err := frontmatter.Parse(bytes.NewReader(data), &m); err != nil {
		return raw.Absent(), fmt.Errorf("markdown: parsing %s: %w", path, err)
	}

	fields := map[string]any{}
	setText(fields, "firstName", m.FirstName)
	setText(fields, "secondName", m.SecondName)
	setText(fields, "introduction", m.Introduction)
	if m.Avatar != nil {
		fields["avatar"] = asset(*m.Avatar)
	}
	if m.Socials != nil {
		socials := make([]any, 0, len(m.Socials))
		for _, sm := range m.Socials {
			sf := map[string]any{}
			if sm.ID != nil {
				sf["id"] = *sm.ID
			}
			setText(sf, "name", sm.Name)
			setText(sf, "url", sm.URL)
			if sm.Logo != nil {
				sf["logo"] = asset(*sm.Logo)
			}
			socials = append(socials, map[string]any{"fields": sf})
		}
		fields["socials"] = socials
	}

	return raw.Of(entry(id, fields)), nil
}

// project is one parsed file under projects/.
type project struct {
	file    string
	matter  projectMatter
	pubDate time.Time
	body    string
}

func (s *Source) projects(ctx context.Context, id string) (raw.Value, error) {
	dir := filepath.Join(s.cfg.Dir, projectsDir)
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("projects directory missing", "path", dir)
			return raw.Absent(), nil
		}
		return raw.Absent(), fmt.Errorf("markdown: reading %s: %w", dir, err)
	}

	var projects []project
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".md" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return raw.Absent(), err
		}

		p, err := s.readProject(filepath.Join(dir, f.Name()))
		if err != nil {
			return raw.Absent(), err
		}
		if p.matter.Draft {
			s.logger.Debug("skipping draft project", "file", f.Name())
			continue
		}
		projects = append(projects, p)
	}

	// Newest first; file name keeps equal dates in a stable order.
	sort.SliceStable(projects, func(i, j int) bool {
		if !projects[i].pubDate.Equal(projects[j].pubDate) {
			return projects[i].pubDate.After(projects[j].pubDate)
		}
		return projects[i].file < projects[j].file
	})

	list := make([]any, 0, len(projects))
	universe := map[string]struct{}{}
	for _, p := range projects {
		list = append(list, map[string]any{"fields": p.fields()})
		for _, t := range p.matter.Technologies {
			universe[t] = struct{}{}
		}
	}

	titles := make([]string, 0, len(universe))
	for t := range universe {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	return raw.Of(entry(id, map[string]any{
		"projects":     list,
		"technologies": technologies(titles),
	})), nil
}

func (s *Source) readProject(path string) (project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return project{}, fmt.Errorf("markdown: reading %s: %w", path, err)
	}

	var m projectMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &m)
	if err != nil {
		return project{}, fmt.Errorf("markdown: parsing %s: %w", path, err)
	}

	p := project{file: filepath.Base(path), matter: m}

	if m.PubDate != "" {
		p.pubDate, err = parseDate(m.PubDate)
		if err != nil {
			return project{}, fmt.Errorf("markdown: %s: %w", path, err)
		}
	}

	if len(bytes.TrimSpace(body)) > 0 {
		var html bytes.Buffer
		if err := s.md.Convert(body, &html); err != nil {
			return project{}, fmt.Errorf("markdown: rendering %s: %w", path, err)
		}
		p.body = html.String()
	}

	return p, nil
}

func (p project) fields() map[string]any {
	m := p.matter
	f := map[string]any{}
	if m.ID != nil {
		f["id"] = *m.ID
	}
	setText(f, "title", m.Title)
	setText(f, "description", m.Description)
	setText(f, "link", m.Link)
	if m.Image != nil && m.Image.URL != "" {
		a := asset(m.Image.URL)
		if m.Image.Alt != "" {
			a["fields"].(map[string]any)["title"] = m.Image.Alt
		}
		f["picture"] = a
	}
	if m.Technologies != nil {
		f["technologies"] = technologies(m.Technologies)
	}
	if p.body != "" {
		f["body"] = p.body
	}
	return f
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid pubDate %q", s)
}

func entry(id string, fields map[string]any) map[string]any {
	return map[string]any{
		"sys":    map[string]any{"id": id, "type": "Entry"},
		"fields": fields,
	}
}

func asset(url string) map[string]any {
	return map[string]any{
		"fields": map[string]any{
			"file": map[string]any{"url": url},
		},
	}
}

func technologies(titles []string) []any {
	out := make([]any, 0, len(titles))
	for _, t := range titles {
		out = append(out, map[string]any{"fields": map[string]any{"title": t}})
	}
	return out
}

func setText(fields map[string]any, key string, v *string) {
	if v != nil {
		fields[key] = *v
	}
}
