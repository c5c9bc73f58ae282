// Package views renders the HTML pages of the site from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	BlogList      = "blog_list"
	BlogPost      = "blog_post"
	ProjectList   = "project_list"
	ProjectDetail = "project_detail"
	TeamList      = "team_list"
	TeamMember    = "team_member"
	NotFound      = "not_found"
)

var pageNames = []string{BlogList, BlogPost, ProjectList, ProjectDetail, TeamList, TeamMember, NotFound}

// Page is the data passed to the layout. Body carries the page-specific model.
type Page struct {
	Title       string
	Description string
	Canonical   string
	OGImage     string
	SiteTitle   string
	FeedURL     string
	LiveReload  bool
	Body        any
}

// Views holds one parsed template set per page.
type Views struct {
	pages map[string]*template.Template
	md    goldmark.Markdown
}

// New parses all page templates. md renders blog paragraphs; nil uses goldmark defaults,
// which escape raw HTML.
func New(md goldmark.Markdown) (*Views, error) {
	if md == nil {
		md = goldmark.New()
	}
	v := &Views{pages: make(map[string]*template.Template, len(pageNames)), md: md}
	funcs := template.FuncMap{
		"markdown": v.markdown,
	}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Render executes page name into w. Output is buffered so a template error
// never leaves a partial page behind.
func (v *Views) Render(w io.Writer, name string, page Page) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (v *Views) markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	// #nosec G203 -- goldmark output with raw HTML disabled.
	return template.HTML(buf.String()), nil
}
