// Package ogimage describes and rasterizes the 1200×630 Open Graph preview
// cards served for the site, blog posts, projects, case studies and team members.
package ogimage

import (
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
)

// Canvas size of every card.
const (
	Width  = 1200
	Height = 630
)

// Kind selects the card template. Values match the URL segment of the entity.
type Kind string

const (
	KindSite     Kind = "site"
	KindBlog     Kind = "blog"
	KindProjects Kind = "projects"
	KindWork     Kind = "work"
	KindTeam     Kind = "team"
)

// EntityKinds are the kinds addressed by id.
var EntityKinds = []Kind{KindBlog, KindProjects, KindWork, KindTeam}

// ParseKind maps a URL segment onto an entity Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range EntityKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Store returns the content store backing the kind.
func (k Kind) Store() string {
	switch k {
	case KindBlog:
		return content.StoreBlog
	case KindProjects, KindWork:
		return content.StoreProjects
	case KindTeam:
		return content.StoreTeam
	}
	return ""
}

// NotFoundMessage is the fallback caption for a missing entity of kind k.
func (k Kind) NotFoundMessage() string {
	switch k {
	case KindBlog:
		return "Blog Post Not Found"
	case KindTeam:
		return "Team Member Not Found"
	default:
		return "Project Not Found"
	}
}

// Style is the visual template.
type Style int

const (
	// StyleClassic is a white canvas with the round brand mark on top.
	StyleClassic Style = iota
	// StylePanel is a dotted canvas with a white rounded panel.
	StylePanel
)

// Mark is the brand element drawn at the top of the card.
type Mark int

const (
	MarkCircle  Mark = iota // blue "√L" disc
	MarkRadical             // "√" glyph followed by the header text
	MarkLogo                // logo asset followed by the header text; falls back to MarkCircle
)

// Avatar is the circular portrait of a team card. ImagePath is tried first;
// Glyph is drawn when it is empty or cannot be loaded.
type Avatar struct {
	ImagePath string
	Glyph     string
}

// Card is the layout description of one preview image. Building a Card never
// fails; every optional field has an empty value the renderer skips.
type Card struct {
	Kind     Kind
	Style    Style
	NotFound bool
	Mark     Mark
	Header   string
	Ribbon   string
	Badge    string
	Title    string
	Subtitle string
	Rule     bool
	Avatar   *Avatar
	Pill     string
	Chips    []string
	Footer   string
}

// Brand strings shared by the templates.
const (
	BrandName    = "SQRT Labs"
	SiteTagline  = "We build blockchain products that actually make sense."
	maxWorkTags  = 4
	maxTeamSkill = 3
)

// NotFoundCard is the branded fallback for a missing entity.
func NotFoundCard(k Kind) Card {
	return Card{
		Kind:     k,
		Style:    StyleClassic,
		NotFound: true,
		Mark:     MarkCircle,
		Title:    BrandName,
		Subtitle: k.NotFoundMessage(),
	}
}

// SiteCard is the default card of the home page.
func SiteCard() Card {
	return Card{
		Kind:     KindSite,
		Style:    StylePanel,
		Mark:     MarkRadical,
		Header:   BrandName,
		Rule:     true,
		Subtitle: SiteTagline,
		Chips:    []string{"Smart Contracts", "dApps", "Audit"},
	}
}

// BlogCard describes a blog post card; nil yields the not-found card.
func BlogCard(p *content.BlogPost) Card {
	if p == nil {
		return NotFoundCard(KindBlog)
	}
	c := Card{
		Kind:  KindBlog,
		Style: StyleClassic,
		Mark:  MarkCircle,
		Badge: "Blog Post",
		Title: p.Title,
	}
	if p.Author != "" {
		c.Subtitle = "by " + p.Author
	}
	return c
}

// ProjectCard describes a /projects card; nil yields the not-found card.
func ProjectCard(p *content.Project) Card {
	if p == nil {
		return NotFoundCard(KindProjects)
	}
	return Card{
		Kind:     KindProjects,
		Style:    StyleClassic,
		Mark:     MarkCircle,
		Badge:    "Project",
		Title:    p.Title,
		Subtitle: "SQRT Labs Project",
	}
}

// WorkCard describes a /work case study card; nil yields the not-found card.
func WorkCard(p *content.Project) Card {
	if p == nil {
		return NotFoundCard(KindWork)
	}
	c := Card{
		Kind:     KindWork,
		Style:    StylePanel,
		Mark:     MarkRadical,
		Header:   BrandName,
		Badge:    "Case Study",
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Chips:    firstN(p.Tags, maxWorkTags),
	}
	if p.Featured {
		c.Ribbon = "Featured Project"
	}
	return c
}

// TeamCard describes a team member card; nil yields the not-found card.
func TeamCard(m *content.TeamMember) Card {
	if m == nil {
		return NotFoundCard(KindTeam)
	}
	return Card{
		Kind:   KindTeam,
		Style:  StylePanel,
		Mark:   MarkLogo,
		Header: "SQRT Labs Team",
		Avatar: &Avatar{
			ImagePath: strings.TrimSpace(m.Image),
			Glyph:     initial(m.Name),
		},
		Title:  m.Name,
		Pill:   m.Role,
		Footer: strings.Join(firstN(m.Skills, maxTeamSkill), " • "),
	}
}

// CardFor resolves id in the store backing kind and describes its card.
// found is false when the fallback card was produced.
func CardFor(repo *content.Repository, kind Kind, id string) (card Card, found bool) {
	switch kind {
	case KindBlog:
		if p, ok := repo.Blog.Resolve(id); ok {
			return BlogCard(&p), true
		}
		return BlogCard(nil), false
	case KindProjects:
		if p, ok := repo.Projects.Resolve(id); ok {
			return ProjectCard(&p), true
		}
		return ProjectCard(nil), false
	case KindWork:
		if p, ok := repo.Projects.Resolve(id); ok {
			return WorkCard(&p), true
		}
		return WorkCard(nil), false
	case KindTeam:
		if m, ok := repo.Team.Resolve(id); ok {
			return TeamCard(&m), true
		}
		return TeamCard(nil), false
	}
	return SiteCard(), kind == KindSite
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	if len(items) == 0 {
		return nil
	}
	return append([]string(nil), items...)
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(r)
}
