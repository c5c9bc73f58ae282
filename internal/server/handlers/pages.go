package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/ogimage"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/pagination"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/server/views"
)

// DefaultBlogPageSize is the number of posts per listing page.
const DefaultBlogPageSize = 6

const contentTypeHTML = "text/html; charset=utf-8"

// PageOptions configures page rendering.
type PageOptions struct {
	SiteTitle  string
	BaseURL    string
	PageSize   int
	LiveReload bool
	Recorder   metrics.Recorder
	Logger     *slog.Logger
}

// PageHandlers renders listing and detail views.
type PageHandlers struct {
	snapshot     Snapshot
	views        *views.Views
	errorAdapter *ferrors.HTTPErrorAdapter
	opts         PageOptions
	recorder     metrics.Recorder
	logger       *slog.Logger
}

// NewPageHandlers creates page handlers reading from snapshot.
func NewPageHandlers(snapshot Snapshot, v *views.Views, adapter *ferrors.HTTPErrorAdapter, opts PageOptions) *PageHandlers {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultBlogPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandlers{
		snapshot:     snapshot,
		views:        v,
		errorAdapter: adapter,
		opts:         opts,
		recorder:     metrics.OrNoop(opts.Recorder),
		logger:       logger,
	}
}

// section describes a project-backed area of the site.
type section struct {
	kind      ogimage.Kind
	base      string
	heading   string
	backLabel string
}

var (
	projectsSection = section{kind: ogimage.KindProjects, base: "/projects", heading: "Projects", backLabel: "Back to Projects"}
	workSection     = section{kind: ogimage.KindWork, base: "/work", heading: "Our Work", backLabel: "Back to Work"}
)

type notFoundText struct {
	message, backHref, backLabel string
}

var notFoundTexts = map[ogimage.Kind]notFoundText{
	ogimage.KindBlog:     {"Post not found", "/blog", "Back to Blog"},
	ogimage.KindProjects: {"Project not found", "/projects", "Back to Projects"},
	ogimage.KindWork:     {"Project not found", "/work", "Back to Work"},
	ogimage.KindTeam:     {"Team Member Not Found", "/team", "Back to Team"},
}

type blogListData struct {
	Posts     []content.BlogPost
	Window    pagination.Window
	ShowPager bool
}

type blogPostData struct {
	Post       content.BlogPost
	Prev, Next *content.BlogPost
}

type projectListData struct {
	Heading  string
	Base     string
	Projects []content.Project
}

type projectDetailData struct {
	Project    content.Project
	Prev, Next *content.Project
	Base       string
	BackLabel  string
}

type teamListData struct {
	Members []content.TeamMember
}

// projectRef is a team member's project: linked entries carry an Href.
type projectRef struct {
	Name string
	Href string
}

type teamMemberData struct {
	Member   content.TeamMember
	Projects []projectRef
}

type notFoundData struct {
	Message   string
	BackHref  string
	BackLabel string
}

// HandleBlogList serves GET /blog?page=N. Out-of-range pages are clamped.
func (h *PageHandlers) HandleBlogList(w http.ResponseWriter, r *http.Request) {
	posts := h.snapshot.Current().Blog.All()
	page := parsePage(r.URL.Query().Get("page"))
	start, end, total := pagination.Paginate(len(posts), page, h.opts.PageSize)
	window, ok := pagination.NewWindow(page, total)

	h.render(w, r, http.StatusOK, views.BlogList, views.Page{
		Title:     "Blog | " + h.siteTitle(),
		Canonical: h.opts.BaseURL + "/blog",
		OGImage:   h.opts.BaseURL + "/opengraph-image",
		Body:      blogListData{Posts: posts[start:end], Window: window, ShowPager: ok},
	})
}

// HandleBlogPost serves GET /blog/{id}.
func (h *PageHandlers) HandleBlogPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	blog := h.snapshot.Current().Blog
	post, ok := blog.Resolve(id)
	if !ok {
		h.notFound(w, r, ogimage.KindBlog, id)
		return
	}
	sib := blog.Siblings(id)
	h.render(w, r, http.StatusOK, views.BlogPost, views.Page{
		Title:       post.Title + " | " + h.siteTitle(),
		Description: firstParagraph(post.Content),
		Canonical:   h.opts.BaseURL + "/blog/" + id,
		OGImage:     h.opts.BaseURL + "/blog/" + id + "/opengraph-image",
		Body:        blogPostData{Post: post, Prev: sib.Previous, Next: sib.Next},
	})
}

// HandleProjectList serves GET /projects.
func (h *PageHandlers) HandleProjectList(w http.ResponseWriter, r *http.Request) {
	h.projectList(w, r, projectsSection)
}

// HandleProject serves GET /projects/{id}.
func (h *PageHandlers) HandleProject(w http.ResponseWriter, r *http.Request) {
	h.projectDetail(w, r, projectsSection)
}

// HandleWorkList serves GET /work.
func (h *PageHandlers) HandleWorkList(w http.ResponseWriter, r *http.Request) {
	h.projectList(w, r, workSection)
}

// HandleWork serves GET /work/{id}.
func (h *PageHandlers) HandleWork(w http.ResponseWriter, r *http.Request) {
	h.projectDetail(w, r, workSection)
}

func (h *PageHandlers) projectList(w http.ResponseWriter, r *http.Request, s section) {
	h.render(w, r, http.StatusOK, views.ProjectList, views.Page{
		Title:     s.heading + " | " + h.siteTitle(),
		Canonical: h.opts.BaseURL + s.base,
		OGImage:   h.opts.BaseURL + "/opengraph-image",
		Body: projectListData{
			Heading:  s.heading,
			Base:     s.base,
			Projects: h.snapshot.Current().Projects.All(),
		},
	})
}

func (h *PageHandlers) projectDetail(w http.ResponseWriter, r *http.Request, s section) {
	id := chi.URLParam(r, "id")
	projects := h.snapshot.Current().Projects
	p, ok := projects.Resolve(id)
	if !ok {
		h.notFound(w, r, s.kind, id)
		return
	}
	sib := projects.Siblings(id)
	h.render(w, r, http.StatusOK, views.ProjectDetail, views.Page{
		Title:       p.Title + " | " + h.siteTitle(),
		Description: p.Description,
		Canonical:   h.opts.BaseURL + s.base + "/" + id,
		OGImage:     h.opts.BaseURL + s.base + "/" + id + "/opengraph-image",
		Body: projectDetailData{
			Project:   p,
			Prev:      sib.Previous,
			Next:      sib.Next,
			Base:      s.base,
			BackLabel: s.backLabel,
		},
	})
}

// HandleTeamList serves GET /team.
func (h *PageHandlers) HandleTeamList(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.TeamList, views.Page{
		Title:     "Team | " + h.siteTitle(),
		Canonical: h.opts.BaseURL + "/team",
		OGImage:   h.opts.BaseURL + "/opengraph-image",
		Body:      teamListData{Members: h.snapshot.Current().Team.All()},
	})
}

// HandleTeamMember serves GET /team/{id}. Project names that match a project
// title link to its case study; others are shown as unlisted.
func (h *PageHandlers) HandleTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	repo := h.snapshot.Current()
	m, ok := repo.Team.Resolve(id)
	if !ok {
		h.notFound(w, r, ogimage.KindTeam, id)
		return
	}
	links := content.LinkProjects(repo.Projects, m.Projects)
	refs := make([]projectRef, 0, len(links))
	for _, l := range links {
		ref := projectRef{Name: l.Name()}
		if p, linked := l.Project(); linked {
			ref.Href = "/work/" + p.ID
		}
		refs = append(refs, ref)
	}
	h.render(w, r, http.StatusOK, views.TeamMember, views.Page{
		Title:       m.Name + " | " + h.siteTitle(),
		Description: m.Role,
		Canonical:   h.opts.BaseURL + "/team/" + id,
		OGImage:     h.opts.BaseURL + "/team/" + id + "/opengraph-image",
		Body:        teamMemberData{Member: m, Projects: refs},
	})
}

func (h *PageHandlers) notFound(w http.ResponseWriter, r *http.Request, kind ogimage.Kind, id string) {
	h.recorder.IncNotFound(string(kind))
	h.logger.Debug("Entity not found", logfields.EntityKind(string(kind)), logfields.EntityID(id))
	text := notFoundTexts[kind]
	h.render(w, r, http.StatusNotFound, views.NotFound, views.Page{
		Title: text.message + " | " + h.siteTitle(),
		Body:  notFoundData{Message: text.message, BackHref: text.backHref, BackLabel: text.backLabel},
	})
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	page.SiteTitle = h.siteTitle()
	page.FeedURL = "/blog/rss"
	page.LiveReload = h.opts.LiveReload
	var buf bytes.Buffer
	if err := h.views.Render(&buf, name, page); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryRender, "failed to render page").
			WithContext("view", name).
			Build())
		return
	}
	writeBody(w, status, contentTypeHTML, buf.Bytes())
}

func (h *PageHandlers) siteTitle() string {
	if h.opts.SiteTitle != "" {
		return h.opts.SiteTitle
	}
	return ogimage.BrandName
}

// parsePage reads a 1-based page number; anything unparsable is page 1.
func parsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func firstParagraph(paragraphs []string) string {
	if len(paragraphs) == 0 {
		return ""
	}
	return paragraphs[0]
}
