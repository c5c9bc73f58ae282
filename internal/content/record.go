package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Store names, used in logs, metrics and error context.
const (
	StoreBlog     = "blog"
	StoreProjects = "projects"
	StoreTeam     = "team"
)

// Record is implemented by every stored entity.
type Record interface {
	RecordID() string
}

// BlogPost is one entry of blog-posts.json. The ID is the object key.
type BlogPost struct {
	ID           string   `json:"-"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	ReadTime     string   `json:"readTime"`
	Date         string   `json:"date"`
	Author       string   `json:"author"`
	Color        string   `json:"color"`
	Content      []string `json:"content"`
	KeyTakeaways []string `json:"keyTakeaways"`
}

func (p BlogPost) RecordID() string { return p.ID }

// Project is one entry of projects.json. The ID is the object key.
type Project struct {
	ID              string   `json:"-"`
	Title           string   `json:"title"`
	Subtitle        string   `json:"subtitle,omitempty"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Tags            []string `json:"tags"`
	Color           string   `json:"color"`
	Annotation      string   `json:"annotation"`
	Featured        bool     `json:"featured"`
	Challenges      []string `json:"challenges"`
	Solutions       []string `json:"solutions"`
	Results         []string `json:"results"`
	TechStack       []string `json:"techStack"`
	Timeline        Text     `json:"timeline"`
	Team            Text     `json:"team"`
	Date            string   `json:"date,omitempty"`
	Likes           Text     `json:"likes,omitempty"`
	Location        string   `json:"location,omitempty"`
	GitHub          string   `json:"github,omitempty"`
	Demo            string   `json:"demo,omitempty"`
	ProjectLink     string   `json:"projectLink,omitempty"`
	YouTubeID       string   `json:"youtubeId,omitempty"`
	Category        string   `json:"category,omitempty"`
	Verified        bool     `json:"verified,omitempty"`
}

func (p Project) RecordID() string { return p.ID }

// Socials holds optional profile links of a team member.
type Socials struct {
	GitHub    string `json:"github,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Farcaster string `json:"farcaster,omitempty"`
	Telegram  string `json:"telegram,omitempty"`
}

// TeamMember is one element of team.json.
type TeamMember struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
	Socials  Socials  `json:"socials"`
	Projects []string `json:"projects"` // Free-text project titles
	Image    string   `json:"image,omitempty"`
}

func (m TeamMember) RecordID() string { return m.ID }

// Text is a display string that also accepts JSON numbers, e.g. likes: 120 or "1.2k".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

// missingField returns the JSON name of the first empty required field, or "".
func (p BlogPost) missingField() string {
	switch {
	case blank(p.Title):
		return "title"
	case blank(p.Category):
		return "category"
	case blank(p.Date):
		return "date"
	case blank(p.Author):
		return "author"
	case len(p.Content) == 0:
		return "content"
	}
	return ""
}

func (p Project) missingField() string {
	switch {
	case blank(p.Title):
		return "title"
	case blank(p.Description):
		return "description"
	}
	return ""
}

func (m TeamMember) missingField() string {
	switch {
	case blank(m.ID):
		return "id"
	case blank(m.Name):
		return "name"
	case blank(m.Role):
		return "role"
	}
	return ""
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
