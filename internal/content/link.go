package content

import "golang.org/x/text/cases"

// LinkKind tags a ProjectLink.
type LinkKind int

const (
	// Unlinked means no project title matched; only the literal name is known.
	Unlinked LinkKind = iota
	// Linked means a project record was found.
	Linked
)

func (k LinkKind) String() string {
	if k == Linked {
		return "linked"
	}
	return "unlinked"
}

// ProjectLink is the result of joining a team member's free-text project name
// against the project store. Callers must switch on Kind.
type ProjectLink struct {
	kind    LinkKind
	name    string
	project Project
}

// Kind reports whether the link resolved to a project.
func (l ProjectLink) Kind() LinkKind { return l.kind }

// Name is the display name: the project title when linked, else the literal reference.
func (l ProjectLink) Name() string {
	if l.kind == Linked {
		return l.project.Title
	}
	return l.name
}

// Project returns the linked project; ok is false for Unlinked results.
func (l ProjectLink) Project() (Project, bool) {
	return l.project, l.kind == Linked
}

// LinkProjects matches each name against project titles using Unicode case
// folding and exact equality. The first matching project in store order wins.
// The result has one entry per name, in the order given.
func LinkProjects(projects *Store[Project], names []string) []ProjectLink {
	if len(names) == 0 {
		return nil
	}
	fold := cases.Fold()
	all := projects.All()
	titles := make([]string, len(all))
	for i, p := range all {
		titles[i] = fold.String(p.Title)
	}

	links := make([]ProjectLink, len(names))
	for i, name := range names {
		links[i] = ProjectLink{kind: Unlinked, name: name}
		key := fold.String(name)
		for j, t := range titles {
			if t == key {
				links[i] = ProjectLink{kind: Linked, name: name, project: all[j]}
				break
			}
		}
	}
	return links
}
