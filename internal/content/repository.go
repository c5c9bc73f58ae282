package content

import "time"

// Repository is one immutable snapshot of all content stores.
type Repository struct {
	Blog     *Store[BlogPost]
	Projects *Store[Project]
	Team     *Store[TeamMember]
	LoadedAt time.Time

	unavailable map[string]error
}

// NewRepository builds a fully available snapshot from in-memory records.
func NewRepository(blog []BlogPost, projects []Project, team []TeamMember) *Repository {
	return &Repository{
		Blog:        NewStore(StoreBlog, blog),
		Projects:    NewStore(StoreProjects, projects),
		Team:        NewStore(StoreTeam, team),
		LoadedAt:    time.Now().UTC(),
		unavailable: map[string]error{},
	}
}

// Unavailable returns the load error of store, or nil if it loaded.
func (r *Repository) Unavailable(store string) error {
	return r.unavailable[store]
}

// IDs returns the ids of store in insertion order, or the reason the store is unavailable.
func (r *Repository) IDs(store string) ([]string, error) {
	if err := r.Unavailable(store); err != nil {
		return nil, err
	}
	switch store {
	case StoreBlog:
		return r.Blog.IDs(), nil
	case StoreProjects:
		return r.Projects.IDs(), nil
	case StoreTeam:
		return r.Team.IDs(), nil
	}
	return nil, nil
}

// Counts returns the number of records per store.
func (r *Repository) Counts() map[string]int {
	return map[string]int{
		StoreBlog:     r.Blog.Len(),
		StoreProjects: r.Projects.Len(),
		StoreTeam:     r.Team.Len(),
	}
}

// UnresolvedProjectRefs lists, per team member id, project names that do not
// match any project title.
func (r *Repository) UnresolvedProjectRefs() map[string][]string {
	out := map[string][]string{}
	for _, m := range r.Team.All() {
		for _, l := range LinkProjects(r.Projects, m.Projects) {
			if l.Kind() == Unlinked {
				out[m.ID] = append(out[m.ID], l.Name())
			}
		}
	}
	return out
}
