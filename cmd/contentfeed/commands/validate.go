package commands

import (
	"fmt"
	"io"
	"os"
	"sort"

	"git.home.luguber.info/sqrtlabs/contentfeed/internal/content"
)

// ValidateCmd loads the data like 'serve' would and reports what it found.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	repo, err := rt.loader().Load()
	if err != nil {
		return err
	}
	return WriteValidationReport(os.Stdout, repo)
}

var reportStores = []string{content.StoreBlog, content.StoreProjects, content.StoreTeam}

// WriteValidationReport prints per-store counts and unresolved team project
// references. It returns the first unavailable store's error so CI fails on it.
func WriteValidationReport(w io.Writer, repo *content.Repository) error {
	counts := repo.Counts()
	var firstErr error
	for _, store := range reportStores {
		if err := repo.Unavailable(store); err != nil {
			_, _ = fmt.Fprintf(w, "%-9s unavailable: %v\n", store, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		_, _ = fmt.Fprintf(w, "%-9s %d records\n", store, counts[store])
	}

	refs := repo.UnresolvedProjectRefs()
	if len(refs) == 0 {
		return firstErr
	}
	members := make([]string, 0, len(refs))
	for id := range refs {
		members = append(members, id)
	}
	sort.Strings(members)
	_, _ = fmt.Fprintln(w, "Unresolved team project references:")
	for _, id := range members {
		for _, name := range refs[id] {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", id, name)
		}
	}
	return firstErr
}
