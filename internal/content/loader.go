package content

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
)

// Files names the three datasets inside the loader's file system.
type Files struct {
	Blog     string
	Projects string
	Team     string
}

// DefaultFiles are the dataset names used by the site.
var DefaultFiles = Files{
	Blog:     "blog-posts.json",
	Projects: "projects.json",
	Team:     "team.json",
}

// Loader reads the datasets once and builds an immutable Repository.
//
// A dataset that cannot be opened or is not valid JSON is recorded as
// unavailable: its store is empty and the reason is kept on the Repository.
// A record missing a required field fails the whole load.
type Loader struct {
	FS       fs.FS
	Files    Files
	Logger   *slog.Logger
	Recorder metrics.Recorder
	Now      func() time.Time
}

// Load reads all three datasets.
func (l *Loader) Load() (*Repository, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rec := metrics.OrNoop(l.Recorder)
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	repo := &Repository{unavailable: map[string]error{}}

	blog, err := readObject[BlogPost](l.FS, l.Files.Blog, StoreBlog)
	if err = l.degrade(repo, StoreBlog, err, logger, rec); err != nil {
		return nil, err
	}
	projects, err := readObject[Project](l.FS, l.Files.Projects, StoreProjects)
	if err = l.degrade(repo, StoreProjects, err, logger, rec); err != nil {
		return nil, err
	}
	team, err := readTeam(l.FS, l.Files.Team)
	if err = l.degrade(repo, StoreTeam, err, logger, rec); err != nil {
		return nil, err
	}

	repo.Blog = NewStore(StoreBlog, blog)
	repo.Projects = NewStore(StoreProjects, projects)
	repo.Team = NewStore(StoreTeam, team)
	repo.LoadedAt = now().UTC()

	for store, n := range repo.Counts() {
		rec.SetStoreRecords(store, n)
	}
	logger.Info("Content loaded",
		slog.Int("blog", repo.Blog.Len()),
		slog.Int("projects", repo.Projects.Len()),
		slog.Int("team", repo.Team.Len()))
	return repo, nil
}

// degrade records source_unavailable errors on repo and passes everything else through.
func (l *Loader) degrade(repo *Repository, store string, err error, logger *slog.Logger, rec metrics.Recorder) error {
	if err == nil {
		return nil
	}
	if !ferrors.HasCategory(err, ferrors.CategorySourceUnavailable) {
		return err
	}
	repo.unavailable[store] = err
	rec.IncSourceUnavailable(store)
	logger.Warn("Content source unavailable; store will be empty",
		logfields.Store(store),
		logfields.Error(err))
	return nil
}

// keyed is a record stored in a JSON object under its id.
type keyed[T any] interface {
	Record
	withID(id string) T
	missingField() string
}

func (p BlogPost) withID(id string) BlogPost { p.ID = id; return p }
func (p Project) withID(id string) Project   { p.ID = id; return p }

// readObject decodes a JSON object keyed by id, keeping key order.
func readObject[T keyed[T]](fsys fs.FS, name, store string) ([]T, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, unavailable(store, name, err)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, unavailable(store, name, err)
	}
	var out []T
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, unavailable(store, name, err)
		}
		id, _ := tok.(string)
		var rec T
		if err := dec.Decode(&rec); err != nil {
			return nil, unavailable(store, name, fmt.Errorf("record %q: %w", id, err))
		}
		rec = rec.withID(id)
		if id == "" {
			return nil, invalidRecord(store, name, id, "id")
		}
		if field := rec.missingField(); field != "" {
			return nil, invalidRecord(store, name, id, field)
		}
		out = append(out, rec)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, unavailable(store, name, err)
	}
	return out, nil
}

// readTeam decodes the team array, keeping element order.
func readTeam(fsys fs.FS, name string) ([]TeamMember, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, unavailable(StoreTeam, name, err)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	if err := expectDelim(dec, '['); err != nil {
		return nil, unavailable(StoreTeam, name, err)
	}
	var out []TeamMember
	for i := 0; dec.More(); i++ {
		var m TeamMember
		if err := dec.Decode(&m); err != nil {
			return nil, unavailable(StoreTeam, name, fmt.Errorf("element %d: %w", i, err))
		}
		if field := m.missingField(); field != "" {
			id := m.ID
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			return nil, invalidRecord(StoreTeam, name, id, field)
		}
		out = append(out, m)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, unavailable(StoreTeam, name, err)
	}
	return out, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("unexpected end of input, want %q", want)
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("unexpected token %v, want %q", tok, want)
	}
	return nil
}

func unavailable(store, file string, err error) error {
	return ferrors.SourceUnavailableError(store, err).WithContext("file", file).Build()
}

func invalidRecord(store, file, id, field string) error {
	return ferrors.ValidationError(fmt.Sprintf("%s record %q is missing required field %q", store, id, field)).
		WithContext("store", store).
		WithContext("file", file).
		WithContext("id", id).
		WithContext("field", field).
		Build()
}
