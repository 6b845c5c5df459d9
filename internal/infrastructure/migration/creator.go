package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"
)

// versionLayout sorts lexically and numerically alike
const versionLayout = "20060102150405"

var (
	// ErrEmptyName is returned when a name has no usable characters
	ErrEmptyName = errors.New("migration name has no letters or digits")
	// ErrDuplicateName is returned when a migration with the same name exists
	ErrDuplicateName = errors.New("a migration with this name already exists")
)

var fileTemplate = template.Must(template.New("migration").Parse(
	`-- {{.Name}} ({{.Direction}})
-- version {{.Version}}{{if .Description}}
-- {{.Description}}{{end}}

`))

// File is one migration: an up file and, normally, its down file
type File struct {
	Version  uint64
	Name     string
	UpPath   string
	DownPath string
}

// HasDown reports whether a rollback file exists
func (f File) HasDown() bool {
	return f.DownPath != ""
}

// Creator scaffolds migration pairs in Dir
type Creator struct {
	Dir string
	now func() time.Time
}

// NewCreator creates a Creator for dir
func NewCreator(dir string) *Creator {
	return &Creator{Dir: dir, now: time.Now}
}

// Create writes <version>_<name>.up.sql and .down.sql. Existing files are never
// overwritten.
func (c *Creator) Create(name, description string) (*File, error) {
	slug := Slug(name)
	if slug == "" {
		return nil, ErrEmptyName
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", c.Dir, err)
	}
	existing, err := List(c.Dir)
	if err != nil {
		return nil, err
	}
	for _, f := range existing {
		if f.Name == slug {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, filepath.Base(f.UpPath))
		}
	}

	version := c.now().UTC().Format(versionLayout)
	base := filepath.Join(c.Dir, version+"_"+slug)
	v, _ := strconv.ParseUint(version, 10, 64)
	f := &File{Version: v, Name: slug, UpPath: base + ".up.sql", DownPath: base + ".down.sql"}

	if err := writeTemplate(f.UpPath, f, "up", description); err != nil {
		return nil, err
	}
	if err := writeTemplate(f.DownPath, f, "down", description); err != nil {
		_ = os.Remove(f.UpPath)
		return nil, err
	}
	return f, nil
}

func writeTemplate(path string, f *File, direction, description string) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	err = fileTemplate.Execute(out, map[string]any{
		"Name":        f.Name,
		"Direction":   direction,
		"Version":     f.Version,
		"Description": description,
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// Slug lowercases name and joins its letter/digit runs with underscores.
// Non-ASCII letters are dropped so file names stay portable.
func Slug(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	return strings.Join(words, "_")
}

// List returns the migrations in dir ordered by version. A missing directory
// has no migrations. Files not named <version>_<name>.(up|down).sql are ignored.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	byVersion := map[uint64]*File{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, direction, ok := parseFileName(e.Name())
		if !ok {
			continue
		}
		f := byVersion[version]
		if f == nil {
			f = &File{Version: version, Name: name}
			byVersion[version] = f
		}
		path := filepath.Join(dir, e.Name())
		if direction == "up" {
			f.UpPath = path
		} else {
			f.DownPath = path
		}
	}

	files := make([]File, 0, len(byVersion))
	for _, f := range byVersion {
		if f.UpPath != "" {
			files = append(files, *f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func parseFileName(name string) (version uint64, slug, direction string, ok bool) {
	switch {
	case strings.HasSuffix(name, ".up.sql"):
		direction, name = "up", strings.TrimSuffix(name, ".up.sql")
	case strings.HasSuffix(name, ".down.sql"):
		direction, name = "down", strings.TrimSuffix(name, ".down.sql")
	default:
		return 0, "", "", false
	}
	prefix, slug, found := strings.Cut(name, "_")
	if !found || slug == "" {
		return 0, "", "", false
	}
	version, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, "", "", false
	}
	return version, slug, direction, true
}

// Pending returns the files newer than the applied version
func Pending(files []File, applied uint) []File {
	var out []File
	for _, f := range files {
		if f.Version > uint64(applied) {
			out = append(out, f)
		}
	}
	return out
}
