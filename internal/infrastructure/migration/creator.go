package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// MigrationFile is a newly created up/down pair
type MigrationFile struct {
	Version  uint
	Name     string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down pair numbered after the highest
// existing version in dir
func CreateMigration(dir, name string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Version + 1
	}

	base := fmt.Sprintf("%06d_%s", next, slug)
	mf := &MigrationFile{
		Version:  next,
		Name:     slug,
		UpPath:   filepath.Join(dir, base+upSuffix),
		DownPath: filepath.Join(dir, base+downSuffix),
	}
	if err := os.WriteFile(mf.UpPath, []byte("-- "+slug+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(mf.DownPath, []byte("-- rollback "+slug+"\n"), 0o644); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

// Entry describes one migration found in a source
type Entry struct {
	Version uint
	Name    string
	HasUp   bool
	HasDown bool
}

// ListMigrations returns the migrations in fsys ordered by version
func ListMigrations(fsys fs.FS) ([]Entry, error) {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[uint]*Entry)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		var base string
		var up bool
		switch {
		case strings.HasSuffix(name, upSuffix):
			base, up = strings.TrimSuffix(name, upSuffix), true
		case strings.HasSuffix(name, downSuffix):
			base = strings.TrimSuffix(name, downSuffix)
		default:
			continue
		}
		num, label, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(num, 10, 32)
		if err != nil {
			continue
		}
		e := byVersion[uint(v)]
		if e == nil {
			e = &Entry{Version: uint(v), Name: label}
			byVersion[uint(v)] = e
		}
		if up {
			e.HasUp = true
		} else {
			e.HasDown = true
		}
	}

	entries := make([]Entry, 0, len(byVersion))
	for _, e := range byVersion {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Version < entries[j].Version })
	return entries, nil
}

// sanitizeName lowercases name and collapses separators to single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}
