// Package constraints persists user-authored constraint bundles as JSON
// files and validates them syntactically before they are saved or evaluated.
package constraints

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/graphquality/rpcheck/parser"
)

// Bundle is a saved set of constraint strings.
type Bundle struct {
	Constraints []string `json:"constraints"`
}

// ValidationError describes a constraint in a bundle that failed to parse.
type ValidationError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Validate parses every constraint of the bundle and returns an error
// descriptor for each one that is not a well-formed constraint.
func Validate(b Bundle) []ValidationError {
	var errs []ValidationError

	for i, raw := range b.Constraints {
		if _, err := parser.ParseRPC(raw); err != nil {
			errs = append(errs, ValidationError{
				Index:   i,
				Message: err.Error(),
			})
		}
	}

	return errs
}

// Store saves and loads constraint bundles under a single directory.
type Store struct {
	dir string
}

// NewStore returns a store over dir, creating the directory as needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Store{
		dir: dir,
	}, nil
}

// Save writes the bundle to a new timestamped file and returns its name.
func (s *Store) Save(b Bundle) (string, error) {
	name := "constraints-" + time.Now().Format("20060102-150405") + ".json"

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}

	return name, nil
}

// List returns the names of all saved bundles, sorted.
func (s *Store) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "constraints-*.json"))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)

	return names, nil
}

// Load reads a saved bundle by name.
func (s *Store) Load(name string) (Bundle, error) {
	if err := checkName(name); err != nil {
		return Bundle{}, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return Bundle{}, err
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("constraints: decoding %s: %w", name, err)
	}

	return b, nil
}

func checkName(name string) error {
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return fmt.Errorf("constraints: invalid bundle name %q", name)
	}
	if !strings.HasPrefix(name, "constraints-") || !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("constraints: invalid bundle name %q", name)
	}
	return nil
}
