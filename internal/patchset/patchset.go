// Package patchset discovers the ordered list of patch artifacts in a directory.
package patchset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Extension selects which files in the patches directory are artifacts.
const Extension = ".patch"

// Artifact is one unified-diff file. It is not modified after loading.
type Artifact struct {
	Name    string
	Path    string
	Content []byte
	SHA256  string
}

// Set is an ordered, name-unique sequence of artifacts from one directory.
type Set struct {
	dir       string
	artifacts []Artifact
}

// New builds a Set from artifacts, sorting them by name.
// Duplicate names are rejected.
func New(dir string, artifacts []Artifact) (*Set, error) {
	sorted := make([]Artifact, len(artifacts))
	copy(sorted, artifacts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Name == sorted[i-1].Name {
			return nil, fmt.Errorf("duplicate patch name %q", sorted[i].Name)
		}
	}

	return &Set{dir: dir, artifacts: sorted}, nil
}

// Load reads every *.patch file directly inside dir, sorted lexicographically
// by file name. A missing directory yields an empty set.
func Load(fs afero.Fs, dir string) (*Set, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	info, err := fs.Stat(dir)
	if os.IsNotExist(err) {
		return &Set{dir: dir}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading patches directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("patches path %s is not a directory", dir)
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("listing patches directory %s: %w", dir, err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, readErr := afero.ReadFile(fs, path)
		if readErr != nil {
			return nil, fmt.Errorf("reading patch %s: %w", path, readErr)
		}
		artifacts = append(artifacts, Artifact{
			Name:    entry.Name(),
			Path:    path,
			Content: content,
			SHA256:  computeHash(content),
		})
	}

	return New(dir, artifacts)
}

// Dir returns the directory the set was loaded from.
func (s *Set) Dir() string {
	return s.dir
}

// Len returns the number of artifacts.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.artifacts)
}

// Artifacts returns the artifacts in application order.
func (s *Set) Artifacts() []Artifact {
	if s == nil {
		return nil
	}
	out := make([]Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// Reversed returns the artifacts in unapplication order, the exact reverse of
// Artifacts.
func (s *Set) Reversed() []Artifact {
	out := s.Artifacts()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Names returns artifact names in application order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.artifacts))
	for i, a := range s.artifacts {
		names[i] = a.Name
	}
	return names
}

func computeHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
