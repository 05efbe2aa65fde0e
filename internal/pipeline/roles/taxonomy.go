// Package roles classifies employees' current job titles against a taxonomy
// of role functions and filters companies accordingly.
package roles

import (
	"os"
	"strings"

	stderrors "prospector/internal/common/errors"

	"gopkg.in/yaml.v3"
)

// functionEntry is one role function in the taxonomy file: a curated list of
// exact titles, plus an optional shorter keyword list for broader recall.
type functionEntry struct {
	Titles   []string `yaml:"titles"`
	Keywords []string `yaml:"keywords,omitempty"`
}

type taxonomyFile struct {
	Seniority []string                 `yaml:"seniority"`
	Functions map[string]functionEntry `yaml:"functions"`
}

// Taxonomy is the immutable role-function lookup, loaded once at startup.
// All lookups are case-insensitive.
type Taxonomy struct {
	seniority []string
	functions map[string]functionEntry // keyed by lowercased function name
}

// Load reads the taxonomy data file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stderrors.NewTaxonomyLoadError(err.Error())
	}
	return Parse(data)
}

// Parse builds a Taxonomy from yaml bytes.
func Parse(data []byte) (*Taxonomy, error) {
	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, stderrors.NewTaxonomyLoadError(err.Error())
	}
	if len(file.Functions) == 0 {
		return nil, stderrors.NewTaxonomyLoadError("taxonomy defines no role functions")
	}

	t := &Taxonomy{
		seniority: make([]string, 0, len(file.Seniority)),
		functions: make(map[string]functionEntry, len(file.Functions)),
	}
	for _, s := range file.Seniority {
		t.seniority = append(t.seniority, strings.ToLower(s))
	}
	for name, entry := range file.Functions {
		lowered := functionEntry{
			Titles:   lowerAll(entry.Titles),
			Keywords: lowerAll(entry.Keywords),
		}
		t.functions[strings.ToLower(name)] = lowered
	}
	return t, nil
}

// Lookup returns the title and keyword target sets for one role function
// name, and whether the function exists at all.
func (t *Taxonomy) Lookup(role string) (titles, keywords []string, ok bool) {
	entry, ok := t.functions[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return nil, nil, false
	}
	return entry.Titles, entry.Keywords, true
}

// Seniority returns the fixed seniority-token set used for compound matching.
func (t *Taxonomy) Seniority() []string {
	return t.seniority
}

// Functions returns the known role-function names, for help text.
func (t *Taxonomy) Functions() []string {
	names := make([]string, 0, len(t.functions))
	for name := range t.functions {
		names = append(names, name)
	}
	return names
}

func lowerAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.ToLower(item))
	}
	return out
}
