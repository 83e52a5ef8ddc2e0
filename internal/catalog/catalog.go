package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studylane/studylane-backend/internal/types"
)

// SkillDefinition is one entry of the static skill catalog. Definitions are
// loaded once at process start and never mutated.
type SkillDefinition struct {
	Key         string           `yaml:"key"`
	Label       string           `yaml:"label"`
	Focus       string           `yaml:"focus"`
	Description string           `yaml:"description"`
	Aliases     []string         `yaml:"aliases"`
	Keywords    []string         `yaml:"keywords"`
	Resources   []types.Resource `yaml:"resources"`
}

type Department struct {
	Key    string            `yaml:"key"`
	Name   string            `yaml:"name"`
	Skills []SkillDefinition `yaml:"skills"`
}

type catalogFile struct {
	Departments []Department `yaml:"departments"`
	Synonyms    map[string]string
}

// Registry holds the department catalog. Immutable after Load; inject it,
// never mutate it.
type Registry struct {
	departments map[string]Department
	order       []string
	synonyms    map[string]string
}

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Load builds the registry from the embedded catalog, or from the YAML file
// at path when path is non-empty.
func Load(path string) (*Registry, error) {
	raw := defaultCatalogYAML
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		raw = b
	}

	var file struct {
		Departments []Department      `yaml:"departments"`
		Synonyms    map[string]string `yaml:"synonyms"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Departments) == 0 {
		return nil, fmt.Errorf("catalog has no departments")
	}

	reg := &Registry{
		departments: make(map[string]Department, len(file.Departments)),
		synonyms:    make(map[string]string, len(file.Synonyms)),
	}
	for _, dep := range file.Departments {
		key := strings.ToLower(strings.TrimSpace(dep.Key))
		if key == "" {
			return nil, fmt.Errorf("department with empty key")
		}
		if _, dup := reg.departments[key]; dup {
			return nil, fmt.Errorf("duplicate department %q", key)
		}
		if len(dep.Skills) == 0 {
			return nil, fmt.Errorf("department %q has no skills", key)
		}
		seen := map[string]bool{}
		for _, sk := range dep.Skills {
			if sk.Key == "" {
				return nil, fmt.Errorf("department %q has a skill with empty key", key)
			}
			if seen[sk.Key] {
				return nil, fmt.Errorf("department %q has duplicate skill key %q", key, sk.Key)
			}
			seen[sk.Key] = true
		}
		dep.Key = key
		reg.departments[key] = dep
		reg.order = append(reg.order, key)
	}
	for syn, target := range file.Synonyms {
		if _, ok := reg.departments[target]; !ok {
			return nil, fmt.Errorf("synonym %q points at unknown department %q", syn, target)
		}
		reg.synonyms[strings.ToLower(strings.TrimSpace(syn))] = target
	}
	return reg, nil
}

// Resolve normalizes the input and maps it to a department, trying the
// synonym table first and direct catalog keys second.
func (r *Registry) Resolve(input string) (Department, bool) {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return Department{}, false
	}
	if target, ok := r.synonyms[key]; ok {
		key = target
	}
	dep, ok := r.departments[key]
	return dep, ok
}

// Departments returns department keys in declaration order.
func (r *Registry) Departments() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
