// Package content defines the portfolio Content Source: the structured records
// the virtual filesystem is built from, and the loaders that read them from
// YAML, JSON or SQLite.
//
// A nil pointer or nil slice in a Snapshot means the category is missing from
// the source. Consumers degrade instead of failing.
package content

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category names, in the order the shell presents them.
const (
	CategoryAbout     = "about"
	CategoryEducation = "education"
	CategorySkills    = "skills"
	CategoryProjects  = "projects"
	CategoryContact   = "contact"
)

// Categories is the declared top-level order.
var Categories = []string{
	CategoryAbout,
	CategoryEducation,
	CategorySkills,
	CategoryProjects,
	CategoryContact,
}

// ErrUnknownFormat is returned when a content file's format cannot be determined.
var ErrUnknownFormat = errors.New("unknown content format")

// Personal is the personal-info block rendered as the about file.
type Personal struct {
	Name           string `yaml:"name" json:"name"`
	Age            int    `yaml:"age,omitempty" json:"age,omitempty"`
	Location       string `yaml:"location,omitempty" json:"location,omitempty"`
	Degree         string `yaml:"degree,omitempty" json:"degree,omitempty"`
	GraduationYear string `yaml:"graduation_year,omitempty" json:"graduationYear,omitempty"`
	CodingSince    string `yaml:"coding_since,omitempty" json:"codingSince,omitempty"`
	Description    string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Education is one education record, keyed by ID.
type Education struct {
	ID          string `yaml:"id" json:"id"`
	Institution string `yaml:"institution" json:"institution"`
	Year        string `yaml:"year,omitempty" json:"year,omitempty"`
	Degree      string `yaml:"degree,omitempty" json:"degree,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Details     string `yaml:"details,omitempty" json:"details,omitempty"`
}

// Skill is one programming-language skill record.
type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Level    int    `yaml:"level" json:"level"` // percent, 0-100
	Years    int    `yaml:"years,omitempty" json:"years,omitempty"`
	Projects int    `yaml:"projects,omitempty" json:"projects,omitempty"`
}

// TechGroup is a labelled list of technologies shown under the skills file.
type TechGroup struct {
	Label string   `yaml:"label" json:"label"`
	Items []string `yaml:"items" json:"items"`
}

// Project is one portfolio project record, keyed by ID.
type Project struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Tech        []string `yaml:"tech,omitempty" json:"tech,omitempty"`
	Lines       int      `yaml:"lines,omitempty" json:"lines,omitempty"`
	Time        string   `yaml:"time,omitempty" json:"time,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Details     string   `yaml:"details,omitempty" json:"details,omitempty"`
}

// Contact is the contact block.
type Contact struct {
	Email    string `yaml:"email,omitempty" json:"email,omitempty"`
	GitHub   string `yaml:"github,omitempty" json:"github,omitempty"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
	Note     string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Snapshot is an immutable view of the Content Source.
type Snapshot struct {
	Personal     *Personal   `yaml:"personal" json:"personal"`
	Education    []Education `yaml:"education" json:"education"`
	Skills       []Skill     `yaml:"skills" json:"skills"`
	Technologies []TechGroup `yaml:"technologies,omitempty" json:"technologies,omitempty"`
	Projects     []Project   `yaml:"projects" json:"projects"`
	Contact      *Contact    `yaml:"contact" json:"contact"`
}

// Has reports whether the named category is present in the snapshot.
func (s *Snapshot) Has(category string) bool {
	if s == nil {
		return false
	}
	switch category {
	case CategoryAbout:
		return s.Personal != nil
	case CategoryEducation:
		return s.Education != nil
	case CategorySkills:
		return s.Skills != nil
	case CategoryProjects:
		return s.Projects != nil
	case CategoryContact:
		return s.Contact != nil
	}
	return false
}

// Missing lists the required categories absent from the snapshot, in declared order.
func (s *Snapshot) Missing() []string {
	var missing []string
	for _, c := range Categories {
		if !s.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// OwnerName returns the personal name, or "" when the personal block is missing.
func (s *Snapshot) OwnerName() string {
	if s == nil || s.Personal == nil {
		return ""
	}
	return s.Personal.Name
}

//go:embed sample.yaml
var sampleYAML []byte

// Default returns the embedded sample portfolio.
func Default() *Snapshot {
	snap, err := ParseYAML(sampleYAML)
	if err != nil {
		// The sample is compiled in; a parse failure is a build defect.
		panic(fmt.Sprintf("content: embedded sample is invalid: %v", err))
	}
	return snap
}

// ParseYAML decodes a snapshot from YAML.
func ParseYAML(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse content yaml: %w", err)
	}
	return &snap, nil
}

// ParseJSON decodes a snapshot from JSON.
func ParseJSON(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse content json: %w", err)
	}
	return &snap, nil
}

// DetectFormat maps a file extension to a content format.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads a snapshot from path. An empty path yields the embedded sample.
// format is one of "", "auto", "yaml", "json" or "sqlite".
func Load(path, format string) (*Snapshot, error) {
	if path == "" {
		return Default(), nil
	}

	if format == "" || format == "auto" {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	if format == "sqlite" {
		return LoadSQLite(context.Background(), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	switch format {
	case "yaml":
		return ParseYAML(data)
	case "json":
		return ParseJSON(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}
