package teams

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedTeam is one entry of a teams seed file
type SeedTeam struct {
	ID   int32  `yaml:"id"`
	Name string `yaml:"name"`
}

type seedFile struct {
	Teams []SeedTeam `yaml:"teams"`
}

// SeedResult represents the result of seeding teams
type SeedResult struct {
	Total    int     `json:"total"`
	Inserted int     `json:"inserted"`
	Skipped  int     `json:"skipped"`
	Errors   []error `json:"errors,omitempty"`
}

// LoadSeedFile reads teams from a YAML file of the form
//
//	teams:
//	  - id: 1
//	    name: Hawks
func LoadSeedFile(path string) ([]SeedTeam, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed YAML
func ParseSeed(data []byte) ([]SeedTeam, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	seen := make(map[int32]struct{}, len(file.Teams))
	for i, t := range file.Teams {
		if t.ID <= 0 {
			return nil, fmt.Errorf("team %d: id must be positive", i)
		}
		if t.Name == "" {
			return nil, fmt.Errorf("team %d: name is required", t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("team %d: duplicate id", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	if len(file.Teams) == 0 {
		return nil, errors.New("seed file has no teams")
	}
	return file.Teams, nil
}
