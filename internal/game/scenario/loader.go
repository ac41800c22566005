package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlCatalogue is the top-level YAML structure for scenario files.
type yamlCatalogue struct {
	Scenarios []yamlScenario `yaml:"scenarios"`
}

// yamlScenario is the YAML representation of a scenario.
type yamlScenario struct {
	Name   string     `yaml:"name"`
	Map    string     `yaml:"map"`
	Expect yamlExpect `yaml:"expect"`
}

// yamlExpect is the YAML representation of the expected answers.
type yamlExpect struct {
	Outcome        *int `yaml:"outcome"`
	Boost          *int `yaml:"boost"`
	BoostedOutcome *int `yaml:"boosted_outcome"`
}

// LoadFromFile reads and validates a scenario YAML file.
//
// Precondition: path must point to a YAML scenario file.
// Postcondition: Returns a validated Catalogue or a non-nil error.
func LoadFromFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a scenario catalogue from YAML bytes.
//
// Postcondition: Returns a validated Catalogue or a non-nil error.
func LoadFromBytes(data []byte) (*Catalogue, error) {
	var file yamlCatalogue
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	cat := &Catalogue{}
	for _, ys := range file.Scenarios {
		s, err := FromMap(ys.Name, strings.TrimRight(ys.Map, "\n"))
		if err != nil {
			return nil, err
		}
		s.Expect = Expectation{
			Outcome:        ys.Expect.Outcome,
			Boost:          ys.Expect.Boost,
			BoostedOutcome: ys.Expect.BoostedOutcome,
		}
		cat.Scenarios = append(cat.Scenarios, s)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenarios: %w", err)
	}
	return cat, nil
}

// LoadFromDir loads every YAML file in dir into one catalogue, in file name order.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns a validated Catalogue or the first error encountered.
func LoadFromDir(dir string) (*Catalogue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", dir, err)
	}

	all := &Catalogue{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		cat, err := LoadFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading scenarios from %s: %w", name, err)
		}
		all.Scenarios = append(all.Scenarios, cat.Scenarios...)
	}

	if len(all.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	if err := all.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenarios in %s: %w", dir, err)
	}
	return all, nil
}
