package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for the history store.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps run in order against a fresh store.
	Steps []Step `yaml:"steps"`

	// Expect is the full ListAll output, in order.
	Expect []ExpectedRecord `yaml:"expect"`

	// Unordered relaxes the order check to set equality, for scenarios
	// whose records share timestamps.
	Unordered bool `yaml:"unordered,omitempty"`
}

// Step is one store operation. Exactly one field must be set.
type Step struct {
	Save   *SaveStep `yaml:"save,omitempty"`
	Delete string    `yaml:"delete,omitempty"`
	Clear  bool      `yaml:"clear,omitempty"`
}

// SaveStep mirrors the arguments of Store.Save.
type SaveStep struct {
	Address string `yaml:"address"`

	// Balance is a YAML number (numeric balance) or string.
	Balance interface{} `yaml:"balance"`

	// Timestamp in epoch milliseconds. Nil uses the harness clock.
	Timestamp *int64 `yaml:"timestamp,omitempty"`

	// SourceInfo is passed through as provenance when set.
	SourceInfo map[string]interface{} `yaml:"source_info,omitempty"`
}

// ExpectedRecord describes one record of the final listing.
// Unset fields are not compared.
type ExpectedRecord struct {
	Address          string                 `yaml:"address"`
	Balance          interface{}            `yaml:"balance,omitempty"`
	FormattedBalance string                 `yaml:"formatted_balance,omitempty"`
	Timestamp        *int64                 `yaml:"timestamp,omitempty"`
	SourceInfo       map[string]interface{} `yaml:"source_info,omitempty"`

	// NoSourceInfo asserts the record carries no provenance.
	NoSourceInfo bool `yaml:"no_source_info,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml file in dir, sorted by file name.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	for i, exp := range s.Expect {
		if exp.Address == "" {
			return fmt.Errorf("expect %d: address is required", i)
		}
		if exp.NoSourceInfo && exp.SourceInfo != nil {
			return fmt.Errorf("expect %d: source_info and no_source_info are exclusive", i)
		}
	}

	return nil
}

func validateStep(step Step) error {
	set := 0
	if step.Save != nil {
		set++
		if step.Save.Balance == nil {
			return fmt.Errorf("save: balance is required")
		}
	}
	if step.Delete != "" {
		set++
	}
	if step.Clear {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one of save, delete, clear must be set")
	}
	return nil
}
