// Package testutil provides shared test helpers for lualike tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ScenariosDir is the relative path from the module root to the scenarios.
const ScenariosDir = "testdata/scenarios"

// Scenario represents a test scenario loaded from a scenario.yaml file.
type Scenario struct {
	// Mode is "run" for a whole program or "eval" for a single expression.
	Mode    string         `yaml:"mode"`
	Program string         `yaml:"program"`
	Globals map[string]any `yaml:"globals,omitempty"`
	Meta    *ScenarioMeta  `yaml:"meta,omitempty"`
	Expect  ExpectedResult `yaml:"expect"`
}

// ScenarioMeta holds optional scenario metadata.
type ScenarioMeta struct {
	Tags []string `yaml:"tags,omitempty"`
}

// ExpectedResult describes the expected outcome of running a scenario.
// Value is compared with the String rendering of the result.
type ExpectedResult struct {
	Value     *string `yaml:"value,omitempty"`
	Kind      string  `yaml:"kind,omitempty"`
	NoValue   bool    `yaml:"noValue,omitempty"`
	Stdout    string  `yaml:"stdout,omitempty"`
	ErrorCode string  `yaml:"errorCode,omitempty"`
	ErrorLine int     `yaml:"errorLine,omitempty"`
}

// LoadScenario loads a scenario from a directory containing scenario.yaml.
func LoadScenario(dir string) (*Scenario, error) {
	data, err := os.ReadFile(filepath.Join(dir, "scenario.yaml"))
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Mode == "" {
		s.Mode = "run"
	}
	if s.Program == "" {
		s.Program = "main.lua"
	}
	return &s, nil
}

// ListScenarios returns all scenario directories under the given root,
// sorted by name.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			scenarioPath := filepath.Join(root, e.Name(), "scenario.yaml")
			if _, err := os.Stat(scenarioPath); err == nil {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ReadProgramFile reads the program file referenced by the scenario.
func ReadProgramFile(scenarioDir string, s *Scenario) (string, error) {
	source, err := os.ReadFile(filepath.Join(scenarioDir, s.Program))
	if err != nil {
		return "", err
	}
	return string(source), nil
}
