// SPDX-License-Identifier: MIT

// Package bench - scenario configuration.
//
// A scenario file is YAML:
//
//	scenarios:
//	  - name: small
//	    factors: [4, 4]
//	    diag: 0.5
//	    seed: 1
//
// factors lists the Kronecker factor sizes; diag is the uniform shift c.

package bench

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoScenarios is returned for a configuration without scenarios.
	ErrNoScenarios = errors.New("bench: no scenarios")

	// ErrInvalidScenario marks a scenario with missing or out-of-range fields.
	ErrInvalidScenario = errors.New("bench: invalid scenario")
)

// maxProblemSize bounds Π factors; the generic path densifies the operator.
const maxProblemSize = 4096

// Scenario describes one Kronecker + c·I problem.
type Scenario struct {
	Name    string  `yaml:"name"`
	Factors []int   `yaml:"factors"`
	Diag    float64 `yaml:"diag"`
	Seed    int64   `yaml:"seed"`
}

// Size returns Π Factors. Only meaningful for a scenario that passed Validate;
// larger products may overflow.
func (s Scenario) Size() int {
	n := 1
	for _, f := range s.Factors {
		n *= f
	}

	return n
}

// Validate checks the scenario fields.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("missing name: %w", ErrInvalidScenario)
	}
	if len(s.Factors) == 0 {
		return fmt.Errorf("%s: no factors: %w", s.Name, ErrInvalidScenario)
	}
	n := 1
	for i, f := range s.Factors {
		if f <= 0 {
			return fmt.Errorf("%s: factor %d has size %d: %w", s.Name, i, f, ErrInvalidScenario)
		}
		// n·f > maxProblemSize, checked without forming the product.
		if n > maxProblemSize/f {
			return fmt.Errorf("%s: size exceeds %d at factor %d: %w", s.Name, maxProblemSize, i, ErrInvalidScenario)
		}
		n *= f
	}
	if !(s.Diag > 0) {
		return fmt.Errorf("%s: diag must be > 0, got %g: %w", s.Name, s.Diag, ErrInvalidScenario)
	}

	return nil
}

// Config is the top-level scenario file.
type Config struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Validate checks every scenario; names must be unique.
func (c *Config) Validate() error {
	if len(c.Scenarios) == 0 {
		return ErrNoScenarios
	}
	seen := make(map[string]struct{}, len(c.Scenarios))
	for _, s := range c.Scenarios {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%s: duplicate name: %w", s.Name, ErrInvalidScenario)
		}
		seen[s.Name] = struct{}{}
	}

	return nil
}

// ParseConfig decodes and validates a YAML scenario file.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("bench: parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadConfig reads and parses the scenario file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bench: read config: %w", err)
	}

	return ParseConfig(data)
}
