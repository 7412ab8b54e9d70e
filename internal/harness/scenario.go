package harness

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/journalized/internal/ir"
)

// Scenario defines a journaling test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Types declares the journaled entity types and their baseline options.
	Types map[string]TypeSpec `yaml:"types"`

	// Steps are executed in order against a fresh store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the journals after all steps ran.
	Assertions []Assertion `yaml:"assertions"`
}

// TypeSpec mirrors ir.TypeOptions in YAML form.
// An absent only list journals every attribute; `only: []` journals none.
type TypeSpec struct {
	Only            []string `yaml:"only,omitempty"`
	Except          []string `yaml:"except,omitempty"`
	JournalOnCreate bool     `yaml:"journal_on_create,omitempty"`
}

// Options converts the scenario type block to registry options.
func (ts TypeSpec) Options() ir.TypeOptions {
	return ir.TypeOptions{
		Only:            ts.Only,
		Except:          ts.Except,
		JournalOnCreate: ts.JournalOnCreate,
	}.Clone()
}

// Step is one write or option change.
type Step struct {
	// Op is one of create, save, replace, configure, reset.
	Op string `yaml:"op"`

	// Entity is "Type#ID" for writes and the bare type name for
	// configure and reset.
	Entity string `yaml:"entity"`

	// Attributes are the snapshot (create, replace) or patch (save).
	Attributes map[string]interface{} `yaml:"attributes,omitempty"`

	// Author and Notes are written with the journal, if one is recorded.
	Author string `yaml:"author,omitempty"`
	Notes  string `yaml:"notes,omitempty"`

	// Options replaces the type options (configure only).
	Options *TypeSpec `yaml:"options,omitempty"`

	// Expect optionally checks the outcome of the step.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// StepExpect checks the outcome of a single step. Nil fields are not checked.
type StepExpect struct {
	Written  *bool `yaml:"written,omitempty"`
	Recorded *bool `yaml:"recorded,omitempty"`

	// Error is a substring the step error must contain. A step with an
	// unexpected error fails the scenario.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the journals of one entity.
type Assertion struct {
	// Type is one of journal_count, detail_keys, details_exclude, details_equal.
	Type string `yaml:"type"`

	// Entity is the "Type#ID" the assertion inspects.
	Entity string `yaml:"entity"`

	// Count is the expected number of journals (journal_count).
	Count int `yaml:"count,omitempty"`

	// Version selects a journal (detail_keys, details_equal); 0 means latest.
	Version int64 `yaml:"version,omitempty"`

	// Keys are the expected (detail_keys) or forbidden (details_exclude)
	// attribute names.
	Keys []string `yaml:"keys,omitempty"`

	// Details is the exact expected details object (details_equal).
	Details map[string]interface{} `yaml:"details,omitempty"`
}

// Step operation constants.
const (
	OpCreate    = "create"
	OpSave      = "save"
	OpReplace   = "replace"
	OpConfigure = "configure"
	OpReset     = "reset"
)

// Assertion type constants.
const (
	AssertJournalCount   = "journal_count"
	AssertDetailKeys     = "detail_keys"
	AssertDetailsExclude = "details_exclude"
	AssertDetailsEqual   = "details_equal"
)

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

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Reject unknown fields (catches typos like "assertion:" vs "assertions:")
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Types) == 0 {
		return fmt.Errorf("types map is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step) error {
	if step.Entity == "" {
		return fmt.Errorf("steps[%d]: entity is required", index)
	}

	switch step.Op {
	case OpCreate, OpSave, OpReplace:
		if _, err := ir.ParseEntityRef(step.Entity); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
	case OpConfigure:
		if strings.Contains(step.Entity, "#") {
			return fmt.Errorf("steps[%d]: configure takes a type name, got %q", index, step.Entity)
		}
		if step.Options == nil {
			return fmt.Errorf("steps[%d]: options is required for configure", index)
		}
	case OpReset:
		if strings.Contains(step.Entity, "#") {
			return fmt.Errorf("steps[%d]: reset takes a type name, got %q", index, step.Entity)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if _, err := ir.ParseEntityRef(a.Entity); err != nil {
		return fmt.Errorf("assertions[%d]: %w", index, err)
	}

	switch a.Type {
	case AssertJournalCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for journal_count", index)
		}
	case AssertDetailKeys:
		if len(a.Keys) == 0 {
			return fmt.Errorf("assertions[%d]: keys is required for detail_keys", index)
		}
	case AssertDetailsExclude:
		if len(a.Keys) == 0 {
			return fmt.Errorf("assertions[%d]: keys is required for details_exclude", index)
		}
	case AssertDetailsEqual:
		if len(a.Details) == 0 {
			return fmt.Errorf("assertions[%d]: details is required for details_equal", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	if a.Version < 0 {
		return fmt.Errorf("assertions[%d]: version must be non-negative", index)
	}
	return nil
}
