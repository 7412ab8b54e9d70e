package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenario = `
name: basic
description: "one save"
types:
  User:
    only: [first_name]
steps:
  - op: create
    entity: User#u1
    attributes: { first_name: Steve }
  - op: save
    entity: User#u1
    attributes: { first_name: Steven }
    expect: { recorded: true }
assertions:
  - type: journal_count
    entity: User#u1
    count: 1
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(validScenario))
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	assert.Equal(t, []string{"first_name"}, s.Types["User"].Only)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, OpSave, s.Steps[1].Op)
	require.NotNil(t, s.Steps[1].Expect)
	require.NotNil(t, s.Steps[1].Expect.Recorded)
	assert.True(t, *s.Steps[1].Expect.Recorded)
	assert.Nil(t, s.Steps[1].Expect.Written)
	assert.Equal(t, "Steven", s.Steps[1].Attributes["first_name"])
}

func TestParseScenarioEmptyOnlyIsNotNil(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: empty_only
description: "only: [] tracks nothing"
types:
  User:
    only: []
steps:
  - op: create
    entity: User#u1
assertions:
  - type: journal_count
    entity: User#u1
    count: 0
`))
	require.NoError(t, err)

	opts := s.Types["User"].Options()
	assert.NotNil(t, opts.Only)
	assert.Empty(t, opts.Only)

	none, err := ParseScenario([]byte(validScenario))
	require.NoError(t, err)
	none.Types["User"] = TypeSpec{}
	assert.Nil(t, none.Types["User"].Options().Only)
}

func TestParseScenarioRejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "misspelled key"
types: { User: {} }
steps:
  - op: create
    entity: User#u1
assertion:
  - type: journal_count
    entity: User#u1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenarioValidation(t *testing.T) {
	const header = "name: x\ndescription: y\ntypes: { User: {} }\n"
	const okSteps = "steps:\n  - { op: create, entity: User#u1 }\n"
	const okAssertions = "assertions:\n  - { type: journal_count, entity: User#u1, count: 0 }\n"

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing name", "description: y\ntypes: { User: {} }\n" + okSteps + okAssertions, "name is required"},
		{"missing description", "name: x\ntypes: { User: {} }\n" + okSteps + okAssertions, "description is required"},
		{"missing types", "name: x\ndescription: y\n" + okSteps + okAssertions, "types map is required"},
		{"missing steps", header + okAssertions, "steps list is required"},
		{"missing assertions", header + okSteps, "assertions list is required"},
		{"missing op", header + "steps:\n  - { entity: User#u1 }\n" + okAssertions, "op is required"},
		{"unknown op", header + "steps:\n  - { op: delete, entity: User#u1 }\n" + okAssertions, `unknown op "delete"`},
		{"bad entity", header + "steps:\n  - { op: save, entity: User }\n" + okAssertions, "want Type#ID"},
		{"configure with id", header + "steps:\n  - { op: configure, entity: User#u1, options: {} }\n" + okAssertions, "configure takes a type name"},
		{"configure without options", header + "steps:\n  - { op: configure, entity: User }\n" + okAssertions, "options is required"},
		{"reset with id", header + "steps:\n  - { op: reset, entity: User#u1 }\n" + okAssertions, "reset takes a type name"},
		{"unknown assertion", header + okSteps + "assertions:\n  - { type: trace_order, entity: User#u1 }\n", `unknown assertion type "trace_order"`},
		{"detail_keys without keys", header + okSteps + "assertions:\n  - { type: detail_keys, entity: User#u1 }\n", "keys is required"},
		{"details_equal without details", header + okSteps + "assertions:\n  - { type: details_equal, entity: User#u1 }\n", "details is required"},
		{"negative count", header + okSteps + "assertions:\n  - { type: journal_count, entity: User#u1, count: -1 }\n", "count must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validScenario), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "basic", s.Name)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
