package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/journalized/internal/ir"
	"github.com/roach88/journalized/internal/journal"
)

var testConfigDir = filepath.Join("..", "..", "testdata", "config")

// runRoot executes the full command tree and returns stdout.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeData(t *testing.T, out string, data any) {
	t.Helper()
	resp := struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status, out)
	require.NoError(t, json.Unmarshal(resp.Data, data))
}

func decodeError(t *testing.T, out string) CLIError {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "error", resp.Status, out)
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestInitCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := runRoot(t, "init", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Initialized sqlite3 database")

	// Idempotent.
	out, err = runRoot(t, "init", "--db", db, "--format", "json")
	require.NoError(t, err)
	var res InitResult
	decodeData(t, out, &res)
	assert.Equal(t, InitResult{Database: db, Driver: "sqlite3"}, res)
}

func TestInitCommandUnsupportedDriver(t *testing.T) {
	out, err := runRoot(t, "init", "--db", "x", "--driver", "oracle", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeDatabase, decodeError(t, out).Code)
}

func TestCommandsRequireDB(t *testing.T) {
	_, err := runRoot(t, "count", "User", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestEntityLifecycle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")
	common := []string{"--db", db, "--config", testConfigDir, "--format", "json"}

	// Create writes no journal for User.
	out, err := runRoot(t, append([]string{"create", "User", "u1",
		"--attrs", `{"first_name":"Steve","last_name":"Richert","login":"steve"}`}, common...)...)
	require.NoError(t, err)
	var created WriteResult
	decodeData(t, out, &created)
	assert.Equal(t, "User#u1", created.Entity)
	assert.True(t, created.Written)
	assert.False(t, created.Recorded)
	assert.Nil(t, created.Journal)

	// Tracked change journals only the tracked attribute.
	out, err = runRoot(t, append([]string{"update", "User", "u1",
		"--attrs", `{"first_name":"Steven","login":"steven"}`, "--author", "admin", "--notes", "rename"}, common...)...)
	require.NoError(t, err)
	var updated WriteResult
	decodeData(t, out, &updated)
	assert.True(t, updated.Recorded)
	require.NotNil(t, updated.Journal)
	assert.Equal(t, int64(1), updated.Journal.Version)
	assert.Equal(t, ir.Object{"first_name": ir.String("Steven")}, updated.Journal.Details)
	assert.Equal(t, "admin", updated.Journal.Author)
	assert.Equal(t, ir.String("steven"), updated.Attributes["login"])

	// Identical save writes nothing.
	out, err = runRoot(t, "update", "User", "u1", "--attrs", `{"first_name":"Steven"}`,
		"--db", db, "--config", testConfigDir)
	require.NoError(t, err)
	assert.Contains(t, out, "User#u1 unchanged")

	// Untracked change writes the entity without a journal.
	out, err = runRoot(t, "update", "User", "u1", "--attrs", `{"login":"sr"}`,
		"--db", db, "--config", testConfigDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ User#u1 written (no journaled changes)")

	out, err = runRoot(t, "update", "User", "u1", "--attrs", `{"last_name":"Jobs"}`,
		"--db", db, "--config", testConfigDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ User#u1 written, journal v2 [last_name]")

	out, err = runRoot(t, "count", "User", "u1", "--db", db, "--format", "json")
	require.NoError(t, err)
	var count CountResult
	decodeData(t, out, &count)
	assert.Equal(t, CountResult{Entity: "User#u1", Count: 2}, count)

	out, err = runRoot(t, "journals", "User", "u1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Journals for User#u1:")
	assert.Contains(t, out, `v1 {"first_name":"Steven"} by admin (rename)`)
	assert.Contains(t, out, `v2 {"last_name":"Jobs"}`)

	out, err = runRoot(t, "journals", "User", "u1", "--db", db, "--after", "1", "--format", "json")
	require.NoError(t, err)
	var page JournalsResult
	decodeData(t, out, &page)
	require.Len(t, page.Journals, 1)
	assert.Equal(t, int64(2), page.Journals[0].Version)
}

func TestUpdateReplace(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	_, err := runRoot(t, "create", "User", "u1", "--attrs", `{"first_name":"Steve","mail":"s@example.com"}`,
		"--db", db, "--config", testConfigDir)
	require.NoError(t, err)

	out, err := runRoot(t, "update", "User", "u1", "--replace", "--attrs", `{"first_name":"Steven"}`,
		"--db", db, "--config", testConfigDir, "--format", "json")
	require.NoError(t, err)
	var res WriteResult
	decodeData(t, out, &res)
	assert.Equal(t, ir.Object{"first_name": ir.String("Steven")}, res.Attributes)
	require.NotNil(t, res.Journal)
	assert.Equal(t, []string{"first_name"}, res.Journal.DetailKeys())
}

func TestCreateJournalOnCreate(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := runRoot(t, "create", "WorkPackage", "wp1",
		"--attrs", `{"subject":"Fix login","lock_version":0,"created_at":"2024-01-01"}`,
		"--db", db, "--config", testConfigDir, "--format", "json")
	require.NoError(t, err)

	var res WriteResult
	decodeData(t, out, &res)
	assert.True(t, res.Recorded)
	require.NotNil(t, res.Journal)
	assert.Equal(t, int64(1), res.Journal.Version)
	assert.Equal(t, []string{"subject"}, res.Journal.DetailKeys())
}

func TestCreateGeneratedID(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})

	opts := &CreateOptions{
		RootOptions: &RootOptions{Format: "json"},
		DBOptions:   DBOptions{Database: db, Driver: "sqlite3"},
		Config:      testConfigDir,
		Attrs:       `{"name":"Apollo"}`,
		IDGenerator: journal.NewFixedGenerator("0190c1a2-0000-7000-8000-000000000001"),
	}

	require.NoError(t, runCreate(context.Background(), opts, ir.EntityRef{Type: "Project"}, cmd))

	var res WriteResult
	decodeData(t, buf.String(), &res)
	assert.Equal(t, "Project#0190c1a2-0000-7000-8000-000000000001", res.Entity)
}

func TestCommandErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")
	_, err := runRoot(t, "create", "User", "u1", "--db", db, "--config", testConfigDir)
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		exitCode int
		code     string
	}{
		{
			name:     "duplicate create",
			args:     []string{"create", "User", "u1", "--db", db, "--config", testConfigDir},
			exitCode: ExitFailure,
			code:     ErrCodeEntityExists,
		},
		{
			name:     "missing entity",
			args:     []string{"update", "User", "missing", "--attrs", `{"a":1}`, "--db", db, "--config", testConfigDir},
			exitCode: ExitFailure,
			code:     ErrCodeEntityNotFound,
		},
		{
			name:     "type not journaled",
			args:     []string{"create", "Version", "v1", "--db", db, "--config", testConfigDir},
			exitCode: ExitFailure,
			code:     ErrCodeNotJournaled,
		},
		{
			name:     "bad attrs",
			args:     []string{"update", "User", "u1", "--attrs", `[1,2]`, "--db", db, "--config", testConfigDir},
			exitCode: ExitCommandError,
			code:     ErrCodeInvalidInput,
		},
		{
			name:     "missing config",
			args:     []string{"create", "User", "u2", "--db", db, "--config", filepath.Join(t.TempDir(), "none")},
			exitCode: ExitCommandError,
			code:     ErrCodeConfig,
		},
		{
			name:     "negative paging",
			args:     []string{"journals", "User", "u1", "--db", db, "--limit", "-1"},
			exitCode: ExitCommandError,
			code:     ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runRoot(t, append(tt.args, "--format", "json")...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Equal(t, tt.code, decodeError(t, out).Code)
		})
	}
}

func TestJournalsEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := runRoot(t, "journals", "User", "u1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No journals for User#u1")

	out, err = runRoot(t, "journals", "User", "u1", "--db", db, "--format", "json")
	require.NoError(t, err)
	var res JournalsResult
	decodeData(t, out, &res)
	assert.NotNil(t, res.Journals)
	assert.Empty(t, res.Journals)
}

func TestShowAndEntities(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	for _, id := range []string{"u2", "u1"} {
		_, err := runRoot(t, "create", "User", id, "--attrs", `{"first_name":"Steve"}`,
			"--db", db, "--config", testConfigDir)
		require.NoError(t, err)
	}

	out, err := runRoot(t, "update", "User", "u1", "--attrs", `{"first_name":"Steven"}`,
		"--db", db, "--config", testConfigDir, "--format", "json")
	require.NoError(t, err)
	var updated WriteResult
	decodeData(t, out, &updated)
	require.NotNil(t, updated.Journal)

	out, err = runRoot(t, "show", updated.Journal.ID, "--db", db, "--format", "json")
	require.NoError(t, err)
	var shown ir.Journal
	decodeData(t, out, &shown)
	assert.Equal(t, updated.Journal.ID, shown.ID)
	assert.Equal(t, ir.EntityRef{Type: "User", ID: "u1"}, shown.Ref())
	assert.Equal(t, int64(1), shown.Version)

	out, err = runRoot(t, "show", updated.Journal.ID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, `v1 {"first_name":"Steven"}`)
	assert.Contains(t, out, "id "+updated.Journal.ID)

	out, err = runRoot(t, "show", "no-such-id", "--db", db, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeJournalNotFound, decodeError(t, out).Code)

	out, err = runRoot(t, "entities", "User", "--db", db, "--format", "json")
	require.NoError(t, err)
	var listed EntitiesResult
	decodeData(t, out, &listed)
	assert.Equal(t, EntitiesResult{Type: "User", IDs: []string{"u1", "u2"}}, listed)

	out, err = runRoot(t, "entities", "Project", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No Project entities")
}
