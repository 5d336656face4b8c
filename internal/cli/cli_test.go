package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes one stampctl invocation against dbPath and returns its output
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAddListAndStats(t *testing.T) {
	db := filepath.Join(t.TempDir(), "stamps.db")

	out, err := run(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No stamps in the catalog.")

	out, err = run(t, db, "add", "--scott", "US001", "--description", "Washington",
		"--country", "USA", "--year", "1932", "--qty-mint", "1", "--value-mint", "5.00")
	require.NoError(t, err)
	assert.Contains(t, out, "Added stamp 1 (US001).")

	out, err = run(t, db, "add", "--scott", "US002", "--description", "Franklin",
		"--used", "--qty-used", "2", "--value-used", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Added stamp 2 (US002).")

	out, err = run(t, db, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Washington")
	assert.Contains(t, lines[1], "5.00")
	assert.Contains(t, lines[2], "used")
	assert.Contains(t, lines[2], "10.00")

	out, err = run(t, db, "stats")
	require.NoError(t, err)
	assert.Regexp(t, `Total stamps:\s+2`, out)
	assert.Regexp(t, `Catalog value:\s+15\.00`, out)
	assert.Regexp(t, `Average value:\s+7\.50`, out)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	db := filepath.Join(t.TempDir(), "stamps.db")

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing description", []string{"add", "--scott", "1"}, "description is required"},
		{"bad amount", []string{"add", "--scott", "1", "--description", "x", "--value-mint", "lots"}, "catalog_value_mint must be a decimal amount"},
		{"bad date", []string{"add", "--scott", "1", "--description", "x", "--acquired", "yesterday"}, "date_acquired must be a date"},
		{"negative quantity", []string{"add", "--scott", "1", "--description", "x", "--qty-mint", "-2"}, "qty_mint must be at least 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, db, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	out, err := run(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No stamps in the catalog.")
}

func TestSearch(t *testing.T) {
	db := filepath.Join(t.TempDir(), "stamps.db")

	_, err := run(t, db, "add", "--scott", "A", "--description", "old", "--year", "1990")
	require.NoError(t, err)
	_, err = run(t, db, "add", "--scott", "B", "--description", "newer", "--year", "1995", "--used")
	require.NoError(t, err)

	out, err := run(t, db, "search", "--year-from", "1992", "--year-to", "1998")
	require.NoError(t, err)
	assert.Contains(t, out, "newer")
	assert.NotContains(t, out, "old")

	out, err = run(t, db, "search", "--used-only")
	require.NoError(t, err)
	assert.Contains(t, out, "newer")
	assert.NotContains(t, out, "old")

	out, err = run(t, db, "search", "--country", "Atlantis")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching stamps.")
}

func TestUpdateKeepsUnflaggedFields(t *testing.T) {
	db := filepath.Join(t.TempDir(), "stamps.db")

	_, err := run(t, db, "add", "--scott", "65", "--description", "Washington 3c",
		"--country", "USA", "--qty-mint", "4", "--value-mint", "0.25")
	require.NoError(t, err)

	out, err := run(t, db, "update", "1", "--qty-mint", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated stamp 1.")

	out, err = run(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Washington 3c")
	assert.Contains(t, out, "USA")
	assert.Contains(t, out, "1.50")

	_, err = run(t, db, "update", "7", "--qty-mint", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stamp 7 not found")

	_, err = run(t, db, "update", "1", "--description", " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description is required")
}

func TestDelete(t *testing.T) {
	db := filepath.Join(t.TempDir(), "stamps.db")

	_, err := run(t, db, "add", "--scott", "1", "--description", "doomed")
	require.NoError(t, err)

	out, err := run(t, db, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted stamp 1.")

	// Deleting again is not an error
	_, err = run(t, db, "delete", "1")
	require.NoError(t, err)

	_, err = run(t, db, "delete", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid stamp id "abc"`)

	out, err = run(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No stamps in the catalog.")
}
