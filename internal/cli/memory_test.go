package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderDeck renders testdata/deck.yaml into a fresh database and returns
// its path.
func renderDeck(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	_, err := executeRoot(t, "render", "--db", dbPath, "--seed", "5", filepath.Join("testdata", "deck.yaml"))
	require.NoError(t, err)
	return dbPath
}

func TestMemoryShow(t *testing.T) {
	dbPath := renderDeck(t)

	out, err := executeRoot(t, "memory", "show", "--db", dbPath, "--session", "deck")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "mix1\t["), "got %q", lines[0])
}

func TestMemoryShow_JSON(t *testing.T) {
	dbPath := renderDeck(t)

	out, err := executeRoot(t, "--format", "json", "memory", "show", "--db", dbPath, "--session", "deck")
	require.NoError(t, err)

	var resp struct {
		Data MemoryOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "deck", resp.Data.Session)
	require.Len(t, resp.Data.Entries, 1)
	assert.Equal(t, "mix1", resp.Data.Entries[0].Key)

	var keys []float64
	require.NoError(t, json.Unmarshal([]byte(resp.Data.Entries[0].Value), &keys))
	assert.Len(t, keys, 6)
}

func TestMemoryShow_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	out, err := executeRoot(t, "memory", "show", "--db", dbPath, "--session", "ghost")
	require.NoError(t, err)
	assert.Equal(t, "session ghost has no memory\n", out)
}

func TestMemoryShow_RequiresSession(t *testing.T) {
	_, err := executeRoot(t, "memory", "show", "--db", filepath.Join(t.TempDir(), "test.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--session is required")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMemoryClear(t *testing.T) {
	dbPath := renderDeck(t)

	out, err := executeRoot(t, "memory", "clear", "--db", dbPath, "--session", "deck")
	require.NoError(t, err)
	assert.Equal(t, "cleared 1 entries from session deck\n", out)

	out, err = executeRoot(t, "memory", "show", "--db", dbPath, "--session", "deck")
	require.NoError(t, err)
	assert.Equal(t, "session deck has no memory\n", out)
}

func TestMemorySessions(t *testing.T) {
	dbPath := renderDeck(t)
	_, err := executeRoot(t, "render", "--db", dbPath, "--session", "another", filepath.Join("testdata", "deck.yaml"))
	require.NoError(t, err)

	out, err := executeRoot(t, "memory", "sessions", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "another\ndeck\n", out)

	// History keeps a session listed after its memory is cleared.
	_, err = executeRoot(t, "memory", "clear", "--db", dbPath, "--session", "deck")
	require.NoError(t, err)
	out, err = executeRoot(t, "--format", "json", "memory", "sessions", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"another", "deck"}, resp.Data)
}
