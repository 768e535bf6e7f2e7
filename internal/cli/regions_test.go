package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleinerpirat/closet/internal/regions"
)

func TestRegions_Text(t *testing.T) {
	out, err := executeRoot(t, "regions", filepath.Join("testdata", "deck.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "[3, 42) outer\n  [10, 22) inner\n", out)
}

func TestRegions_JSON(t *testing.T) {
	out, err := executeRoot(t, "--format", "json", "regions", filepath.Join("testdata", "deck.yaml"))
	require.NoError(t, err)

	var resp struct {
		Data []*regions.Node `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)

	outer := resp.Data[0]
	assert.Equal(t, 3, outer.Start)
	assert.Equal(t, 42, outer.End)
	assert.Equal(t, "outer", outer.Elements)
	require.Len(t, outer.Inner, 1)
	assert.Equal(t, 10, outer.Inner[0].Start)
	assert.Equal(t, 22, outer.Inner[0].End)
}

func TestRegions_NoEvents(t *testing.T) {
	out, err := executeRoot(t, "regions", filepath.Join("testdata", "unknown.yaml"))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRegions_UnclosedRegion(t *testing.T) {
	_, err := executeRoot(t, "regions", filepath.Join("testdata", "unclosed.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid region events")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRegions_MissingDocument(t *testing.T) {
	_, err := executeRoot(t, "regions", "missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
