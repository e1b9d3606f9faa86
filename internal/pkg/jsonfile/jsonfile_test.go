package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")

	require.NoError(t, Save(path, []doc{{Name: "a", Count: 1}}))

	var got []doc
	found, err := Load(path, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []doc{{Name: "a", Count: 1}}, got)
}

func TestLoad_MissingOrEmpty(t *testing.T) {
	dir := t.TempDir()

	var got []doc
	found, err := Load(filepath.Join(dir, "missing.json"), &got)
	require.NoError(t, err)
	assert.False(t, found)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))
	found, err = Load(empty, &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var got []doc
	_, err := Load(path, &got)
	assert.Error(t, err)
}
