package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperclip-lang/paperclip/internal/fsx"
)

func TestUpdateFileFirstCallEmitsInitial(t *testing.T) {
	fs := fsx.NewMem(map[string]string{"a.pc": ""})
	s := NewState(nil, false)

	res, err := s.UpdateFile(fs, "a.pc", `public component App { render div { text "hi" } }`, ".")
	require.NoError(t, err)
	assert.True(t, res.Initial)
	assert.Equal(t, 1, res.Version)
	require.NotNil(t, res.Document)
	require.Len(t, res.Document.Nodes, 1)
}

func TestUpdateFileSecondCallEmitsIncrementalPatches(t *testing.T) {
	fs := fsx.NewMem(map[string]string{"a.pc": ""})
	s := NewState(nil, false)

	_, err := s.UpdateFile(fs, "a.pc", `public component App { render div { text "hi" } }`, ".")
	require.NoError(t, err)

	res, err := s.UpdateFile(fs, "a.pc", `public component App { render div { text "bye" } }`, ".")
	require.NoError(t, err)
	assert.False(t, res.Initial)
	assert.Equal(t, 2, res.Version)
	assert.NotEmpty(t, res.Patches)
}

func TestUpdateFileParseFailurePreservesCache(t *testing.T) {
	fs := fsx.NewMem(map[string]string{"a.pc": ""})
	s := NewState(nil, false)

	_, err := s.UpdateFile(fs, "a.pc", `public component App { render div { text "hi" } }`, ".")
	require.NoError(t, err)

	_, err = s.UpdateFile(fs, "a.pc", `public component App { render div {`, ".")
	require.Error(t, err)

	paths := s.Bundle.Paths()
	require.Len(t, paths, 1)

	doc, _, found := s.Get(paths[0])
	require.True(t, found)
	require.Len(t, doc.Nodes, 1)
	assert.Contains(t, doc.Nodes[0].Children[0].Content, "hi")
}
