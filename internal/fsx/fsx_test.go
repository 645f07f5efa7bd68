package fsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemFileSystem(t *testing.T) {
	m := NewMem(map[string]string{
		"foo.pc":         "public token a #000000",
		"sub/bar.pc":     "component B {}",
	})

	assert.True(t, m.Exists("foo.pc"))
	assert.False(t, m.Exists("missing.pc"))

	content, err := m.ReadToString("foo.pc")
	require.NoError(t, err)
	assert.Equal(t, "public token a #000000", content)

	content, err = m.ReadToString("./sub/bar.pc")
	require.NoError(t, err)
	assert.Equal(t, "component B {}", content)

	_, err = m.ReadToString("nope.pc")
	assert.Error(t, err)

	canon, err := m.Canonicalize("./foo.pc")
	require.NoError(t, err)
	assert.Equal(t, "foo.pc", canon)
}
