package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugCmd(t *testing.T) {
	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"slug", "Café", "Noir:", "Director's", "Cut"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "cafe-noir-directors-cut\n", out.String())
}

func TestSlugsCmdNoConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"slugs"})

	assert.Error(t, cmd.Execute())
}
