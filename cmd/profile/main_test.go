package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cert-roster/internal/config"
	"cert-roster/internal/roster"
)

var cfg = config.Config{RosterPath: "../../internal/roster/testdata/roster.json"}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), &buf, cfg, "p-sierra"))
	assert.Contains(t, buf.String(), "Sierra Smith\n")
	assert.Contains(t, buf.String(), "Qualified for Volunteer")
}

func TestRunErrors(t *testing.T) {
	err := run(context.Background(), &bytes.Buffer{}, cfg, "")
	require.Error(t, err)

	err = run(context.Background(), &bytes.Buffer{}, cfg, "p-nobody")
	require.ErrorIs(t, err, roster.ErrNotFound)
}
