package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cert-roster/internal/report"
	"cert-roster/internal/roster"
)

func buildReport(t *testing.T) *report.Report {
	t.Helper()
	s, err := roster.LoadFile("../roster/testdata/roster.json")
	require.NoError(t, err)
	idx, err := s.Index()
	require.NoError(t, err)

	rep, err := report.Build(context.Background(), idx, report.Options{
		Now: func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return rep
}
