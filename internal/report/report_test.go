package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cert-roster/internal/domain"
	"cert-roster/internal/qualification"
	"cert-roster/internal/roster"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

func loadIndex(t *testing.T) *roster.Index {
	t.Helper()
	s, err := roster.LoadFile("../roster/testdata/roster.json")
	require.NoError(t, err)
	idx, err := s.Index()
	require.NoError(t, err)
	return idx
}

func TestBuild(t *testing.T) {
	idx := loadIndex(t)

	rep, err := Build(context.Background(), idx, Options{Workers: 2, Logger: zap.NewNop(), Now: fixedNow})
	require.NoError(t, err)

	assert.Equal(t, fixedNow(), rep.GeneratedAt)
	assert.Equal(t, uint64(fixedNow().UnixMilli()), rep.ID.Time())
	require.Len(t, rep.Profiles, 3)

	cj := rep.Profiles[0]
	assert.Equal(t, "p-cj", cj.Person.ID)
	require.Len(t, cj.Results, 1)
	assert.False(t, cj.Results[0].Qualified)
	assert.Equal(t, []string{"Driving"}, cj.Results[0].MissingSkillNames())
	assert.False(t, cj.Qualified())
	require.Len(t, cj.Certifications, 2, "expired certifications stay in the history")

	sierra := rep.Profiles[1]
	require.Len(t, sierra.Results, 2)
	assert.True(t, sierra.Results[0].Qualified)
	assert.True(t, sierra.Results[1].Qualified)
	assert.True(t, sierra.Qualified())

	adam := rep.Profiles[2]
	assert.Empty(t, adam.Results)
	assert.True(t, adam.Qualified())

	want := Summary{People: 3, Titles: 3, Qualified: 2, NotQualified: 1}
	if diff := cmp.Diff(want, rep.Summary()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildStatusFilter(t *testing.T) {
	idx := loadIndex(t)

	rep, err := Build(context.Background(), idx, Options{Statuses: []domain.PersonStatus{domain.PersonApplicant}})
	require.NoError(t, err)
	require.Len(t, rep.Profiles, 1)
	assert.Equal(t, "p-adam", rep.Profiles[0].Person.ID)

	rep, err = Build(context.Background(), idx, Options{Statuses: []domain.PersonStatus{domain.PersonActive}})
	require.NoError(t, err)
	assert.Len(t, rep.Profiles, 2)
}

func TestBuildNilIndex(t *testing.T) {
	_, err := Build(context.Background(), nil, Options{})
	require.ErrorIs(t, err, qualification.ErrInvalidArgument)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, loadIndex(t), Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildProfileNotFound(t *testing.T) {
	_, err := BuildProfile(loadIndex(t), "p-nobody")
	require.ErrorIs(t, err, roster.ErrNotFound)
}

func TestWriteProfile(t *testing.T) {
	p, err := BuildProfile(loadIndex(t), "p-cj")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteProfile(&buf, p))

	want := `CJ Test
Status: Active
Department: Police
Start Date: 2019-06-01
Mobile Phone: +19785551212

Titles
  NOT qualified for Police Officer
    Missing skills: Driving

Certifications
  FRFA (Active)
  Basket Weaving (Expired) expires 2023-12-31
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteProfileQualified(t *testing.T) {
	p, err := BuildProfile(loadIndex(t), "p-sierra")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteProfile(&buf, p))

	out := buf.String()
	assert.Contains(t, out, "Qualified for Police Officer")
	assert.Contains(t, out, "Qualified for Volunteer")
	assert.NotContains(t, out, "NOT qualified")
	assert.NotContains(t, out, "Missing skills")
}

func TestWriteProfileWithoutPerson(t *testing.T) {
	require.Error(t, WriteProfile(&bytes.Buffer{}, Profile{}))
}
