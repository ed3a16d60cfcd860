package roster

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"cert-roster/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a fresh database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(Schema)
	require.NoError(t, err)
	return db
}

func TestLoadSQL(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO departments (id, name) VALUES ('d-police', 'Police')`,
		`INSERT INTO people (id, firstname, lastname, status, department_id) VALUES ('p-cj', 'CJ', 'Test', 'Active', 'd-police')`,
		`INSERT INTO people (id, firstname) VALUES ('p-oscar', 'Oscar')`,
		`INSERT INTO channels (id, person_id, channel_type, category, content) VALUES ('ch-1', 'p-cj', 'Phone', 'Mobile Phone', '+19785551212')`,
		`INSERT INTO titles (id, name) VALUES ('t-po', 'Police Officer')`,
		`INSERT INTO skills (id, name) VALUES ('s-driving', 'Driving'), ('s-frfa', 'FRFA')`,
		`INSERT INTO courses (id, name) VALUES ('c-massdl', 'Mass DL'), ('c-frfa', 'FRFA')`,
		`INSERT INTO certifications (id, person_id, course_id, status) VALUES ('cert-1', 'p-cj', 'c-frfa', 'Active')`,
		`INSERT INTO certifications (id, person_id, course_id) VALUES ('cert-2', 'p-cj', 'c-massdl')`,
		`INSERT INTO people_titles (person_id, title_id) VALUES ('p-cj', 't-po')`,
		`INSERT INTO skills_titles (title_id, skill_id, position) VALUES ('t-po', 's-frfa', 2), ('t-po', 's-driving', 1)`,
		`INSERT INTO courses_skills (skill_id, course_id) VALUES ('s-driving', 'c-massdl'), ('s-frfa', 'c-frfa')`,
	}
	for _, q := range stmts {
		_, err := db.Exec(q)
		require.NoError(t, err, q)
	}

	s, err := LoadSQL(context.Background(), db)
	require.NoError(t, err)
	assert.Len(t, s.People, 2)
	assert.Len(t, s.Certifications, 2)

	idx, err := s.Index()
	require.NoError(t, err)

	p, err := idx.Person("p-cj")
	require.NoError(t, err)
	assert.Equal(t, "Police", p.Department)
	require.Len(t, p.Titles, 1)
	require.Len(t, p.Titles[0].Skills, 2)
	assert.Equal(t, "Driving", p.Titles[0].Skills[0].Name)
	assert.Equal(t, domain.CertUnspecified, p.Certifications[1].Status)

	oscar, err := idx.Person("p-oscar")
	require.NoError(t, err)
	assert.Equal(t, domain.PersonActive, oscar.Status)
	assert.Empty(t, oscar.Department)
}

func TestLoadSQLMissingTables(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = LoadSQL(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roster: load departments")
}
