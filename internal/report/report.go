// Package report evaluates every person on the roster and assembles the
// profile views and summary the exporters consume.
package report

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"cert-roster/internal/concurrency"
	"cert-roster/internal/domain"
	"cert-roster/internal/logging"
	"cert-roster/internal/qualification"
	"cert-roster/internal/roster"
)

// Options tunes Build.
type Options struct {
	// Workers bounds parallel evaluation; <= 0 uses the pool default.
	Workers int
	// Statuses keeps only people in these statuses. Empty keeps everyone.
	Statuses []domain.PersonStatus
	Logger   *zap.Logger
	// Now is injectable for tests.
	Now func() time.Time
}

// Profile is one person's view: verdicts per held title plus the full
// certification history, expired records included.
type Profile struct {
	Person         *domain.Person
	Results        []qualification.Result
	Certifications []domain.Certification
}

// Qualified reports whether the person is qualified for every held title.
func (p Profile) Qualified() bool {
	for _, r := range p.Results {
		if !r.Qualified {
			return false
		}
	}
	return true
}

type Report struct {
	ID          ulid.ULID
	GeneratedAt time.Time
	Profiles    []Profile
}

// Summary counts people and title verdicts.
type Summary struct {
	People       int
	Titles       int
	Qualified    int
	NotQualified int
}

func (r *Report) Summary() Summary {
	var s Summary
	s.People = len(r.Profiles)
	for _, p := range r.Profiles {
		for _, res := range p.Results {
			s.Titles++
			if res.Qualified {
				s.Qualified++
			} else {
				s.NotQualified++
			}
		}
	}
	return s
}

// Build resolves and evaluates every person in idx. Profiles keep snapshot
// order. Any invalid-argument error fails the whole build; it is never
// reported as "not qualified".
func Build(ctx context.Context, idx *roster.Index, opts Options) (*Report, error) {
	if idx == nil {
		return nil, fmt.Errorf("report: %w: nil index", qualification.ErrInvalidArgument)
	}
	logger := logging.OrNop(opts.Logger)
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	ids := filterIDs(idx, opts.Statuses)
	start := time.Now()

	profiles, errs := concurrency.ProcessParallel(ctx, ids, concurrency.ParallelOptions{MaxWorkers: opts.Workers},
		func(ctx context.Context, i int, id string) (Profile, error) {
			p, err := BuildProfile(idx, id)
			if err != nil {
				return Profile{}, err
			}
			logger.Debug("evaluated person",
				zap.String("person_id", id),
				zap.Int("titles", len(p.Results)),
				zap.Bool("qualified", p.Qualified()),
			)
			return p, nil
		})
	if len(errs) > 0 {
		return nil, fmt.Errorf("report: %w", errors.Join(errs...))
	}

	generated := now().UTC()
	rep := &Report{
		ID:          ulid.MustNew(ulid.Timestamp(generated), rand.Reader),
		GeneratedAt: generated,
		Profiles:    profiles,
	}

	sum := rep.Summary()
	logger.Info("report built",
		zap.String("report_id", rep.ID.String()),
		zap.Int("people", sum.People),
		zap.Int("titles", sum.Titles),
		zap.Int("qualified", sum.Qualified),
		zap.Int("not_qualified", sum.NotQualified),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rep, nil
}

// BuildProfile resolves one person and evaluates each held title.
func BuildProfile(idx *roster.Index, personID string) (Profile, error) {
	p, err := idx.Person(personID)
	if err != nil {
		return Profile{}, err
	}
	results, err := qualification.EvaluatePerson(p)
	if err != nil {
		return Profile{}, fmt.Errorf("person %s: %w", personID, err)
	}

	history := make([]domain.Certification, 0, len(p.Certifications))
	for _, c := range p.Certifications {
		if c.Displayable() {
			history = append(history, c)
		}
	}
	return Profile{Person: p, Results: results, Certifications: history}, nil
}

func filterIDs(idx *roster.Index, statuses []domain.PersonStatus) []string {
	ids := idx.PersonIDs()
	if len(statuses) == 0 {
		return ids
	}
	keep := map[domain.PersonStatus]bool{}
	for _, s := range statuses {
		keep[s] = true
	}

	out := ids[:0]
	for _, id := range ids {
		p, err := idx.Person(id)
		if err != nil {
			continue
		}
		if keep[p.Status] {
			out = append(out, id)
		}
	}
	return out
}
