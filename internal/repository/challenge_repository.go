package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/techquest/techquest-backend/internal/model"
)

// ErrChallengeNotFound is returned when a challenge id does not resolve.
var ErrChallengeNotFound = errors.New("challenge not found")

// ChallengeRepository handles challenge data access.
type ChallengeRepository struct {
	pool *pgxpool.Pool
}

// NewChallengeRepository creates a new ChallengeRepository.
func NewChallengeRepository(pool *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{pool: pool}
}

const challengeColumns = `id, category, level, title, description, type,
	COALESCE(initial_code, ''), COALESCE(expected_code, ''), concepts,
	COALESCE(learning_content, ''), COALESCE(status, '')`

func scanChallenge(row pgx.Row) (model.Challenge, error) {
	var c model.Challenge
	err := row.Scan(&c.ID, &c.Category, &c.Level, &c.Title, &c.Description,
		&c.Type, &c.InitialCode, &c.ExpectedCode, &c.Concepts,
		&c.LearningContent, &c.Status)
	return c, err
}

// ListRandom returns a random sample without replacement of approved (or
// legacy status-less) challenges for a level, excluding the given ids.
// Sample size is min(count, pool size); ordering carries no guarantee
// beyond "random" and is not reproducible between calls.
func (r *ChallengeRepository) ListRandom(ctx context.Context, level model.Level, count int, exclude []string) ([]model.Challenge, error) {
	if exclude == nil {
		exclude = []string{}
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+challengeColumns+`
		 FROM challenges
		 WHERE level = $1
		   AND (status = 'approved' OR status IS NULL OR status = '')
		   AND id <> ALL($3)
		 ORDER BY random()
		 LIMIT $2`,
		level, count, exclude,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

// CountPool counts the approved (or legacy status-less) challenges for a
// level — the pool the replenishment threshold is measured against.
func (r *ChallengeRepository) CountPool(ctx context.Context, level model.Level) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM challenges
		 WHERE level = $1 AND (status = 'approved' OR status IS NULL OR status = '')`,
		level,
	).Scan(&n)
	return n, err
}

// GetByID fetches a single challenge regardless of status.
func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (model.Challenge, error) {
	c, err := scanChallenge(r.pool.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Challenge{}, ErrChallengeNotFound
	}
	return c, err
}

// Create inserts a new challenge. Duplicate ids are a conflict, not an upsert.
func (r *ChallengeRepository) Create(ctx context.Context, c *model.Challenge) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO challenges
		   (id, category, level, title, description, type, initial_code, expected_code, concepts, learning_content, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.Category, c.Level, c.Title, c.Description, c.Type,
		c.InitialCode, c.ExpectedCode, c.Concepts, c.LearningContent, c.Status,
	)
	return err
}

// Upsert inserts a challenge or silently overwrites the record with the
// same id. Generated content is keyed by model-produced ids, so duplicate
// ids across seeding runs replace rather than accumulate.
func (r *ChallengeRepository) Upsert(ctx context.Context, c *model.Challenge) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO challenges
		   (id, category, level, title, description, type, initial_code, expected_code, concepts, learning_content, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
		   category = EXCLUDED.category,
		   level = EXCLUDED.level,
		   title = EXCLUDED.title,
		   description = EXCLUDED.description,
		   type = EXCLUDED.type,
		   initial_code = EXCLUDED.initial_code,
		   expected_code = EXCLUDED.expected_code,
		   concepts = EXCLUDED.concepts,
		   learning_content = EXCLUDED.learning_content,
		   status = EXCLUDED.status,
		   updated_at = NOW()`,
		c.ID, c.Category, c.Level, c.Title, c.Description, c.Type,
		c.InitialCode, c.ExpectedCode, c.Concepts, c.LearningContent, c.Status,
	)
	return err
}

// ListPending returns challenges awaiting admin review, oldest first.
func (r *ChallengeRepository) ListPending(ctx context.Context) ([]model.Challenge, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+challengeColumns+`
		 FROM challenges WHERE status = 'pending'
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

// Approve applies the admin's edits and flips the status to approved.
func (r *ChallengeRepository) Approve(ctx context.Context, id string, req *model.ApproveChallengeRequest) (model.Challenge, error) {
	c, err := scanChallenge(r.pool.QueryRow(ctx,
		`UPDATE challenges SET
		   title = $2,
		   description = $3,
		   learning_content = $4,
		   concepts = $5,
		   initial_code = $6,
		   expected_code = $7,
		   category = COALESCE(NULLIF($8, ''), category),
		   status = 'approved',
		   updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+challengeColumns,
		id, req.Title, req.Description, req.LearningContent, req.Concepts,
		req.InitialCode, req.ExpectedCode, req.Category,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Challenge{}, ErrChallengeNotFound
	}
	return c, err
}

// CountAll counts every challenge regardless of level or status.
func (r *ChallengeRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM challenges`).Scan(&n)
	return n, err
}

// SampleOne returns any single challenge, used by the status endpoint as
// a cheap liveness probe of the collection.
func (r *ChallengeRepository) SampleOne(ctx context.Context) (model.Challenge, error) {
	c, err := scanChallenge(r.pool.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenges LIMIT 1`,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Challenge{}, ErrChallengeNotFound
	}
	return c, err
}
