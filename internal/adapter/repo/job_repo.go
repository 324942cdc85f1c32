package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository using PostgreSQL.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repo.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// Create inserts a new job posting.
func (r *JobRepositoryPG) Create(ctx context.Context, j *domain.Job) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO jobs (id, title, description, company, location, salary, type, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`, j.ID, j.Title, j.Description, j.Company, j.Location, j.Salary, string(j.Type), j.CreatedAt, j.UpdatedAt)
	return err
}

// GetByID returns one job posting.
func (r *JobRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, title, description, company, location, salary, type, created_at, updated_at
FROM jobs
WHERE id = $1;
`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return j, nil
}

// List returns postings, optionally narrowed to one type, newest first.
func (r *JobRepositoryPG) List(ctx context.Context, jobType domain.JobType) ([]domain.Job, error) {
	query := `
SELECT id, title, description, company, location, salary, type, created_at, updated_at
FROM jobs
ORDER BY created_at DESC;
`
	var args []any
	if jobType != "" {
		query = `
SELECT id, title, description, company, location, salary, type, created_at, updated_at
FROM jobs
WHERE type = $1
ORDER BY created_at DESC;
`
		args = append(args, string(jobType))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update rewrites the posting fields.
func (r *JobRepositoryPG) Update(ctx context.Context, j *domain.Job) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE jobs
SET title = $2, description = $3, company = $4, location = $5, salary = $6, type = $7, updated_at = $8
WHERE id = $1;
`, j.ID, j.Title, j.Description, j.Company, j.Location, j.Salary, string(j.Type), j.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the posting.
func (r *JobRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	var jobType string
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Company, &j.Location, &j.Salary, &jobType, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	j.Type = domain.JobType(jobType)
	return &j, nil
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
