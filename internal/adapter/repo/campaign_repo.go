package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/internal/domain"
)

// CampaignRepositoryPG implements domain.CampaignRepository backed by
// PostgreSQL. Each campaign is one row: scalar columns plus the creator
// snapshot and the backing ledger as jsonb documents. The version column
// carries the optimistic-concurrency token for conditional replaces.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new CampaignRepositoryPG.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

// Insert stores a new campaign row.
func (r *CampaignRepositoryPG) Insert(ctx context.Context, c *domain.Campaign) error {
	creator, backings, err := encodeDocuments(c)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO campaigns (id, title, description, image, goal_amount, creator, backings, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`, c.ID, c.Title, c.Description, c.Image, c.GoalAmount, creator, backings, c.Version, c.CreatedAt, c.UpdatedAt)
	return err
}

// GetByID loads one campaign document, ledger included.
func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, title, description, image, goal_amount, creator, backings, version, created_at, updated_at
FROM campaigns
WHERE id = $1;
`, id)
	c, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all campaigns, newest first.
func (r *CampaignRepositoryPG) List(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, title, description, image, goal_amount, creator, backings, version, created_at, updated_at
FROM campaigns
ORDER BY created_at DESC, id;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Replace writes the whole document in one statement, conditioned on the
// version the caller observed when it loaded the row. Zero rows affected
// means somebody else got there first.
func (r *CampaignRepositoryPG) Replace(ctx context.Context, c *domain.Campaign, expectedVersion int64) error {
	creator, backings, err := encodeDocuments(c)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE campaigns
SET title = $2,
    description = $3,
    image = $4,
    goal_amount = $5,
    creator = $6,
    backings = $7,
    version = $8,
    updated_at = $9
WHERE id = $1 AND version = $10;
`, c.ID, c.Title, c.Description, c.Image, c.GoalAmount, creator, backings, c.Version, c.UpdatedAt, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// Delete removes the campaign row; the embedded ledger goes with it.
func (r *CampaignRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func encodeDocuments(c *domain.Campaign) ([]byte, []byte, error) {
	creator, err := json.Marshal(c.Creator)
	if err != nil {
		return nil, nil, fmt.Errorf("encode creator: %w", err)
	}
	entries := c.Backings
	if entries == nil {
		entries = []domain.BackingEntry{}
	}
	backings, err := json.Marshal(entries)
	if err != nil {
		return nil, nil, fmt.Errorf("encode backings: %w", err)
	}
	return creator, backings, nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	var creator, backings []byte
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Image, &c.GoalAmount,
		&creator, &backings, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(creator, &c.Creator); err != nil {
		return nil, fmt.Errorf("decode creator: %w", err)
	}
	if err := json.Unmarshal(backings, &c.Backings); err != nil {
		return nil, fmt.Errorf("decode backings: %w", err)
	}
	if c.Backings == nil {
		c.Backings = []domain.BackingEntry{}
	}
	return &c, nil
}

var _ domain.CampaignRepository = (*CampaignRepositoryPG)(nil)
