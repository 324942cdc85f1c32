package domain

import "context"

// CampaignRepository is the document store for campaigns: each campaign is
// read and written as a whole, backings array included. Replace is the
// conditional write used for the append path; it must fail with
// ErrVersionConflict when the stored version no longer matches expected.
type CampaignRepository interface {
	Insert(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	List(ctx context.Context) ([]Campaign, error)
	Replace(ctx context.Context, c *Campaign, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}

// ProductRepository handles listing persistence.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

// JobRepository handles job posting persistence.
type JobRepository interface {
	Create(ctx context.Context, j *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context, jobType JobType) ([]Job, error)
	Update(ctx context.Context, j *Job) error
	Delete(ctx context.Context, id string) error
}
