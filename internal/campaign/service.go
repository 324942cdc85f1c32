// Package campaign owns the campaign aggregate: it is the only component
// allowed to mutate a campaign's backing ledger, and every mutation goes
// through a load-modify-conditional-write sequence against the repository.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marketplace/internal/domain"
	"marketplace/internal/ledger"
)

// DefaultMaxRetries bounds how often an append is retried after losing a
// version race before the conflict is surfaced to the caller.
const DefaultMaxRetries = 5

type Service struct {
	repo       domain.CampaignRepository
	logger     zerolog.Logger
	maxRetries int
}

func NewService(repo domain.CampaignRepository, logger zerolog.Logger, maxRetries int) *Service {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Service{repo: repo, logger: logger, maxRetries: maxRetries}
}

// Create validates the spec and inserts a new campaign with an empty ledger.
func (s *Service) Create(ctx context.Context, spec domain.CampaignSpec) (*domain.Campaign, error) {
	if strings.TrimSpace(spec.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidSpec)
	}
	if math.IsNaN(spec.GoalAmount) || math.IsInf(spec.GoalAmount, 0) || spec.GoalAmount <= 0 {
		return nil, fmt.Errorf("%w: goal amount must be positive", domain.ErrInvalidSpec)
	}
	if spec.Creator.ID == "" {
		return nil, fmt.Errorf("%w: creator id is required", domain.ErrInvalidSpec)
	}

	now := time.Now().UTC()
	c := &domain.Campaign{
		ID:          uuid.NewString(),
		Title:       spec.Title,
		Description: spec.Description,
		Image:       spec.Image,
		GoalAmount:  spec.GoalAmount,
		Creator:     spec.Creator,
		Backings:    []domain.BackingEntry{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns one campaign by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all campaigns, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Campaign, error) {
	return s.repo.List(ctx)
}

// ListByCreator returns the campaigns whose embedded creator snapshot carries
// the given id.
func (s *Service) ListByCreator(ctx context.Context, creatorID string) ([]domain.Campaign, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Campaign, 0)
	for _, c := range all {
		if c.Creator.ID == creatorID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// AddBacking appends one pledge to the campaign's ledger. The sequence id
// comes from the entry count observed under the version that the write is
// conditioned on, so two concurrent appends cannot both land on the same id:
// the loser's write is rejected and the whole load-build-append sequence is
// retried against the fresh state.
func (s *Service) AddBacking(ctx context.Context, campaignID string, pledge domain.Pledge) (*domain.Campaign, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		c, err := s.repo.GetByID(ctx, campaignID)
		if err != nil {
			return nil, err
		}

		entry, err := ledger.BuildEntry(c.Backings, pledge)
		if err != nil {
			return nil, err
		}

		observed := c.Version
		c.Backings = append(c.Backings, entry)
		c.UpdatedAt = entry.CreatedAt
		c.Version = observed + 1

		err = s.repo.Replace(ctx, c, observed)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}
		s.logger.Debug().
			Str("campaign_id", campaignID).
			Int("attempt", attempt+1).
			Msg("backing append lost version race, retrying")
	}
	return nil, fmt.Errorf("%w: campaign %s", domain.ErrConcurrencyConflict, campaignID)
}

// Entries returns the campaign's ledger in append order. The slice is never
// nil, and a missing campaign is an error rather than an empty result so a
// bad id cannot masquerade as "no backings yet".
func (s *Service) Entries(ctx context.Context, campaignID string) ([]domain.BackingEntry, error) {
	c, err := s.repo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Backings == nil {
		return []domain.BackingEntry{}, nil
	}
	return c.Backings, nil
}

// Total returns the sum of all pledged amounts for the campaign, computed
// from the ledger on every call.
func (s *Service) Total(ctx context.Context, campaignID string) (float64, error) {
	c, err := s.repo.GetByID(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	return c.TotalBacked(), nil
}

// Update patches the mutable scalar fields. The ledger is not reachable from
// the patch type; appends go through AddBacking only.
func (s *Service) Update(ctx context.Context, campaignID string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		c, err := s.repo.GetByID(ctx, campaignID)
		if err != nil {
			return nil, err
		}

		if patch.Title != nil {
			if strings.TrimSpace(*patch.Title) == "" {
				return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidSpec)
			}
			c.Title = *patch.Title
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Image != nil {
			c.Image = *patch.Image
		}
		if patch.GoalAmount != nil {
			if math.IsNaN(*patch.GoalAmount) || math.IsInf(*patch.GoalAmount, 0) || *patch.GoalAmount <= 0 {
				return nil, fmt.Errorf("%w: goal amount must be positive", domain.ErrInvalidSpec)
			}
			c.GoalAmount = *patch.GoalAmount
		}

		observed := c.Version
		c.UpdatedAt = time.Now().UTC()
		c.Version = observed + 1

		err = s.repo.Replace(ctx, c, observed)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: campaign %s", domain.ErrConcurrencyConflict, campaignID)
}

// Remove deletes the campaign document. The embedded ledger goes with it;
// entries have no independent lifecycle.
func (s *Service) Remove(ctx context.Context, campaignID string) error {
	return s.repo.Delete(ctx, campaignID)
}

// UserBackings scans every campaign and collects the entries pledged by the
// given user, each annotated with its campaign. Campaigns are visited newest
// first with the id as tiebreaker, so the result order is stable for a fixed
// store state; entries within one campaign keep their ledger order.
func (s *Service) UserBackings(ctx context.Context, userID string) ([]domain.UserBacking, error) {
	campaigns, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(campaigns, func(i, j int) bool {
		if campaigns[i].CreatedAt.Equal(campaigns[j].CreatedAt) {
			return campaigns[i].ID < campaigns[j].ID
		}
		return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
	})

	results := make([]domain.UserBacking, 0)
	for _, c := range campaigns {
		for _, entry := range c.Backings {
			if entry.UserID != userID {
				continue
			}
			results = append(results, domain.UserBacking{
				BackingEntry:  entry,
				CampaignID:    c.ID,
				CampaignTitle: c.Title,
				CampaignImage: c.Image,
			})
		}
	}
	return results, nil
}
