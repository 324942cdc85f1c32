// Package ledger builds well-formed backing entries. It is pure: sequence
// numbers derive from the entry list the caller holds, and nothing here
// touches storage.
package ledger

import (
	"fmt"
	"math"
	"time"

	"marketplace/internal/domain"
)

// BuildEntry constructs the next backing entry for a campaign whose current
// ledger is existing. The id is count+1, so ids within one campaign are
// strictly increasing from 1 with no gaps as long as appends are serialized.
func BuildEntry(existing []domain.BackingEntry, pledge domain.Pledge) (domain.BackingEntry, error) {
	if err := validatePledge(pledge); err != nil {
		return domain.BackingEntry{}, err
	}
	return domain.BackingEntry{
		ID:        len(existing) + 1,
		UserID:    pledge.User.ID,
		UserName:  pledge.User.Name,
		UserImage: pledge.User.Image,
		Amount:    pledge.Amount,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func validatePledge(pledge domain.Pledge) error {
	if math.IsNaN(pledge.Amount) || math.IsInf(pledge.Amount, 0) {
		return fmt.Errorf("%w: amount must be finite", domain.ErrInvalidPledge)
	}
	if pledge.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidPledge)
	}
	if pledge.User.ID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidUser)
	}
	return nil
}
