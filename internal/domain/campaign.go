package domain

import "time"

// Campaign is one funding effort. The document owns its backing ledger: an
// ordered, append-only array embedded in the same row, with insertion order
// equal to chronological order.
type Campaign struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	GoalAmount  float64        `json:"goalAmount"`
	Creator     UserSnapshot   `json:"creator"`
	Backings    []BackingEntry `json:"backings"`
	Version     int64          `json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BackingEntry is one immutable pledge recorded against a campaign. The id is
// a sequence number unique within the owning campaign only, assigned at
// append time. The user fields are a snapshot of the pledging user, not a
// live reference.
type BackingEntry struct {
	ID        int       `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserImage string    `json:"userImage"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pledge is the caller-supplied input for one backing.
type Pledge struct {
	User   UserSnapshot `json:"user"`
	Amount float64      `json:"amount"`
}

// CampaignSpec carries the fields needed to create a campaign.
type CampaignSpec struct {
	Title       string
	Description string
	Image       string
	GoalAmount  float64
	Creator     UserSnapshot
}

// CampaignPatch updates the mutable scalar fields of a campaign. There is
// deliberately no backings field: the only sanctioned mutation path for the
// ledger is the append operation.
type CampaignPatch struct {
	Title       *string
	Description *string
	Image       *string
	GoalAmount  *float64
}

// UserBacking is one ledger entry enriched with the campaign it belongs to,
// as produced by the cross-campaign query.
type UserBacking struct {
	BackingEntry
	CampaignID    string `json:"campaignId"`
	CampaignTitle string `json:"campaignTitle"`
	CampaignImage string `json:"campaignImage"`
}

// TotalBacked sums the pledged amounts. The total is always computed from the
// ledger, never stored, so it cannot drift from the entries.
func (c Campaign) TotalBacked() float64 {
	var total float64
	for _, b := range c.Backings {
		total += b.Amount
	}
	return total
}
