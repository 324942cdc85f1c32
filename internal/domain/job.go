package domain

import "time"

// JobType distinguishes postings offering work from postings seeking it.
type JobType string

const (
	JobTypeOffer JobType = "OFFER"
	JobTypeSeek  JobType = "SEEK"
)

// Job is a work posting on the marketplace board.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"`
	Type        JobType   `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
