package domain

import "time"

// ProductType enumerates supported listing types.
type ProductType string

const (
	ProductTypeSell ProductType = "SELL"
	ProductTypeRent ProductType = "RENT"
)

// Product is a marketplace listing. The owner is embedded as a snapshot
// captured at creation time.
type Product struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Price       float64      `json:"price"`
	Type        ProductType  `json:"type"`
	Owner       UserSnapshot `json:"owner"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Type     ProductType
	MinPrice *float64
	MaxPrice *float64
}
