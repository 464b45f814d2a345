package models

import "github.com/shopspring/decimal"

// Product is a server-owned catalog entry.
type Product struct {
	ID          ID              `json:"id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	OwnerID     ID              `json:"owner_id,omitempty"` // Vendor who listed the product
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductInput is the create/update body for catalog entries.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}
