package entity

import "time"

// Warehouse bodega donde se recibe la mercancía (multi-bodega).
type Warehouse struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
