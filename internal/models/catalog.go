package models

import "time"

// CatalogDrawer is a drawer definition stored in the catalog database
type CatalogDrawer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Capacity  int       `gorm:"not null;default:0" json:"capacity"`
	Category  string    `gorm:"type:varchar(100)" json:"category,omitempty"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CatalogDrawer) TableName() string { return "catalog_drawers" }

// CatalogFlight is a flight that may be selected on the scanner station
type CatalogFlight struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number      string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"number"`
	Origin      string     `gorm:"type:varchar(8)" json:"origin,omitempty"`
	Destination string     `gorm:"type:varchar(8)" json:"destination,omitempty"`
	DepartureAt *time.Time `json:"departure_at,omitempty"`
	Active      bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (CatalogFlight) TableName() string { return "catalog_flights" }
