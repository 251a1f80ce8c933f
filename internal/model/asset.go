package model

import "time"

// Asset represents a tracked physical item: an appliance, a vehicle, a home
// system. Deleting an asset removes its tasks and attachments with it.
type Asset struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	Name               string     `json:"name"`
	Type               string     `json:"type,omitempty"`
	Make               string     `json:"make,omitempty"`
	Model              string     `json:"model,omitempty"`
	Serial             string     `json:"serial,omitempty"`
	PurchaseDate       *time.Time `json:"purchase_date,omitempty"`
	WarrantyExpiration *time.Time `json:"warranty_expiration,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Common asset types (free-form, these are just the suggested ones).
const (
	AssetTypeHome      = "home"
	AssetTypeVehicle   = "vehicle"
	AssetTypeAppliance = "appliance"
)
