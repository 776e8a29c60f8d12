package dto

import (
	"time"

	"github.com/noah-isme/spool-tracker/internal/models"
)

// SpoolRequest is the full set of operator-editable spool fields, used for
// both registration and edits.
type SpoolRequest struct {
	Material        models.Material    `json:"material" validate:"required,material"`
	ManufacturerID  *int64             `json:"manufacturer_id" validate:"omitempty,gt=0"`
	SpoolType       string             `json:"spool_type" validate:"spooltype"`
	Name            string             `json:"name" validate:"required,max=255"`
	Color           *string            `json:"color" validate:"omitempty,max=255"`
	ColorHex        *string            `json:"color_hex" validate:"omitempty,hexcolor"`
	ColorPantone    *string            `json:"color_pantone" validate:"omitempty,max=64"`
	Diameter        *int               `json:"diameter" validate:"omitempty,gt=0"`
	Weight          float64            `json:"weight" validate:"gt=0"`
	RemainingWeight *float64           `json:"remaining_weight" validate:"omitempty,gte=0"`
	Status          models.SpoolStatus `json:"status" validate:"omitempty,oneof=CLOSED OPENED EMPTY"`
	OpenedAt        *time.Time         `json:"opened_at"`
	BoughtAt        *time.Time         `json:"bought_at"`
	EmptyAt         *time.Time         `json:"empty_at"`
	Link            *string            `json:"link" validate:"omitempty,url,max=255"`
	Code            *string            `json:"code" validate:"omitempty,uuid"`
	RFID1           *string            `json:"rfid1" validate:"omitempty,max=255"`
	RFID2           *string            `json:"rfid2" validate:"omitempty,max=255"`
}

// UsageRequest records consumption. Exactly one of the two weights may be set.
type UsageRequest struct {
	UsedWeight      *float64 `json:"used_weight"`
	RemainingWeight *float64 `json:"remaining_weight"`
}

// SpoolView decorates a spool with derived display values.
type SpoolView struct {
	models.Spool
	DisplayName      string  `json:"display_name"`
	FilamentWeight   float64 `json:"filament_weight"`
	RemainingPercent float64 `json:"remaining_percent"`
}

// ScanResponse reports how a scan event was resolved.
type ScanResponse struct {
	Message string             `json:"message"`
	Branch  string             `json:"branch"`
	Action  models.AuditAction `json:"action"`
	Spool   *models.Spool      `json:"spool"`
}

// CreateManufacturerRequest registers a filament maker.
type CreateManufacturerRequest struct {
	Name string  `json:"name" validate:"required,max=255"`
	Link *string `json:"link" validate:"omitempty,url,max=255"`
}
