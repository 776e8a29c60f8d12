package models

import (
	"fmt"
	"strings"
	"time"
)

// Material is the filament polymer family.
type Material string

const (
	MaterialPLA   Material = "PLA"
	MaterialPETG  Material = "PETG"
	MaterialABS   Material = "ABS"
	MaterialTPU   Material = "TPU"
	MaterialNylon Material = "Nylon"
	MaterialPC    Material = "PC"
	MaterialWood  Material = "Wood"
	MaterialMetal Material = "Metal"
	MaterialOther Material = "Other"
)

// Materials lists every accepted material in display order.
var Materials = []Material{
	MaterialPLA, MaterialPETG, MaterialABS, MaterialTPU, MaterialNylon,
	MaterialPC, MaterialWood, MaterialMetal, MaterialOther,
}

// Valid reports whether m is one of Materials.
func (m Material) Valid() bool {
	for _, known := range Materials {
		if m == known {
			return true
		}
	}
	return false
}

// SpoolStatus is an advisory lifecycle marker set by the operator.
type SpoolStatus string

const (
	SpoolStatusClosed SpoolStatus = "CLOSED"
	SpoolStatusOpened SpoolStatus = "OPENED"
	SpoolStatusEmpty  SpoolStatus = "EMPTY"
)

// Spool is one physical filament reel.
type Spool struct {
	ID              int64        `db:"id" json:"id"`
	Material        Material     `db:"material" json:"material"`
	ManufacturerID  *int64       `db:"manufacturer_id" json:"manufacturer_id,omitempty"`
	SpoolType       string       `db:"spool_type" json:"spool_type"`
	Name            *string      `db:"name" json:"name,omitempty"`
	Color           *string      `db:"color" json:"color,omitempty"`
	ColorHex        *string      `db:"color_hex" json:"color_hex,omitempty"`
	ColorPantone    *string      `db:"color_pantone" json:"color_pantone,omitempty"`
	Diameter        *int         `db:"diameter" json:"diameter,omitempty"`
	Weight          *float64     `db:"weight" json:"weight,omitempty"`
	RemainingWeight float64      `db:"remaining_weight" json:"remaining_weight"`
	Status          *SpoolStatus `db:"status" json:"status,omitempty"`
	OpenedAt        *time.Time   `db:"opened_at" json:"opened_at,omitempty"`
	BoughtAt        *time.Time   `db:"bought_at" json:"bought_at,omitempty"`
	EmptyAt         *time.Time   `db:"empty_at" json:"empty_at,omitempty"`
	Link            *string      `db:"link" json:"link,omitempty"`
	Code            *string      `db:"code" json:"code,omitempty"`
	RFID1           *string      `db:"rfid1" json:"rfid1,omitempty"`
	RFID2           *string      `db:"rfid2" json:"rfid2,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

// HasTag reports whether either RFID slot carries tag.
func (s *Spool) HasTag(tag string) bool {
	return (s.RFID1 != nil && *s.RFID1 == tag) || (s.RFID2 != nil && *s.RFID2 == tag)
}

// DisplayName is the one place that decides how a spool is labelled:
// material followed by the first non-empty of name, color, pantone, hex.
func DisplayName(s *Spool) string {
	if s == nil {
		return ""
	}
	label := firstNonEmpty(s.Name, s.Color, s.ColorPantone, s.ColorHex)
	switch {
	case label == "" && s.Material == "":
		return fmt.Sprintf("Spool #%d", s.ID)
	case label == "":
		return fmt.Sprintf("%s #%d", s.Material, s.ID)
	case s.Material == "":
		return label
	default:
		return string(s.Material) + " " + label
	}
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// SpoolFilter narrows spool listings.
type SpoolFilter struct {
	Material *Material
	Status   *SpoolStatus
	Search   string
	Page     int
	PageSize int
}
