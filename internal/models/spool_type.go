package models

// SpoolType is static reference data describing an empty reel and its fill.
type SpoolType struct {
	Key            string  `yaml:"key" json:"key"`
	Manufacturer   string  `yaml:"manufacturer" json:"manufacturer"`
	Name           string  `yaml:"name" json:"name"`
	SpoolWeight    float64 `yaml:"spool_weight" json:"spool_weight"`
	FilamentWeight float64 `yaml:"filament_weight" json:"filament_weight"`
	Length         float64 `yaml:"length,omitempty" json:"length,omitempty"`
}
