package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name  string
		spool Spool
		want  string
	}{
		{"name wins", Spool{Material: MaterialPLA, Name: strPtr("Galaxy"), Color: strPtr("Black")}, "PLA Galaxy"},
		{"blank name falls through", Spool{Material: MaterialPETG, Name: strPtr("  "), Color: strPtr("Orange")}, "PETG Orange"},
		{"pantone before hex", Spool{Material: MaterialABS, ColorPantone: strPtr("186 C"), ColorHex: strPtr("#C8102E")}, "ABS 186 C"},
		{"material only", Spool{ID: 7, Material: MaterialTPU}, "TPU #7"},
		{"nothing", Spool{ID: 3}, "Spool #3"},
		{"label only", Spool{Color: strPtr("Red")}, "Red"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DisplayName(&tc.spool))
		})
	}
	assert.Empty(t, DisplayName(nil))
}

func TestHasTag(t *testing.T) {
	s := Spool{RFID1: strPtr("AAA"), RFID2: strPtr("BBB")}
	assert.True(t, s.HasTag("AAA"))
	assert.True(t, s.HasTag("BBB"))
	assert.False(t, s.HasTag("CCC"))
	assert.False(t, (&Spool{}).HasTag(""))
}

func TestMaterialValid(t *testing.T) {
	assert.True(t, MaterialNylon.Valid())
	assert.False(t, Material("pla").Valid())
}
