package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	names := relationNames{
		Make:       "Tata",
		Model:      "LPT 3118",
		Variant:    "Cowl",
		AxleConfig: "6x2",
		BodyType:   "Truck",
	}

	title := deriveTitle(2023, names)
	assert.Equal(t, "2023 Tata LPT 3118 Cowl 6x2 Truck", title)

	// Same inputs, same output.
	assert.Equal(t, title, deriveTitle(2023, names))
}

func TestDeriveTitleSkipsEmptyParts(t *testing.T) {
	title := deriveTitle(0, relationNames{Make: "Ashok Leyland", BodyType: "Tipper"})
	assert.Equal(t, "Ashok Leyland Tipper", title)

	assert.Equal(t, "", deriveTitle(0, relationNames{}))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2023 Tata LPT 3118 6x2 Truck", "2023-tata-lpt-3118-6x2-truck"},
		{"  Mahindra   Blazo X  ", "mahindra-blazo-x"},
		{"BharatBenz 2823C (Tipper)", "bharatbenz-2823c-tipper"},
		{"Eicher--Pro---3015", "eicher-pro-3015"},
		{"-leading and trailing-", "leading-and-trailing"},
		{"!!??", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}

func TestBuildKeySpecs(t *testing.T) {
	names := relationNames{AxleConfig: "6x2", EmissionNorm: "BS6"}

	got := buildKeySpecs(5660, 31000, names)
	assert.Equal(t, "5660cc • 6x2 • 31t GVW • BS6", got)
}

func TestBuildKeySpecsFractionalTonnage(t *testing.T) {
	got := buildKeySpecs(0, 18500, relationNames{AxleConfig: "4x2"})
	assert.Equal(t, "4x2 • 18.5t GVW", got)
}

func TestBuildKeySpecsAllAbsent(t *testing.T) {
	assert.Equal(t, "", buildKeySpecs(0, 0, relationNames{}))
}
