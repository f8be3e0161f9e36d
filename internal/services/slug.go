package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// relationNames carries the resolved display names a vehicle's derived fields
// are built from.
type relationNames struct {
	Make         string
	Model        string
	Variant      string
	BodyType     string
	AxleConfig   string
	EmissionNorm string
}

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// deriveTitle joins model year, make, model, variant, axle config and body
// type with single spaces, skipping empty parts. Deterministic for the same
// inputs.
func deriveTitle(modelYear int, names relationNames) string {
	parts := make([]string, 0, 6)
	if modelYear > 0 {
		parts = append(parts, strconv.Itoa(modelYear))
	}
	for _, p := range []string{names.Make, names.Model, names.Variant, names.AxleConfig, names.BodyType} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// slugify lower-cases, strips everything outside [a-z0-9\s-], turns
// whitespace runs into single hyphens, collapses repeated hyphens and trims
// leading/trailing hyphens. A degenerate input (all punctuation or
// non-ASCII) yields "".
func slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// buildKeySpecs assembles the cached display summary: engine displacement,
// axle configuration, GVW in tonnes and emission norm, joined by " • ". Each
// part is optional; all absent yields "".
func buildKeySpecs(engineCC int, gvwKg float64, names relationNames) string {
	parts := make([]string, 0, 4)
	if engineCC > 0 {
		parts = append(parts, fmt.Sprintf("%dcc", engineCC))
	}
	if names.AxleConfig != "" {
		parts = append(parts, names.AxleConfig)
	}
	if gvwKg > 0 {
		parts = append(parts, strconv.FormatFloat(gvwKg/1000, 'f', -1, 64)+"t GVW")
	}
	if names.EmissionNorm != "" {
		parts = append(parts, names.EmissionNorm)
	}
	return strings.Join(parts, " • ")
}
