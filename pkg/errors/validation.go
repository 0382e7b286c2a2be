package errors

import (
	"math"
	"regexp"
	"slices"
	"strings"
)

// MaxDimension bounds bar width and height accepted from users.
const MaxDimension = 10000

// Generation modes.
const (
	ModePacking = "packing"
	ModeGrid    = "grid"
)

// ValidateFormat checks format against the allowed output formats.
func ValidateFormat(format string, allowed []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (use %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateMode accepts "packing" and "grid".
func ValidateMode(mode string) error {
	switch mode {
	case ModePacking, ModeGrid:
		return nil
	}
	return New(ErrCodeInvalidMode, "unknown mode %q (use packing or grid)", mode)
}

// ValidateLayout accepts the grid layouts "straight" and "stagger".
func ValidateLayout(layout string) error {
	switch layout {
	case "straight", "stagger":
		return nil
	}
	return New(ErrCodeInvalidLayout, "unknown layout %q (use straight or stagger)", layout)
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor accepts #rgb and #rrggbb.
func ValidateHexColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (use #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidateDimension checks that v is a finite size in (0, MaxDimension].
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be a positive number, got %g", name, v)
	}
	if v > MaxDimension {
		return New(ErrCodeInvalidInput, "%s too large (max %d)", name, MaxDimension)
	}
	return nil
}
