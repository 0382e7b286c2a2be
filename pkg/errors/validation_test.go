package errors

import (
	"math"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	allowed := []string{"svg", "png", "json"}
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"", true},
		{"SVG", true},
		{"gif", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.input, allowed)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.input, GetCode(err))
		}
	}
}

func TestValidateModeAndLayout(t *testing.T) {
	for _, m := range []string{"packing", "grid"} {
		if err := ValidateMode(m); err != nil {
			t.Errorf("ValidateMode(%q) = %v", m, err)
		}
	}
	if err := ValidateMode("waveform"); !Is(err, ErrCodeInvalidMode) {
		t.Errorf("ValidateMode(waveform) = %v, want INVALID_MODE", err)
	}

	for _, l := range []string{"straight", "stagger"} {
		if err := ValidateLayout(l); err != nil {
			t.Errorf("ValidateLayout(%q) = %v", l, err)
		}
	}
	if err := ValidateLayout("hex"); !Is(err, ErrCodeInvalidLayout) {
		t.Errorf("ValidateLayout(hex) = %v, want INVALID_LAYOUT", err)
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#000", false},
		{"#1d3557", false},
		{"#FFFFFF", false},
		{"", true},
		{"000000", true},
		{"#12", true},
		{"#gggggg", true},
		{"red", true},
	}

	for _, tt := range tests {
		if err := ValidateHexColor(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"default width", 250, false},
		{"fraction", 0.5, false},
		{"max", MaxDimension, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too large", MaxDimension + 1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateDimension("width", tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimension(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
