package optimize

import (
	"errors"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	for _, name := range PresetNames() {
		if err := Preset(name).Validate(); err != nil {
			t.Errorf("preset %q must validate: %v", name, err)
		}
	}
}

func TestPresetFallback(t *testing.T) {
	got := Preset("no-such-preset")
	if got != DefaultConfig() {
		t.Errorf("unknown preset should fall back to defaults, got %+v", got)
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero target", func(c *Config) { c.TargetBytes = 0 }},
		{"negative target", func(c *Config) { c.TargetBytes = -1 }},
		{"min quality low", func(c *Config) { c.MinQuality = 0 }},
		{"max quality high", func(c *Config) { c.MaxQuality = 101 }},
		{"inverted qualities", func(c *Config) { c.MinQuality = 80; c.MaxQuality = 70 }},
		{"zero step", func(c *Config) { c.QualityStep = 0 }},
		{"scale step one", func(c *Config) { c.ScaleStep = 1.0 }},
		{"min scale one", func(c *Config) { c.MinScale = 1.0 }},
		{"zero max dimension", func(c *Config) { c.MaxDimension = 0 }},
		{"zero stall rounds", func(c *Config) { c.StallRounds = 0 }},
		{"zero max probes", func(c *Config) { c.MaxProbes = 0 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: got %v, want ErrInvalidConfig", tt.name, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"webp", FormatWebP, true},
		{"WEBP", FormatWebP, true},
		{"jpeg", FormatJPEG, true},
		{"jpg", FormatJPEG, true},
		{"png", FormatPNG, true},
		{"avif", FormatAVIF, true},
		{"bmp", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.ok != (err == nil) {
			t.Errorf("%q: err = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatLossless(t *testing.T) {
	if !FormatPNG.Lossless() {
		t.Error("png must be lossless")
	}
	for _, f := range []Format{FormatWebP, FormatJPEG, FormatAVIF} {
		if f.Lossless() {
			t.Errorf("%s must not be lossless", f)
		}
	}
}

func TestReasonStrings(t *testing.T) {
	tests := []struct {
		r    Reason
		want string
	}{
		{ReasonTargetMet, "target-met"},
		{ReasonQualityFloor, "quality-floor-hit"},
		{ReasonDimensionFloor, "dimension-floor-hit"},
		{ReasonStall, "no-improvement-stall"},
	}
	for _, tt := range tests {
		if tt.r.String() != tt.want {
			t.Errorf("got %q, want %q", tt.r.String(), tt.want)
		}
	}
	if !ReasonTargetMet.Met() {
		t.Error("target-met must report Met")
	}
	if ReasonStall.Met() {
		t.Error("stall must not report Met")
	}
}
