package dichos

import "encoding/json"

// Config aggregates the assignment thresholds and discovery bounds. A zero
// field always means "use the default": ApplyDefaults fills it before
// Validate runs, so a threshold cannot be pinned to literal 0.
type Config struct {
	// PrimaryThreshold documents the intended "strong relationship" floor.
	// The primary category is always selected regardless of this value.
	PrimaryThreshold float32 `json:"primaryThreshold"`
	// SecondaryGap is the maximum deficit from the best score still eligible
	// as a secondary assignment.
	SecondaryGap float32 `json:"secondaryGap"`
	// SecondaryAbs qualifies a category as secondary on its own, even when
	// the gap rule fails.
	SecondaryAbs float32 `json:"secondaryAbs"`
	// TertiaryThreshold is the absolute floor for tertiary eligibility.
	TertiaryThreshold float32 `json:"tertiaryThreshold"`
	// MaxCategories caps assignments per entry.
	MaxCategories int `json:"maxCategories"`
	// KMin and KMax bound the candidate category counts tried by discovery.
	KMin int `json:"kMin"`
	KMax int `json:"kMax"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with the documented defaults.
func (c *Config) ApplyDefaults() {
	if c.PrimaryThreshold == 0 {
		c.PrimaryThreshold = 0.4
	}
	if c.SecondaryGap == 0 {
		c.SecondaryGap = 0.1
	}
	if c.SecondaryAbs == 0 {
		c.SecondaryAbs = 0.35
	}
	if c.TertiaryThreshold == 0 {
		c.TertiaryThreshold = 0.3
	}
	if c.MaxCategories == 0 {
		c.MaxCategories = 3
	}
	if c.KMin == 0 {
		c.KMin = 2
	}
	if c.KMax == 0 {
		c.KMax = 20
	}
}

// Validate rejects structurally invalid configurations before any
// computation runs.
func (c Config) Validate() error {
	if c.MaxCategories < 1 {
		return newError(ErrConfiguration, "maxCategories", "must be >= 1, got %d", c.MaxCategories)
	}
	if c.KMin < 2 {
		return newError(ErrConfiguration, "kMin", "must be >= 2, got %d", c.KMin)
	}
	if c.KMin > c.KMax {
		return newError(ErrConfiguration, "kMin", "must not exceed kMax (%d > %d)", c.KMin, c.KMax)
	}
	for _, f := range []struct {
		name  string
		value float32
	}{
		{"primaryThreshold", c.PrimaryThreshold},
		{"secondaryGap", c.SecondaryGap},
		{"secondaryAbs", c.SecondaryAbs},
		{"tertiaryThreshold", c.TertiaryThreshold},
	} {
		if f.value < 0 || f.value > 1 {
			return newError(ErrConfiguration, f.name, "must be within [0,1], got %g", f.value)
		}
	}
	return nil
}
