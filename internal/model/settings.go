package model

// DefaultKeywords are the name fragments that mark a node as an image slot.
// Matching is case-insensitive.
var DefaultKeywords = []string{"img", "image", "画像", "picture", "photo"}

// Settings holds every tunable threshold of the placement engine.
type Settings struct {
	// Scanner settings
	MinPlaceholderSize float64  `json:"min_placeholder_size" toml:"min_placeholder_size"` // Both sides must exceed this
	RowTolerance       float64  `json:"row_tolerance" toml:"row_tolerance"`               // y delta treated as the same row
	Keywords           []string `json:"keywords" toml:"keywords"`

	// Matcher settings
	MaxAspectDiff float64 `json:"max_aspect_diff" toml:"max_aspect_diff"`
	SquareMin     float64 `json:"square_min" toml:"square_min"` // Aspect range considered square-like
	SquareMax     float64 `json:"square_max" toml:"square_max"`
	MinSizeRatio  float64 `json:"min_size_ratio" toml:"min_size_ratio"` // image/placeholder per dimension
	MaxSizeRatio  float64 `json:"max_size_ratio" toml:"max_size_ratio"`

	// Packer settings
	Padding float64 `json:"padding" toml:"padding"` // Inset from the container edges
	Gap     float64 `json:"gap" toml:"gap"`         // Space between grid cells

	// Executor settings
	ScaleMode   ScaleMode `json:"scale_mode" toml:"scale_mode"`
	MaxDropSize float64   `json:"max_drop_size" toml:"max_drop_size"` // Longest side of a dropped image
}

func DefaultSettings() Settings {
	keywords := make([]string, len(DefaultKeywords))
	copy(keywords, DefaultKeywords)
	return Settings{
		MinPlaceholderSize: 50,
		RowTolerance:       10,
		Keywords:           keywords,
		MaxAspectDiff:      0.3,
		SquareMin:          0.9,
		SquareMax:          1.1,
		MinSizeRatio:       0.3,
		MaxSizeRatio:       3.0,
		Padding:            20,
		Gap:                16,
		ScaleMode:          ScaleFit,
		MaxDropSize:        1000,
	}
}

// IsSquareLike reports whether an aspect ratio falls in the square band.
func (s Settings) IsSquareLike(aspect float64) bool {
	return aspect >= s.SquareMin && aspect <= s.SquareMax
}
