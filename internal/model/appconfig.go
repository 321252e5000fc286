package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Engine defaults applied to every placement
	DefaultPadding   float64   `json:"default_padding" toml:"default_padding"`
	DefaultGap       float64   `json:"default_gap" toml:"default_gap"`
	DefaultScaleMode ScaleMode `json:"default_scale_mode" toml:"default_scale_mode"`
	MaxDropSize      float64   `json:"max_drop_size" toml:"max_drop_size"`
	ExtraKeywords    []string  `json:"extra_keywords" toml:"extra_keywords"` // Added to the built-in placeholder keywords

	// Application preferences
	LibraryPath     string   `json:"library_path" toml:"library_path"` // Empty means ~/.framefill/library.json
	RecentDocuments []string `json:"recent_documents" toml:"recent_documents"`
	LogLevel        string   `json:"log_level" toml:"log_level"` // "debug", "info", "warn"
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultPadding:   defaults.Padding,
		DefaultGap:       defaults.Gap,
		DefaultScaleMode: defaults.ScaleMode,
		MaxDropSize:      defaults.MaxDropSize,
		ExtraKeywords:    []string{},
		RecentDocuments:  []string{},
		LogLevel:         "info",
	}
}

// ApplyToSettings copies the configured defaults into a Settings struct.
// Extra keywords are appended once. A padding or gap of zero is a valid tight
// layout and is applied; negative spacing, an empty scale mode and a
// non-positive drop size leave the setting untouched.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultPadding >= 0 {
		s.Padding = c.DefaultPadding
	}
	if c.DefaultGap >= 0 {
		s.Gap = c.DefaultGap
	}
	if c.DefaultScaleMode != "" {
		s.ScaleMode = c.DefaultScaleMode
	}
	if c.MaxDropSize > 0 {
		s.MaxDropSize = c.MaxDropSize
	}
	seen := make(map[string]bool, len(s.Keywords))
	for _, k := range s.Keywords {
		seen[k] = true
	}
	for _, k := range c.ExtraKeywords {
		if k != "" && !seen[k] {
			s.Keywords = append(s.Keywords, k)
			seen[k] = true
		}
	}
}

// AddRecentDocument moves path to the front of the recent list, capped at max entries.
func (c *AppConfig) AddRecentDocument(path string, max int) {
	list := []string{path}
	for _, p := range c.RecentDocuments {
		if p != path {
			list = append(list, p)
		}
	}
	if max > 0 && len(list) > max {
		list = list[:max]
	}
	c.RecentDocuments = list
}
