package config

// DomainConfig holds tunable business rules for categories and content items.
// A single instance is shared through dependency injection; tests may build
// their own to exercise edge cases.
type DomainConfig struct {
	// Category rules
	MaxCategoryNameLength int
	DefaultCategoryName   string

	// Misc fallback bucket
	MiscAliases []string // normalized (lowercase, trimmed) alias set
	MiscName    string   // canonical display name for a created bucket
	MiscColor   string
	MiscIcon    string

	// Content rules
	MaxTitleLength       int
	MaxDescriptionLength int

	// URL prefixes that point at platform temp files and never survive a
	// device restart; cleanup nulls them out
	EphemeralURLPrefixes []string
}

// DefaultDomainConfig returns the production rule set
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxCategoryNameLength: 100,
		DefaultCategoryName:   "Misc",

		MiscAliases: []string{"misc", "miscellaneous", "other", "uncategorized"},
		MiscName:    "Misc",
		MiscColor:   "#8E8E93",
		MiscIcon:    "tray",

		MaxTitleLength:       200,
		MaxDescriptionLength: 2000,

		EphemeralURLPrefixes: []string{
			"/tmp/",
			"/private/var/",
			"file:///private/var/",
		},
	}
}
