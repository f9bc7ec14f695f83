package valueobjects

import (
	"strings"

	"stash-backend/domain/config"
	pkgerrors "stash-backend/pkg/errors"
)

// CategoryName is a value object for a category's user-visible name.
// It keeps the raw display form and the normalized key used for the
// application-level uniqueness rule: two names collide when they are
// equal after trimming whitespace and lowercasing.
type CategoryName struct {
	display    string
	normalized string
}

// NewCategoryName creates a name with validation using default configuration
func NewCategoryName(raw string) (CategoryName, error) {
	return NewCategoryNameWithConfig(raw, config.DefaultDomainConfig())
}

// NewCategoryNameWithConfig creates a name with validation and configuration
func NewCategoryNameWithConfig(raw string, cfg *config.DomainConfig) (CategoryName, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	display := strings.TrimSpace(raw)
	if display == "" {
		return CategoryName{}, pkgerrors.NewValidationError("category name cannot be empty")
	}
	if len([]rune(display)) > cfg.MaxCategoryNameLength {
		return CategoryName{}, pkgerrors.NewValidationError("category name exceeds maximum length")
	}

	return CategoryName{
		display:    display,
		normalized: strings.ToLower(display),
	}, nil
}

// NormalizeKey returns the normalized form of an arbitrary raw name
// without validating it. Used when grouping possibly-invalid stored names.
func NormalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Display returns the trimmed, user-visible form of the name
func (n CategoryName) Display() string {
	return n.display
}

// Normalized returns the key used for case-insensitive uniqueness
func (n CategoryName) Normalized() string {
	return n.normalized
}

// EqualsFold checks equality under the normalized key
func (n CategoryName) EqualsFold(other CategoryName) bool {
	return n.normalized == other.normalized
}

// IsZero checks if the name is the zero value
func (n CategoryName) IsZero() bool {
	return n.display == ""
}

// IsMiscAlias reports whether the name matches one of the recognized
// aliases of the distinguished Misc fallback bucket.
func (n CategoryName) IsMiscAlias(cfg *config.DomainConfig) bool {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	for _, alias := range cfg.MiscAliases {
		if n.normalized == alias {
			return true
		}
	}
	return false
}
