package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// CategoryID is a value object representing a unique category identifier
// Value objects are immutable and have no identity beyond their value
type CategoryID struct {
	value string
}

// NewCategoryID creates a new random CategoryID
func NewCategoryID() CategoryID {
	return CategoryID{value: uuid.New().String()}
}

// NewCategoryIDFromString creates a CategoryID from an existing string
func NewCategoryIDFromString(id string) (CategoryID, error) {
	if id == "" {
		return CategoryID{}, errors.New("category ID cannot be empty")
	}
	if !isValidUUID(id) {
		return CategoryID{}, errors.New("category ID must be a valid UUID")
	}
	return CategoryID{value: id}, nil
}

// String returns the string representation of the CategoryID
func (id CategoryID) String() string {
	return id.value
}

// Equals checks if two CategoryIDs are equal
func (id CategoryID) Equals(other CategoryID) bool {
	return id.value == other.value
}

// Less provides a deterministic total order over CategoryIDs, used as the
// tie-break when two duplicate categories carry the same creation time.
func (id CategoryID) Less(other CategoryID) bool {
	return id.value < other.value
}

// IsZero checks if the CategoryID is the zero value
func (id CategoryID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id CategoryID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *CategoryID) UnmarshalJSON(data []byte) error {
	return unmarshalIDString(data, &id.value, "CategoryID")
}

// ContentID is a value object representing a unique content item identifier
type ContentID struct {
	value string
}

// NewContentID creates a new random ContentID
func NewContentID() ContentID {
	return ContentID{value: uuid.New().String()}
}

// NewContentIDFromString creates a ContentID from an existing string
func NewContentIDFromString(id string) (ContentID, error) {
	if id == "" {
		return ContentID{}, errors.New("content ID cannot be empty")
	}
	if !isValidUUID(id) {
		return ContentID{}, errors.New("content ID must be a valid UUID")
	}
	return ContentID{value: id}, nil
}

// String returns the string representation of the ContentID
func (id ContentID) String() string {
	return id.value
}

// Equals checks if two ContentIDs are equal
func (id ContentID) Equals(other ContentID) bool {
	return id.value == other.value
}

// IsZero checks if the ContentID is the zero value
func (id ContentID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ContentID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ContentID) UnmarshalJSON(data []byte) error {
	return unmarshalIDString(data, &id.value, "ContentID")
}

func unmarshalIDString(data []byte, dst *string, kind string) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New(kind + " must be a string")
	}
	*dst = string(data[1 : len(data)-1])
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
