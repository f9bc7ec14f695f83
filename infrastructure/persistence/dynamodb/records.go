// Package dynamodb implements the persistence ports over a single-table
// DynamoDB layout. Categories and content items share the table under a
// per-user partition key; one logical operation commits through a single
// TransactWriteItems call.
package dynamodb

import (
	"fmt"
	"time"

	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	pkgerrors "stash-backend/pkg/errors"
)

const (
	entityTypeCategory = "CATEGORY"
	entityTypeItem     = "ITEM"

	skCategoryPrefix = "CATEGORY#"
	skItemPrefix     = "ITEM#"
)

func userPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

func categorySK(id valueobjects.CategoryID) string {
	return skCategoryPrefix + id.String()
}

func itemSK(id valueobjects.ContentID) string {
	return skItemPrefix + id.String()
}

// categoryRecord is the DynamoDB item structure for a category
type categoryRecord struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	CategoryID string `dynamodbav:"CategoryID"`
	UserID     string `dynamodbav:"UserID"`
	Name       string `dynamodbav:"Name"`
	SortOrder  int32  `dynamodbav:"SortOrder"`
	IsDefault  bool   `dynamodbav:"IsDefault"`
	Color      string `dynamodbav:"Color,omitempty"`
	Icon       string `dynamodbav:"Icon,omitempty"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

// contentRecord is the DynamoDB item structure for a content item
type contentRecord struct {
	PK           string            `dynamodbav:"PK"`
	SK           string            `dynamodbav:"SK"`
	EntityType   string            `dynamodbav:"EntityType"`
	ContentID    string            `dynamodbav:"ContentID"`
	UserID       string            `dynamodbav:"UserID"`
	Title        string            `dynamodbav:"Title"`
	Description  string            `dynamodbav:"Description,omitempty"`
	URL          string            `dynamodbav:"URL,omitempty"`
	ThumbnailURL string            `dynamodbav:"ThumbnailURL,omitempty"`
	ImageData    []byte            `dynamodbav:"ImageData,omitempty"`
	Metadata     map[string]string `dynamodbav:"Metadata,omitempty"`
	IsHidden     bool              `dynamodbav:"IsHidden"`
	CategoryID   string            `dynamodbav:"CategoryID,omitempty"`
	CreatedAt    string            `dynamodbav:"CreatedAt"`
	UpdatedAt    string            `dynamodbav:"UpdatedAt"`
}

func toCategoryRecord(category *entities.Category) categoryRecord {
	return categoryRecord{
		PK:         userPK(category.UserID()),
		SK:         categorySK(category.ID()),
		EntityType: entityTypeCategory,
		CategoryID: category.ID().String(),
		UserID:     category.UserID(),
		Name:       category.Name().Display(),
		SortOrder:  category.SortOrder(),
		IsDefault:  category.IsDefault(),
		Color:      category.Color(),
		Icon:       category.Icon(),
		CreatedAt:  category.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:  category.UpdatedAt().Format(time.RFC3339Nano),
	}
}

func fromCategoryRecord(record categoryRecord) (*entities.Category, error) {
	id, err := valueobjects.NewCategoryIDFromString(record.CategoryID)
	if err != nil {
		return nil, pkgerrors.NewStoreError("invalid category record", err)
	}
	name, err := valueobjects.NewCategoryName(record.Name)
	if err != nil {
		return nil, pkgerrors.NewStoreError("invalid category record", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, record.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewStoreError("invalid category record", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, record.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewStoreError("invalid category record", err)
	}

	return entities.ReconstructCategory(
		id, record.UserID, name, record.SortOrder, record.IsDefault,
		record.Color, record.Icon, createdAt, updatedAt,
	)
}

func toContentRecord(item *entities.ContentItem) contentRecord {
	record := contentRecord{
		PK:           userPK(item.UserID()),
		SK:           itemSK(item.ID()),
		EntityType:   entityTypeItem,
		ContentID:    item.ID().String(),
		UserID:       item.UserID(),
		Title:        item.Title(),
		Description:  item.Description(),
		URL:          item.URL(),
		ThumbnailURL: item.ThumbnailURL(),
		ImageData:    item.ImageData(),
		Metadata:     item.Metadata(),
		IsHidden:     item.IsHidden(),
		CreatedAt:    item.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:    item.UpdatedAt().Format(time.RFC3339Nano),
	}
	if !item.CategoryID().IsZero() {
		record.CategoryID = item.CategoryID().String()
	}
	return record
}

func fromContentRecord(record contentRecord) (*entities.ContentItem, error) {
	id, err := valueobjects.NewContentIDFromString(record.ContentID)
	if err != nil {
		return nil, pkgerrors.NewStoreError("invalid content record", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, record.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewStoreError("invalid content record", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, record.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewStoreError("invalid content record", err)
	}

	var categoryID valueobjects.CategoryID
	if record.CategoryID != "" {
		categoryID, err = valueobjects.NewCategoryIDFromString(record.CategoryID)
		if err != nil {
			return nil, pkgerrors.NewStoreError("invalid content record", err)
		}
	}

	return entities.ReconstructContentItem(
		id, record.UserID, record.Title, record.Description, record.URL,
		record.ThumbnailURL, record.ImageData, record.Metadata,
		record.IsHidden, categoryID, createdAt, updatedAt,
	)
}
