package dynamodb

import (
	"context"
	"sort"

	"stash-backend/application/ports"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	pkgerrors "stash-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// CategoryRepository implements the category persistence port using DynamoDB
type CategoryRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.CategoryRepository {
	return &CategoryRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists a category to DynamoDB
func (r *CategoryRepository) Save(ctx context.Context, category *entities.Category) error {
	av, err := attributevalue.MarshalMap(toCategoryRecord(category))
	if err != nil {
		return pkgerrors.NewStoreError("failed to marshal category", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewStoreError("failed to save category", err)
	}

	r.logger.Debug("saved category",
		zap.String("categoryID", category.ID().String()),
		zap.String("userID", category.UserID()))
	return nil
}

// GetByID retrieves a category by its ID, nil when absent
func (r *CategoryRepository) GetByID(ctx context.Context, userID string, id valueobjects.CategoryID) (*entities.Category, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: categorySK(id)},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewStoreError("failed to get category", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var record categoryRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, pkgerrors.NewStoreError("failed to unmarshal category", err)
	}
	return fromCategoryRecord(record)
}

// GetByName retrieves a category by exact display name, nil when absent
func (r *CategoryRepository) GetByName(ctx context.Context, userID, name string) (*entities.Category, error) {
	all, err := r.queryAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, category := range all {
		if category.Name().Display() == name {
			return category, nil
		}
	}
	return nil, nil
}

// GetAllBySortOrder retrieves all categories for a user, sortOrder ascending
func (r *CategoryRepository) GetAllBySortOrder(ctx context.Context, userID string) ([]*entities.Category, error) {
	all, err := r.queryAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(a, b int) bool {
		if all[a].SortOrder() != all[b].SortOrder() {
			return all[a].SortOrder() < all[b].SortOrder()
		}
		return all[a].ID().Less(all[b].ID())
	})
	return all, nil
}

// GetAllByCreation retrieves all categories for a user, createdAt ascending
// with ties broken by ID comparison
func (r *CategoryRepository) GetAllByCreation(ctx context.Context, userID string) ([]*entities.Category, error) {
	all, err := r.queryAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(a, b int) bool {
		if !all[a].CreatedAt().Equal(all[b].CreatedAt()) {
			return all[a].CreatedAt().Before(all[b].CreatedAt())
		}
		return all[a].ID().Less(all[b].ID())
	})
	return all, nil
}

// Count returns the number of categories the user has
func (r *CategoryRepository) Count(ctx context.Context, userID string) (int, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(skCategoryPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return 0, pkgerrors.NewStoreError("failed to build count expression", err)
	}

	count := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, pkgerrors.NewStoreError("failed to count categories", err)
		}
		count += int(out.Count)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return count, nil
}

// Delete removes a category. Dangling item references are prevented by the
// unit of work: callers stage item reassignments in the same transaction.
func (r *CategoryRepository) Delete(ctx context.Context, userID string, id valueobjects.CategoryID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: categorySK(id)},
		},
	})
	if err != nil {
		return pkgerrors.NewStoreError("failed to delete category", err)
	}
	return nil
}

// queryAll pages through the user's category partition
func (r *CategoryRepository) queryAll(ctx context.Context, userID string) ([]*entities.Category, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(skCategoryPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewStoreError("failed to build query expression", err)
	}

	all := make([]*entities.Category, 0)
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewStoreError("failed to query categories", err)
		}

		var records []categoryRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
			return nil, pkgerrors.NewStoreError("failed to unmarshal categories", err)
		}
		for _, record := range records {
			category, err := fromCategoryRecord(record)
			if err != nil {
				r.logger.Warn("skipping malformed category record",
					zap.String("sk", record.SK), zap.Error(err))
				continue
			}
			all = append(all, category)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return all, nil
}
