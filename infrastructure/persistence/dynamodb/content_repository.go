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

// ContentRepository implements the content persistence port using DynamoDB
type ContentRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ContentRepository {
	return &ContentRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists a content item to DynamoDB
func (r *ContentRepository) Save(ctx context.Context, item *entities.ContentItem) error {
	av, err := attributevalue.MarshalMap(toContentRecord(item))
	if err != nil {
		return pkgerrors.NewStoreError("failed to marshal content item", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewStoreError("failed to save content item", err)
	}

	r.logger.Debug("saved content item",
		zap.String("contentID", item.ID().String()),
		zap.String("userID", item.UserID()))
	return nil
}

// GetByID retrieves a content item by its ID, nil when absent
func (r *ContentRepository) GetByID(ctx context.Context, userID string, id valueobjects.ContentID) (*entities.ContentItem, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: itemSK(id)},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewStoreError("failed to get content item", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var record contentRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, pkgerrors.NewStoreError("failed to unmarshal content item", err)
	}
	return fromContentRecord(record)
}

// GetAll retrieves items for a user, createdAt descending; limit <= 0 means
// unbounded
func (r *ContentRepository) GetAll(ctx context.Context, userID string, limit int) ([]*entities.ContentItem, error) {
	all, err := r.queryAll(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].CreatedAt().After(all[b].CreatedAt())
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// GetByCategory retrieves all items owned by a category, createdAt descending
func (r *ContentRepository) GetByCategory(ctx context.Context, userID string, categoryID valueobjects.CategoryID) ([]*entities.ContentItem, error) {
	filter := expression.Name("CategoryID").Equal(expression.Value(categoryID.String()))
	all, err := r.queryAll(ctx, userID, &filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].CreatedAt().After(all[b].CreatedAt())
	})
	return all, nil
}

// CountByCategory returns the number of items owned by a category
func (r *ContentRepository) CountByCategory(ctx context.Context, userID string, categoryID valueobjects.CategoryID) (int, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(skItemPrefix))
	filter := expression.Name("CategoryID").Equal(expression.Value(categoryID.String()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return 0, pkgerrors.NewStoreError("failed to build count expression", err)
	}

	count := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, pkgerrors.NewStoreError("failed to count content items", err)
		}
		count += int(out.Count)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return count, nil
}

// Delete removes a content item
func (r *ContentRepository) Delete(ctx context.Context, userID string, id valueobjects.ContentID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: itemSK(id)},
		},
	})
	if err != nil {
		return pkgerrors.NewStoreError("failed to delete content item", err)
	}
	return nil
}

// queryAll pages through the user's item partition, optionally filtered
func (r *ContentRepository) queryAll(ctx context.Context, userID string, filter *expression.ConditionBuilder) ([]*entities.ContentItem, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(skItemPrefix))
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if filter != nil {
		builder = builder.WithFilter(*filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, pkgerrors.NewStoreError("failed to build query expression", err)
	}

	all := make([]*entities.ContentItem, 0)
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewStoreError("failed to query content items", err)
		}

		var records []contentRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
			return nil, pkgerrors.NewStoreError("failed to unmarshal content items", err)
		}
		for _, record := range records {
			item, err := fromContentRecord(record)
			if err != nil {
				r.logger.Warn("skipping malformed content record",
					zap.String("sk", record.SK), zap.Error(err))
				continue
			}
			all = append(all, item)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return all, nil
}
