package dynamodb

import (
	"context"
	"fmt"

	"stash-backend/application/ports"
	"stash-backend/domain/core/entities"
	"stash-backend/domain/core/valueobjects"
	pkgerrors "stash-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// maxTransactItems is the DynamoDB TransactWriteItems hard limit
const maxTransactItems = 100

// UnitOfWork stages writes and commits them through a single
// TransactWriteItems call, so a batch either lands completely or not at
// all. Staged order is preserved: item reassignments registered before a
// category delete appear before it in the transaction.
type UnitOfWork struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
	staged    []types.TransactWriteItem
	active    bool
}

// UnitOfWorkFactory creates DynamoDB units of work
type UnitOfWorkFactory struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewUnitOfWorkFactory creates a factory bound to one table
func NewUnitOfWorkFactory(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// New creates a fresh unit of work
func (f *UnitOfWorkFactory) New() ports.UnitOfWork {
	return &UnitOfWork{
		client:    f.client,
		tableName: f.tableName,
		logger:    f.logger,
	}
}

// Begin starts a new transaction
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return pkgerrors.NewInternalError("transaction already in progress", nil)
	}
	u.active = true
	u.staged = u.staged[:0]
	return nil
}

// StageCategorySave registers a category create/update
func (u *UnitOfWork) StageCategorySave(category *entities.Category) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	av, err := attributevalue.MarshalMap(toCategoryRecord(category))
	if err != nil {
		return pkgerrors.NewStoreError("failed to marshal category", err)
	}
	return u.stage(types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(u.tableName),
			Item:      av,
		},
	})
}

// StageCategoryDelete registers a category removal
func (u *UnitOfWork) StageCategoryDelete(userID string, id valueobjects.CategoryID) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	return u.stage(types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(u.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
				"SK": &types.AttributeValueMemberS{Value: categorySK(id)},
			},
		},
	})
}

// StageItemSave registers a content item create/update
func (u *UnitOfWork) StageItemSave(item *entities.ContentItem) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	av, err := attributevalue.MarshalMap(toContentRecord(item))
	if err != nil {
		return pkgerrors.NewStoreError("failed to marshal content item", err)
	}
	return u.stage(types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(u.tableName),
			Item:      av,
		},
	})
}

// StageItemDelete registers a content item removal
func (u *UnitOfWork) StageItemDelete(userID string, id valueobjects.ContentID) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	return u.stage(types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(u.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
				"SK": &types.AttributeValueMemberS{Value: itemSK(id)},
			},
		},
	})
}

// StagedCount reports how many writes are currently staged
func (u *UnitOfWork) StagedCount() int {
	return len(u.staged)
}

// Commit submits all staged writes as one TransactWriteItems call
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.active {
		return pkgerrors.NewInternalError("no transaction in progress", nil)
	}
	defer func() {
		u.active = false
		u.staged = nil
	}()

	if len(u.staged) == 0 {
		return nil
	}

	_, err := u.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: u.staged,
	})
	if err != nil {
		return pkgerrors.NewStoreError("transaction failed", err)
	}

	u.logger.Debug("committed transaction", zap.Int("writes", len(u.staged)))
	return nil
}

// Rollback discards all staged writes; safe to call after Commit
func (u *UnitOfWork) Rollback() error {
	u.active = false
	u.staged = nil
	return nil
}

func (u *UnitOfWork) stage(write types.TransactWriteItem) error {
	if len(u.staged) >= maxTransactItems {
		return pkgerrors.NewStoreError(
			fmt.Sprintf("transaction exceeds %d writes", maxTransactItems), nil)
	}
	u.staged = append(u.staged, write)
	return nil
}
