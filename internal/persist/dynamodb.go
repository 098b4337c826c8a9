package persist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/punchline/config"
	"github.com/spacesedan/punchline/internal/clients"
)

// DynamoDBAPI is the slice of the SDK client the storage needs.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type stateItem struct {
	Key       string `dynamodbav:"key"`
	Payload   []byte `dynamodbav:"payload"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

type DynamoDBStorage struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoDBStorage(ctx context.Context, cfg config.PersistenceConfig) (*DynamoDBStorage, error) {
	client, err := clients.NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewDynamoDBStorageWithClient(client, cfg.DynamoDBTable), nil
}

func NewDynamoDBStorageWithClient(client DynamoDBAPI, table string) *DynamoDBStorage {
	slog.Info("[DynamoDB] Using table", slog.String("table", table))
	return &DynamoDBStorage{client: client, table: table}
}

func (d *DynamoDBStorage) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var item stateItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		slog.Error("[DynamoDB] Unable to unmarshal state item", slog.String("error", err.Error()))
		return nil, fmt.Errorf("[DynamoDB] unmarshal item: %w", err)
	}
	return item.Payload, nil
}

func (d *DynamoDBStorage) Set(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(stateItem{
		Key:       key,
		Payload:   value,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] marshal item: %w", err)
	}

	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("[DynamoDB] PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoDBStorage) Close() error { return nil }
