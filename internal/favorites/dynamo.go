package favorites

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

const DefaultTableName = "chargemap-favorites"

// DynamoDBClient is the subset of the DynamoDB API the backend needs.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// record is one favorites list keyed by storage key.
type record struct {
	Key         string `dynamodbav:"key"`
	Value       string `dynamodbav:"value"`
	LastUpdated int64  `dynamodbav:"lastUpdated"`
}

// DynamoBackend stores values in a DynamoDB table with a string partition key "key".
type DynamoBackend struct {
	client    DynamoDBClient
	tableName string
}

func NewDynamoBackend(client DynamoDBClient, tableName string) *DynamoBackend {
	if tableName == "" {
		tableName = DefaultTableName
	}
	return &DynamoBackend{
		client:    client,
		tableName: tableName,
	}
}

func (b *DynamoBackend) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := b.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(b.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting favorites from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var rec record
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling favorites record: %w", err)
	}

	return []byte(rec.Value), nil
}

func (b *DynamoBackend) Set(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(record{
		Key:         key,
		Value:       string(value),
		LastUpdated: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshaling favorites record: %w", err)
	}

	if _, err := b.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(b.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting favorites in DynamoDB: %w", err)
	}

	log.Debug().
		Str("table", b.tableName).
		Str("key", key).
		Msg("Saved favorites to DynamoDB")

	return nil
}
