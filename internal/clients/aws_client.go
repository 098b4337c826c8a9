package clients

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spacesedan/punchline/config"
)

func LoadAWSConfig(ctx context.Context, cfg config.PersistenceConfig) (aws.Config, error) {
	slog.Info("[AWSClient] Initializing AWS Config...", slog.String("region", cfg.AWSRegion))

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		slog.Error("[AWSClient] Failed to load AWS config", slog.String("error", err.Error()))
		return aws.Config{}, fmt.Errorf("[AWSClient] failed to load config: %w", err)
	}

	slog.Info("[AWSClient] AWS Config Initialized")
	return awsCfg, nil
}

// NewDynamoDBClient points the client at AWS_ENDPOINT when one is set, which
// is how local DynamoDB is reached.
func NewDynamoDBClient(ctx context.Context, cfg config.PersistenceConfig) (*dynamodb.Client, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
	}), nil
}
