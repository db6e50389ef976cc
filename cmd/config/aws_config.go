package config

import (
	"context"
	"smart-fridge-backend/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// LoadAWSConfig prefers the static keys from config.yaml and falls back to the default chain.
func LoadAWSConfig(ctx context.Context) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(utils.GetConfig("AWS_S3_REGION")),
	}
	if accessKey := utils.GetConfig("AWS_ACCESS_KEY"); accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, utils.GetConfig("AWS_SECRET_KEY"), ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
