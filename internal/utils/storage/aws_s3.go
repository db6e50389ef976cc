package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type (
	// S3API is the subset of *s3.Client the image store needs.
	S3API interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	}

	AwsS3 struct {
		client S3API
		bucket string
		region string
	}
)

func NewAwsS3(client S3API, bucket, region string) *AwsS3 {
	return &AwsS3{
		client: client,
		bucket: bucket,
		region: region,
	}
}

func (a *AwsS3) UploadFile(ctx context.Context, fileName string, data []byte, folder string, allowTypes ...string) (string, error) {
	contentType, err := detectContentType(data, allowTypes)
	if err != nil {
		return "", err
	}

	key := objectKey(folder, fileName)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to s3: %w", key, err)
	}
	return key, nil
}

func (a *AwsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}
