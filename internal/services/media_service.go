package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaService hands out presigned S3 URLs for cover-image uploads and
// resolution. Objects are keyed, never proxied through the API.
type MediaService struct {
	Region       string
	Bucket       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

func NewMediaService(region, bucket, baseEndpoint, accessKey, secretKey string) *MediaService {
	return &MediaService{
		Region:       region,
		Bucket:       bucket,
		BaseEndpoint: baseEndpoint,
		AccessKey:    accessKey,
		SecretKey:    secretKey,
	}
}

// storageKey partitions objects by date so buckets stay browsable.
func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("covers/%d/%02d/%v", d.Year(), d.Month(), uuid.New())
}

func (s *MediaService) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.AccessKey,
			s.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return s3.NewPresignClient(client), nil
}

// PresignedPutURL returns a fresh storage key and a 15-minute PUT URL for it.
func (s *MediaService) PresignedPutURL(ctx context.Context) (string, string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.Bucket
	key := storageKey()

	req, err := pc.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignedGetURL resolves a stored key to a short-lived download URL.
func (s *MediaService) PresignedGetURL(ctx context.Context, key string) (string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.Bucket

	req, err := pc.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
