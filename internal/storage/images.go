// Package storage turns stored image object keys into URLs the browser can load.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_catalog/internal/config"
	"github.com/GTDGit/gtd_catalog/internal/models"
)

// URLSigner maps a stored object key to a fetchable URL.
type URLSigner interface {
	URL(ctx context.Context, key string) (string, error)
}

// Passthrough returns keys unchanged, optionally prefixed with a base URL.
type Passthrough struct {
	BaseURL string
}

// URL implements URLSigner.
func (p Passthrough) URL(_ context.Context, key string) (string, error) {
	if key == "" || isAbsolute(key) || p.BaseURL == "" {
		return key, nil
	}
	return strings.TrimSuffix(p.BaseURL, "/") + "/" + strings.TrimPrefix(key, "/"), nil
}

// S3Images presigns GET requests for image objects in one bucket.
type S3Images struct {
	presign *s3.PresignClient
	bucket  string
}

// NewS3Images builds an S3 presigner from configuration. Static credentials
// are used when present; otherwise the default AWS credential chain applies.
func NewS3Images(ctx context.Context, cfg *config.S3Config) (*S3Images, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, errors.New("S3 bucket not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &S3Images{
		presign: s3.NewPresignClient(client, s3.WithPresignExpires(expiry)),
		bucket:  cfg.Bucket,
	}, nil
}

// URL implements URLSigner. Keys that are already absolute URLs are kept.
func (s *S3Images) URL(ctx context.Context, key string) (string, error) {
	if key == "" || isAbsolute(key) {
		return key, nil
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(key, "/")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// SignProduct rewrites every image of product, including option images, in
// place. A key that fails to sign is left as stored and logged.
func SignProduct(ctx context.Context, signer URLSigner, product *models.Product) {
	if signer == nil || product == nil {
		return
	}
	signImages(ctx, signer, product.Images)
	for i := range product.VariationTypes {
		for j := range product.VariationTypes[i].Options {
			signImages(ctx, signer, product.VariationTypes[i].Options[j].Images)
		}
	}
}

func signImages(ctx context.Context, signer URLSigner, images []models.Image) {
	for i := range images {
		img := &images[i]
		for _, field := range []*string{&img.Thumb, &img.Small, &img.Large} {
			u, err := signer.URL(ctx, *field)
			if err != nil {
				log.Warn().Err(err).Int("image_id", img.ID).Msg("Image URL signing failed")
				continue
			}
			*field = u
		}
	}
}

func isAbsolute(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://")
}
