package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_catalog/internal/config"
	"github.com/GTDGit/gtd_catalog/internal/models"
)

type failingSigner struct{}

func (failingSigner) URL(context.Context, string) (string, error) {
	return "", errors.New("boom")
}

func TestPassthrough_URL(t *testing.T) {
	p := Passthrough{BaseURL: "https://cdn.example.com/"}

	u, _ := p.URL(context.Background(), "/products/1/thumb.jpg")
	assert.Equal(t, "https://cdn.example.com/products/1/thumb.jpg", u)

	u, _ = p.URL(context.Background(), "https://elsewhere/x.jpg")
	assert.Equal(t, "https://elsewhere/x.jpg", u)

	u, _ = Passthrough{}.URL(context.Background(), "a.jpg")
	assert.Equal(t, "a.jpg", u)
}

func TestSignProduct_RewritesAllImages(t *testing.T) {
	p := &models.Product{
		Images: []models.Image{{ID: 1, Thumb: "t.jpg", Small: "s.jpg", Large: "l.jpg"}},
		VariationTypes: []models.VariationType{{Options: []models.VariationTypeOption{
			{ID: 1, Images: []models.Image{{ID: 2, Thumb: "o.jpg"}}},
		}}},
	}
	SignProduct(context.Background(), Passthrough{BaseURL: "https://cdn"}, p)

	assert.Equal(t, "https://cdn/t.jpg", p.Images[0].Thumb)
	assert.Equal(t, "https://cdn/l.jpg", p.Images[0].Large)
	assert.Equal(t, "https://cdn/o.jpg", p.VariationTypes[0].Options[0].Images[0].Thumb)
	assert.Equal(t, "", p.VariationTypes[0].Options[0].Images[0].Small)
}

func TestSignProduct_KeepsKeyOnFailure(t *testing.T) {
	p := &models.Product{Images: []models.Image{{ID: 1, Thumb: "t.jpg"}}}
	SignProduct(context.Background(), failingSigner{}, p)

	assert.Equal(t, "t.jpg", p.Images[0].Thumb)
}

func TestNewS3Images_RequiresBucket(t *testing.T) {
	_, err := NewS3Images(context.Background(), &config.S3Config{})
	assert.Error(t, err)
}

func TestS3Images_PresignsWithStaticCredentials(t *testing.T) {
	s, err := NewS3Images(context.Background(), &config.S3Config{
		Region:          "ap-southeast-3",
		Bucket:          "catalog-images",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	u, err := s.URL(context.Background(), "products/1/large.jpg")
	require.NoError(t, err)
	assert.Contains(t, u, "http://localhost:9000/catalog-images/products/1/large.jpg")
	assert.Contains(t, u, "X-Amz-Signature=")
}
