// Package storage signs direct browser uploads to Cloudinary.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/asset"
)

type Kind string

const (
	KindImage Kind = "IMAGE"
	KindVideo Kind = "VIDEO"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// Upload is what a client needs to POST a file straight to the store.
type Upload struct {
	URL       string
	Fields    map[string]string
	Key       string
	PublicURL string
}

// Presigner issues signed upload parameters for a key.
type Presigner interface {
	Presign(ctx context.Context, key string, kind Kind) (*Upload, error)
	PublicURL(key string, kind Kind) (string, error)
}

type Cloudinary struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	// Stored URLs must be stable; no SDK tracking query string.
	cld.Config.URL.Analytics = false
	return &Cloudinary{
		cld:       cld,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}, nil
}

func resourceType(kind Kind) string {
	if kind == KindVideo {
		return "video"
	}
	return "image"
}

func (c *Cloudinary) Presign(_ context.Context, key string, kind Kind) (*Upload, error) {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	params := url.Values{}
	params.Set("public_id", key)
	params.Set("timestamp", timestamp)

	signature, err := api.SignParameters(params, c.apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload: %w", err)
	}

	publicURL, err := c.PublicURL(key, kind)
	if err != nil {
		return nil, err
	}

	return &Upload{
		URL: fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/%s/upload", c.cloudName, resourceType(kind)),
		Fields: map[string]string{
			"api_key":   c.apiKey,
			"public_id": key,
			"timestamp": timestamp,
			"signature": signature,
		},
		Key:       key,
		PublicURL: publicURL,
	}, nil
}

func (c *Cloudinary) PublicURL(key string, kind Kind) (string, error) {
	var (
		a   *asset.Asset
		err error
	)
	if kind == KindVideo {
		a, err = c.cld.Video(key)
	} else {
		a, err = c.cld.Image(key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to build asset: %w", err)
	}
	u, err := a.String()
	if err != nil {
		return "", fmt.Errorf("failed to build asset url: %w", err)
	}
	return u, nil
}
