// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for brand
// assets (logos and headshots). Assets are public objects because they are
// referenced from outgoing email. It wraps the AWS SDK v2 and uses
// path-style addressing so it works with CEPH, MinIO and Hetzner.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// MaxAssetSize is the largest accepted brand asset upload.
const MaxAssetSize = 5 << 20

// ErrUnsupportedType is returned for uploads that are not a supported image.
var ErrUnsupportedType = errors.New("unsupported asset content type")

// assetExtensions maps accepted content types to object key extensions.
var assetExtensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// Options configures the storage client.
type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // optional CDN/direct URL for objects
}

// Client stores brand assets in one public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string
	now       func() time.Time
}

// New creates a storage client. Returns (nil, nil) if the endpoint or
// credentials are empty, allowing the app to start without storage.
func New(o Options) (*Client, error) {
	if o.Endpoint == "" || o.AccessKey == "" || o.SecretKey == "" {
		return nil, nil
	}
	if o.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}

	endpoint := strings.TrimRight(o.Endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       o.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    o.Bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(o.PublicURL, "/"),
		now:       time.Now,
	}, nil
}

// AssetKey builds the object key for a photographer's asset. The timestamp
// makes each upload a new URL so cached emails never show a stale image.
func (c *Client) AssetKey(photographerID uuid.UUID, kind, contentType string) (string, error) {
	ext, ok := assetExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return fmt.Sprintf("branding/%s/%s-%d.%s", photographerID, kind, c.now().UnixNano(), ext), nil
}

// PutAsset uploads a brand asset and returns its public URL.
func (c *Client) PutAsset(ctx context.Context, photographerID uuid.UUID, kind, contentType string, body io.Reader, size int64) (string, error) {
	key, err := c.AssetKey(photographerID, kind, contentType)
	if err != nil {
		return "", err
	}

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// Delete removes an object.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// DeleteURL removes the object behind a URL previously returned by
// PutAsset. URLs that do not belong to this storage are ignored.
func (c *Client) DeleteURL(ctx context.Context, rawURL string) error {
	key, ok := c.KeyFromURL(rawURL)
	if !ok {
		return nil
	}
	return c.Delete(ctx, key)
}

// FileURL returns the public URL for an object key. Uses the configured
// public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// KeyFromURL extracts the object key from a public URL. It reports false
// if the URL does not point into this storage.
func (c *Client) KeyFromURL(rawURL string) (string, bool) {
	if c.publicURL != "" {
		prefix := c.publicURL + "/"
		if strings.HasPrefix(rawURL, prefix) {
			return rawURL[len(prefix):], true
		}
	}

	prefix := c.endpoint + "/" + c.bucket + "/"
	if strings.HasPrefix(rawURL, prefix) {
		return rawURL[len(prefix):], true
	}

	return "", false
}
