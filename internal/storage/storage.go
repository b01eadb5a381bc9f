// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage provides the object buckets that uploaded images are
// written to: the local filesystem, S3 or MinIO.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/dscapture/dscapture/internal/config"
)

var (
	// ErrObjectExists is returned by Put when the key is already taken.
	ErrObjectExists = errors.New("object already exists")
	// ErrNoPublicURL is returned when a bucket has no public base URL.
	ErrNoPublicURL = errors.New("bucket has no public url")
)

// PutOptions carries per-object metadata.
type PutOptions struct {
	ContentType  string
	CacheControl string
}

// Bucket is a named object container. Objects are never overwritten.
type Bucket interface {
	Name() string
	Put(ctx context.Context, key string, r io.Reader, size int64, opts PutOptions) error
	PublicURL(key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Open returns the bucket named name for the configured driver.
func Open(ctx context.Context, cfg *config.Config, name string) (Bucket, error) {
	base := cfg.PublicBaseURL()

	switch cfg.StorageDriver {
	case config.StorageLocal:
		return NewLocalBucket(cfg.UploadsDir, name, base)
	case config.StorageS3:
		return NewS3Bucket(ctx, S3Options{
			Endpoint:     cfg.S3Endpoint,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		}, name, base)
	case config.StorageMinio:
		return NewMinioBucket(ctx, MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
		}, name, base)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// publicURL builds "<base>/<bucket>/<key>" with every key segment escaped.
func publicURL(base, bucket, key string) (string, error) {
	if base == "" {
		return "", ErrNoPublicURL
	}
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(base, "/") + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/"), nil
}
