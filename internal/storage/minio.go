// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions configures the MinIO client.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// MinioBucket stores objects in a MinIO bucket.
type MinioBucket struct {
	client  *minio.Client
	name    string
	baseURL string
}

// NewMinioBucket connects to MinIO and ensures the bucket exists.
func NewMinioBucket(ctx context.Context, opts MinioOptions, name, baseURL string) (*MinioBucket, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, name, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinioBucket{client: client, name: name, baseURL: baseURL}, nil
}

// Name returns the bucket name.
func (b *MinioBucket) Name() string { return b.name }

// Put uploads the object after checking the key is free.
func (b *MinioBucket) Put(ctx context.Context, key string, r io.Reader, size int64, opts PutOptions) error {
	_, err := b.client.StatObject(ctx, b.name, key, minio.StatObjectOptions{})
	if err == nil {
		return ErrObjectExists
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("stat object: %w", err)
	}

	if size <= 0 {
		size = -1
	}
	_, err = b.client.PutObject(ctx, b.name, key, r, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		CacheControl: opts.CacheControl,
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// PublicURL returns the URL the object is served from.
func (b *MinioBucket) PublicURL(key string) (string, error) {
	return publicURL(b.baseURL, b.name, key)
}

// Delete removes the object.
func (b *MinioBucket) Delete(ctx context.Context, key string) error {
	if err := b.client.RemoveObject(ctx, b.name, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
