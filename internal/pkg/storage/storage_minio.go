// Copyright 2025 QuickDeck Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shenyubao/quickdeck/pkg/log"
)

type minioStorage struct {
	client   *minio.Client
	bucket   string
	basePath string
}

func newMinio(s *Storage) (IStorage, error) {
	client, err := minio.New(s.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
		Secure: s.UseTLS,
		Region: s.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}
	return &minioStorage{
		client:   client,
		bucket:   s.Bucket,
		basePath: s.BasePath,
	}, nil
}

func (m *minioStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64) (string, error) {
	fullPath := getFullPath(m.basePath, objectName)
	info, err := m.client.PutObject(ctx, m.bucket, fullPath, reader, size, minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("minio upload %s failed: %w", fullPath, err)
	}
	log.Debugw("minio upload done", "fullPath", fullPath, "size", info.Size)
	return fullPath, nil
}

func (m *minioStorage) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	fullPath := getFullPath(m.basePath, objectName)
	object, err := m.client.GetObject(ctx, m.bucket, fullPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio download %s failed: %w", fullPath, err)
	}
	return object, nil
}

func (m *minioStorage) Delete(ctx context.Context, objectName string) error {
	fullPath := getFullPath(m.basePath, objectName)
	if err := m.client.RemoveObject(ctx, m.bucket, fullPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete %s failed: %w", fullPath, err)
	}
	return nil
}

func (m *minioStorage) Exists(ctx context.Context, objectName string) (bool, error) {
	fullPath := getFullPath(m.basePath, objectName)
	_, err := m.client.StatObject(ctx, m.bucket, fullPath, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("minio stat %s failed: %w", fullPath, err)
	}
	return true, nil
}
