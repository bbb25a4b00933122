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

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossStorage struct {
	bucket   *oss.Bucket
	basePath string
}

func newOSS(s *Storage) (IStorage, error) {
	client, err := oss.New(s.Endpoint, s.AccessKey, s.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("create oss client failed: %w", err)
	}
	bucket, err := client.Bucket(s.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open oss bucket %s failed: %w", s.Bucket, err)
	}
	return &ossStorage{
		bucket:   bucket,
		basePath: s.BasePath,
	}, nil
}

// OSS SDK 不接受 context，超时由客户端配置控制。

func (o *ossStorage) Upload(_ context.Context, objectName string, reader io.Reader, _ int64) (string, error) {
	fullPath := getFullPath(o.basePath, objectName)
	if err := o.bucket.PutObject(fullPath, reader); err != nil {
		return "", fmt.Errorf("oss upload %s failed: %w", fullPath, err)
	}
	return fullPath, nil
}

func (o *ossStorage) Download(_ context.Context, objectName string) (io.ReadCloser, error) {
	fullPath := getFullPath(o.basePath, objectName)
	body, err := o.bucket.GetObject(fullPath)
	if err != nil {
		return nil, fmt.Errorf("oss download %s failed: %w", fullPath, err)
	}
	return body, nil
}

func (o *ossStorage) Delete(_ context.Context, objectName string) error {
	fullPath := getFullPath(o.basePath, objectName)
	if err := o.bucket.DeleteObject(fullPath); err != nil {
		return fmt.Errorf("oss delete %s failed: %w", fullPath, err)
	}
	return nil
}

func (o *ossStorage) Exists(_ context.Context, objectName string) (bool, error) {
	fullPath := getFullPath(o.basePath, objectName)
	exist, err := o.bucket.IsObjectExist(fullPath)
	if err != nil {
		return false, fmt.Errorf("oss stat %s failed: %w", fullPath, err)
	}
	return exist, nil
}
