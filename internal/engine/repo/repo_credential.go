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

package repo

import (
	"context"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/pkg/database"
)

// ICredentialRepository defines credential persistence with context
// support. Fetches are always scoped to the owning project; ids from
// other projects simply come back missing.
type ICredentialRepository interface {
	ListByIds(ctx context.Context, ids []int64, projectId int64) ([]*model.Credential, error)
	ListByProject(ctx context.Context, projectId int64) ([]*model.Credential, error)
}

type CredentialRepo struct {
	database.IDatabase
}

// NewCredentialRepo creates a credential repository.
func NewCredentialRepo(db database.IDatabase) ICredentialRepository {
	return &CredentialRepo{IDatabase: db}
}

// ListByIds batch-fetches credentials by id within one project.
func (r *CredentialRepo) ListByIds(ctx context.Context, ids []int64, projectId int64) ([]*model.Credential, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var credentials []*model.Credential
	var credential model.Credential
	err := r.Database().WithContext(ctx).Table(credential.TableName()).
		Where("id IN ? AND project_id = ?", ids, projectId).
		Find(&credentials).Error
	return credentials, err
}

// ListByProject lists all credentials in a project.
func (r *CredentialRepo) ListByProject(ctx context.Context, projectId int64) ([]*model.Credential, error) {
	var credentials []*model.Credential
	var credential model.Credential
	err := r.Database().WithContext(ctx).Table(credential.TableName()).
		Where("project_id = ?", projectId).
		Order("id DESC").
		Find(&credentials).Error
	return credentials, err
}
