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

	"gorm.io/gorm"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/pkg/database"
)

// ExecutionQuery carries the optional filters for listing execution records.
type ExecutionQuery struct {
	JobId         int64
	Status        string
	ExecutionType string
	Page          int
	PageSize      int
}

type IExecutionRepository interface {
	Create(ctx context.Context, record *model.JobExecution) error
	Get(ctx context.Context, executionId string) (*model.JobExecution, error)
	List(ctx context.Context, query ExecutionQuery) ([]*model.JobExecution, int64, error)
}

type ExecutionRepo struct {
	database.IDatabase
}

func NewExecutionRepo(db database.IDatabase) IExecutionRepository {
	return &ExecutionRepo{IDatabase: db}
}

func (r *ExecutionRepo) Create(ctx context.Context, record *model.JobExecution) error {
	return r.Database().WithContext(ctx).Create(record).Error
}

func (r *ExecutionRepo) Get(ctx context.Context, executionId string) (*model.JobExecution, error) {
	var record model.JobExecution
	err := r.Database().WithContext(ctx).Table(record.TableName()).
		Where("execution_id = ?", executionId).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// List returns execution records most recent first, with the total count
// before paging is applied.
func (r *ExecutionRepo) List(ctx context.Context, query ExecutionQuery) ([]*model.JobExecution, int64, error) {
	var record model.JobExecution
	db := r.Database().WithContext(ctx).Table(record.TableName())
	if query.JobId > 0 {
		db = db.Where("job_id = ?", query.JobId)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.ExecutionType != "" {
		db = db.Where("execution_type = ?", query.ExecutionType)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var records []*model.JobExecution
	err := db.Order("executed_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	return records, total, err
}
