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
	"errors"

	"gorm.io/gorm"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/pkg/database"
)

// IWorkflowRepository defines workflow persistence with context support.
// The engine treats the returned step and option lists as read-only
// inputs per run.
type IWorkflowRepository interface {
	GetByJob(ctx context.Context, jobId int64) (*model.Workflow, error)
	ListScheduled(ctx context.Context) ([]*model.Workflow, error)
}

type WorkflowRepo struct {
	database.IDatabase
}

// NewWorkflowRepo creates a workflow repository.
func NewWorkflowRepo(db database.IDatabase) IWorkflowRepository {
	return &WorkflowRepo{IDatabase: db}
}

// GetByJob returns the workflow bound to a job, with options and steps
// preloaded; steps come back in declared execution order.
func (r *WorkflowRepo) GetByJob(ctx context.Context, jobId int64) (*model.Workflow, error) {
	var workflow model.Workflow
	err := r.Database().WithContext(ctx).
		Preload("Options").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Where("job_id = ?", jobId).
		First(&workflow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &workflow, nil
}

// ListScheduled lists workflows with scheduling enabled and a crontab set.
func (r *WorkflowRepo) ListScheduled(ctx context.Context) ([]*model.Workflow, error) {
	var workflows []*model.Workflow
	err := r.Database().WithContext(ctx).
		Preload("Options").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Where("schedule_enabled = ? AND schedule_crontab <> ''", true).
		Find(&workflows).Error
	return workflows, err
}
