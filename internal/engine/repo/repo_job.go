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

// IJobRepository defines job persistence with context support.
type IJobRepository interface {
	Get(ctx context.Context, jobId int64) (*model.Job, error)
	List(ctx context.Context, projectId int64) ([]*model.Job, error)
}

type JobRepo struct {
	database.IDatabase
}

// NewJobRepo creates a job repository.
func NewJobRepo(db database.IDatabase) IJobRepository {
	return &JobRepo{IDatabase: db}
}

// Get returns the job by id, or nil when it does not exist.
func (r *JobRepo) Get(ctx context.Context, jobId int64) (*model.Job, error) {
	var job model.Job
	err := r.Database().WithContext(ctx).Table(job.TableName()).
		Where("id = ?", jobId).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// List lists jobs, optionally filtered by project.
func (r *JobRepo) List(ctx context.Context, projectId int64) ([]*model.Job, error) {
	var jobs []*model.Job
	var job model.Job
	query := r.Database().WithContext(ctx).Table(job.TableName())
	if projectId > 0 {
		query = query.Where("project_id = ?", projectId)
	}
	err := query.Order("path, name").Find(&jobs).Error
	return jobs, err
}
