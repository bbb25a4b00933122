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

package model

// Project 项目表
type Project struct {
	BaseModel
	ProjectId   string `gorm:"column:project_id;type:VARCHAR(64);uniqueIndex" json:"projectId"`
	Name        string `gorm:"column:name" json:"name"`
	Description string `gorm:"column:description;type:TEXT" json:"description"`
	OwnerId     int64  `gorm:"column:owner_id" json:"ownerId"`
}

func (Project) TableName() string {
	return "t_project"
}

// Job 任务表，每个任务绑定一个工作流
type Job struct {
	BaseModel
	Name        string `gorm:"column:name;index" json:"name"`
	Path        string `gorm:"column:path;index" json:"path"`
	Description string `gorm:"column:description;type:TEXT" json:"description"`
	OwnerId     int64  `gorm:"column:owner_id" json:"ownerId"`
	ProjectId   int64  `gorm:"column:project_id;index" json:"projectId"`
}

func (Job) TableName() string {
	return "t_job"
}
