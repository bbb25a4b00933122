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

import (
	"time"

	"gorm.io/datatypes"
)

// 执行方式
const (
	ExecutionTypeManual    = "manual"
	ExecutionTypeScheduled = "scheduled"
)

// 执行状态
const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusFailure = "failure"
)

// JobExecution 任务执行记录。每次运行只写一行，写入后不再变更。
type JobExecution struct {
	BaseModel
	ExecutionId   string            `gorm:"column:execution_id;type:VARCHAR(64);uniqueIndex" json:"executionId"`
	JobId         int64             `gorm:"column:job_id;index" json:"jobId"`
	UserId        int64             `gorm:"column:user_id" json:"userId"`
	ExecutionType string            `gorm:"column:execution_type;type:VARCHAR(32)" json:"executionType"` // manual/scheduled
	Status        string            `gorm:"column:status;type:VARCHAR(32)" json:"status"`                // success/failure
	Args          datatypes.JSONMap `gorm:"column:args;type:JSON" json:"args"`
	OutputText    string            `gorm:"column:output_text;type:TEXT" json:"outputText"`
	OutputDataset datatypes.JSON    `gorm:"column:output_dataset;type:JSON" json:"outputDataset,omitempty"`
	Logs          string            `gorm:"column:logs;type:TEXT" json:"logs,omitempty"`
	ErrorMessage  string            `gorm:"column:error_message;type:TEXT" json:"errorMessage,omitempty"`
	Duration      int64             `gorm:"column:duration;type:BIGINT" json:"duration"` // 毫秒
	ExecutedAt    time.Time         `gorm:"column:executed_at;index" json:"executedAt"`
}

func (JobExecution) TableName() string {
	return "l_job_execution_records"
}
