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
	"strings"

	"gorm.io/datatypes"
)

// 步骤类型。历史数据可能以任意大小写持久化，读取时统一小写比较。
const (
	StepKindCommand      = "command"
	StepKindShellScript  = "shell_script"
	StepKindPythonScript = "python_script"
	StepKindCurl         = "curl"
	StepKindMysql        = "mysql"
)

// 选项类型
const (
	OptionTypeText       = "text"
	OptionTypeDate       = "date"
	OptionTypeNumber     = "number"
	OptionTypeFile       = "file"
	OptionTypeCredential = "credential"
	OptionTypeJSONSchema = "json_schema"
)

// 节点类型。remote 仅作为数据保留，引擎不做远程分发。
const (
	NodeTypeLocal  = "local"
	NodeTypeRemote = "remote"
)

// 通知触发器与通知类型
const (
	NotificationTriggerOnStart   = "on_start"
	NotificationTriggerOnSuccess = "on_success"
	NotificationTriggerOnFailure = "on_failure"

	NotificationTypeWebhook         = "webhook"
	NotificationTypeDingtalkWebhook = "dingtalk_webhook"
)

// Workflow 工作流表，与任务 1:1 绑定
type Workflow struct {
	BaseModel
	Name  string `gorm:"column:name" json:"name"`
	JobId int64  `gorm:"column:job_id;uniqueIndex" json:"jobId"`

	Timeout int `gorm:"column:timeout" json:"timeout"` // 秒
	Retry   int `gorm:"column:retry" json:"retry"`     // 数据字段，引擎不自动重试

	ScheduleEnabled  bool   `gorm:"column:schedule_enabled" json:"scheduleEnabled"`
	ScheduleCrontab  string `gorm:"column:schedule_crontab" json:"scheduleCrontab"`
	ScheduleTimezone string `gorm:"column:schedule_timezone" json:"scheduleTimezone"`

	NodeType              string `gorm:"column:node_type" json:"nodeType"`
	NodeFilterExpression  string `gorm:"column:node_filter_expression;type:TEXT" json:"nodeFilterExpression"`
	NodeExcludeExpression string `gorm:"column:node_exclude_expression;type:TEXT" json:"nodeExcludeExpression"`

	Notifications datatypes.JSON `gorm:"column:notifications;type:JSON" json:"notifications"`

	Options []Option `gorm:"foreignKey:WorkflowId" json:"options"`
	Steps   []Step   `gorm:"foreignKey:WorkflowId" json:"steps"`
}

func (Workflow) TableName() string {
	return "t_workflow"
}

// Option 工作流输入声明，只参与校验与绑定，不被执行
type Option struct {
	BaseModel
	WorkflowId     int64  `gorm:"column:workflow_id;index" json:"workflowId"`
	OptionType     string `gorm:"column:option_type;type:VARCHAR(32)" json:"optionType"`
	Name           string `gorm:"column:name" json:"name"`
	Label          string `gorm:"column:label" json:"label"`
	Description    string `gorm:"column:description;type:TEXT" json:"description"`
	DefaultValue   string `gorm:"column:default_value;type:TEXT" json:"defaultValue"`
	Required       bool   `gorm:"column:required" json:"required"`
	MultiValued    bool   `gorm:"column:multi_valued" json:"multiValued"`
	CredentialType string `gorm:"column:credential_type;type:VARCHAR(32)" json:"credentialType"`
}

func (Option) TableName() string {
	return "t_option"
}

// Step 工作流步骤，order 决定执行顺序
type Step struct {
	BaseModel
	WorkflowId int64             `gorm:"column:workflow_id;index" json:"workflowId"`
	StepOrder  int               `gorm:"column:step_order" json:"stepOrder"`
	StepKind   string            `gorm:"column:step_kind;type:VARCHAR(32)" json:"stepKind"`
	Extension  datatypes.JSONMap `gorm:"column:extension;type:JSON" json:"extension"` // 类型相关配置，对 Runner 不透明
}

func (Step) TableName() string {
	return "t_step"
}

// NormalizeStepKind lowercases persisted step kinds for registry lookup.
func NormalizeStepKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

// IsKnownStepKind reports whether kind maps to a built-in executor.
func IsKnownStepKind(kind string) bool {
	switch NormalizeStepKind(kind) {
	case StepKindCommand, StepKindShellScript, StepKindPythonScript, StepKindCurl, StepKindMysql:
		return true
	}
	return false
}
