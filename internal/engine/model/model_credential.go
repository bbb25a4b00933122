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
	"gorm.io/datatypes"
)

// 凭证类型
const (
	CredentialTypeMysql    = "mysql"
	CredentialTypeOss      = "oss"
	CredentialTypeDeepseek = "deepseek"
)

// Credential 项目级凭证，config 为与类型相关的不透明 JSON 配置
type Credential struct {
	BaseModel
	ProjectId      int64             `gorm:"column:project_id;index" json:"projectId"`
	Name           string            `gorm:"column:name" json:"name"`
	CredentialType string            `gorm:"column:credential_type;type:VARCHAR(32)" json:"credentialType"`
	Config         datatypes.JSONMap `gorm:"column:config;type:JSON" json:"config"`
}

func (Credential) TableName() string {
	return "t_credential"
}
