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
	"github.com/google/wire"

	"github.com/shenyubao/quickdeck/pkg/database"
)

// ProviderSet 提供仓储层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideRepositories,
)

// Repositories 聚合所有仓储实例，统一注入到服务层
type Repositories struct {
	Job        IJobRepository
	Workflow   IWorkflowRepository
	Credential ICredentialRepository
	Execution  IExecutionRepository
}

// ProvideRepositories 提供统一的 Repositories 实例
func ProvideRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		Job:        NewJobRepo(db),
		Workflow:   NewWorkflowRepo(db),
		Credential: NewCredentialRepo(db),
		Execution:  NewExecutionRepo(db),
	}
}
