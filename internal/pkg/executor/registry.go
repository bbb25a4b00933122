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

package executor

import (
	"github.com/google/wire"

	"github.com/shenyubao/quickdeck/internal/engine/model"
)

// ProviderSet provides executor dependencies.
var ProviderSet = wire.NewSet(NewRegistry)

// Registry 执行器注册表
// 进程启动时从固定表构建一次，之后只读。查找按小写归一，
// 兼容历史数据中大小写不一致的步骤类型。
type Registry struct {
	executors map[string]Executor
}

// NewRegistry builds the registry from the built-in executor table.
func NewRegistry() *Registry {
	executors := map[string]Executor{}
	for _, e := range []Executor{
		NewCommandExecutor(),
		NewShellScriptExecutor(),
		NewPythonScriptExecutor(),
		NewCurlExecutor(),
		NewMysqlExecutor(),
	} {
		executors[model.NormalizeStepKind(e.Kind())] = e
	}
	return &Registry{executors: executors}
}

// Resolve returns the executor for the given step kind.
func (r *Registry) Resolve(kind string) (Executor, error) {
	e, ok := r.executors[model.NormalizeStepKind(kind)]
	if !ok {
		return nil, NewUnsupportedStepKindError(kind)
	}
	return e, nil
}

// Kinds lists the registered step kinds.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.executors))
	for k := range r.executors {
		kinds = append(kinds, k)
	}
	return kinds
}
