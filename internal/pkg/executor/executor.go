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
	"context"
	"strings"
	"time"

	"github.com/shenyubao/quickdeck/internal/engine/model"
)

// DefaultTimeout 单步执行的默认墙钟超时
const DefaultTimeout = 300 * time.Second

// Executor 步骤执行器。每种步骤类型一个实现。
// Execute 就地更新 Context 与 Result；任何非零退出、超时或配置
// 错误都通过返回的 error（*Error）上抛。
type Executor interface {
	Kind() string
	Execute(ctx context.Context, args map[string]any, rc *Context, res *Result) error
}

// Context 单次运行的可变上下文，逐步骤透传给每个执行器。
// 只在运行期间存在，从不持久化。
type Context struct {
	JobId     int64
	JobName   string
	UserId    int64
	ProjectId int64

	Timeout time.Duration
	Retry   int

	// 当前步骤信息，由 Runner 在调用执行器前更新
	StepKind      string
	StepExtension map[string]any

	// 已解析的凭证，id -> 凭证
	Credentials map[int64]*model.Credential
}

// StepTimeout returns the effective per-step timeout.
func (c *Context) StepTimeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Credential returns the resolved credential for id, or nil.
func (c *Context) Credential(id int64) *model.Credential {
	if c == nil || c.Credentials == nil {
		return nil
	}
	return c.Credentials[id]
}

// Result 单次运行的累积输出，贯穿所有步骤。
// Text 与 Logs 只追加；Dataset 以最后一次写入为准，预期最多由
// 一个步骤设置。
type Result struct {
	Text    string
	Dataset any
	Logs    string
}

// AppendText appends a block to the user-visible output, joined by a
// newline. Existing content is never overwritten.
func (r *Result) AppendText(s string) {
	if s == "" {
		return
	}
	if r.Text == "" {
		r.Text = strings.TrimSpace(s)
		return
	}
	r.Text = strings.TrimSpace(r.Text + "\n" + s)
}

// AppendLogs appends a block to the execution log.
func (r *Result) AppendLogs(s string) {
	if s == "" {
		return
	}
	if r.Logs == "" {
		r.Logs = strings.TrimSpace(s)
		return
	}
	r.Logs = r.Logs + "\n" + s
}

// HasDataset reports whether the dataset is set and non-empty.
func (r *Result) HasDataset() bool {
	if r == nil || r.Dataset == nil {
		return false
	}
	switch v := r.Dataset.(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case []map[string]any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return true
}
