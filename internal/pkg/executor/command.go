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

	"github.com/shenyubao/quickdeck/internal/engine/model"
)

// CommandExecutor 命令执行器
// 在子进程中执行 extension.command 的 shell 命令。
//
// extension 配置示例:
//
//	{"command": "echo hello"}
type CommandExecutor struct{}

// NewCommandExecutor 创建命令执行器
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

func (e *CommandExecutor) Kind() string {
	return model.StepKindCommand
}

func (e *CommandExecutor) Execute(ctx context.Context, args map[string]any, rc *Context, res *Result) error {
	command := stringFromExtension(rc.StepExtension, "command")
	if command == "" {
		return NewConfigurationError("命令不能为空")
	}

	out, err := runProcess(ctx, rc.StepTimeout(), nil, "/bin/bash", "-c", command)
	if err != nil {
		return NewExecutionErrorCause(err, "命令执行出错: %v", err)
	}

	appendProcessOutput(res, out)

	if out.TimedOut {
		return NewTimeoutError("命令执行超时: %s", command)
	}
	if out.ExitCode != 0 {
		return NewExecutionError("命令执行失败，返回码: %d\n%s", out.ExitCode, out.Stderr)
	}
	return nil
}

// appendProcessOutput feeds subprocess output into the shared result:
// stdout goes to user-visible text, stderr under the error marker.
func appendProcessOutput(res *Result, out *processOutput) {
	if out.Stdout != "" {
		res.AppendText(out.Stdout)
	}
	if out.Stderr != "" {
		res.AppendText("[错误]\n" + out.Stderr)
	}
}

// stringFromExtension reads a string-valued key from the step's opaque
// extension config.
func stringFromExtension(ext map[string]any, key string) string {
	if ext == nil {
		return ""
	}
	if v, ok := ext[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
