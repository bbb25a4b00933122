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

	"github.com/shenyubao/quickdeck/internal/engine/model"
)

// ShellScriptExecutor Shell 脚本执行器
// 将 extension.script 写入临时文件后用 /bin/bash 执行。
//
// extension 配置示例:
//
//	{"script": "#!/bin/bash\necho 'Hello World'"}
type ShellScriptExecutor struct{}

// NewShellScriptExecutor 创建 Shell 脚本执行器
func NewShellScriptExecutor() *ShellScriptExecutor {
	return &ShellScriptExecutor{}
}

func (e *ShellScriptExecutor) Kind() string {
	return model.StepKindShellScript
}

func (e *ShellScriptExecutor) Execute(ctx context.Context, args map[string]any, rc *Context, res *Result) error {
	script := stringFromExtension(rc.StepExtension, "script")
	if script == "" {
		return NewConfigurationError("脚本内容不能为空")
	}

	scriptPath, cleanup, err := writeTempScript(script, ".sh")
	if err != nil {
		return NewExecutionErrorCause(err, "脚本执行出错: %v", err)
	}
	defer cleanup()

	out, err := runProcess(ctx, rc.StepTimeout(), nil, "/bin/bash", scriptPath)
	if err != nil {
		return NewExecutionErrorCause(err, "脚本执行出错: %v", err)
	}

	appendProcessOutput(res, out)

	if out.TimedOut {
		return NewTimeoutError("脚本执行超时")
	}
	if out.ExitCode != 0 {
		return NewExecutionError("脚本执行失败，返回码: %d\n%s", out.ExitCode, out.Stderr)
	}
	return nil
}
