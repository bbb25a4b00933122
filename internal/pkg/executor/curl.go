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
	"regexp"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/shenyubao/quickdeck/internal/engine/model"
)

// CurlExecutor CURL 执行器
// 渲染模板化的 curl 命令行并在子进程中执行。
//
// extension 配置示例:
//
//	{"curl": "curl -X POST https://api.example.com/data -H 'Content-Type: application/json' --data-raw '{\"name\": \"{{ name }}\"}'"}
//
// 渲染后的命令只进执行日志，不进运行结果；接口返回的纯内容进
// 运行结果，若为合法 JSON 则格式化显示。
type CurlExecutor struct{}

// NewCurlExecutor 创建 CURL 执行器
func NewCurlExecutor() *CurlExecutor {
	return &CurlExecutor{}
}

func (e *CurlExecutor) Kind() string {
	return model.StepKindCurl
}

var logSeparator = strings.Repeat("=", 80)

func (e *CurlExecutor) Execute(ctx context.Context, args map[string]any, rc *Context, res *Result) error {
	curlTemplate := stringFromExtension(rc.StepExtension, "curl")
	if curlTemplate == "" {
		return NewConfigurationError("CURL 命令不能为空")
	}

	curlCommand, err := RenderTemplate(curlTemplate, args)
	if err != nil {
		return NewConfigurationError("渲染 CURL 命令失败: %v", err)
	}

	// 修复 --data 载荷里的单引号 JSON 书写错误
	curlCommand = fixDataRawJSON(curlCommand)

	res.AppendLogs("[CURL 命令]\n" + logSeparator + "\n" + curlCommand + "\n" + logSeparator)

	scriptPath, cleanup, err := writeTempScript("#!/bin/bash\n"+curlCommand, ".sh")
	if err != nil {
		return NewExecutionErrorCause(err, "CURL 命令执行出错: %v", err)
	}
	defer cleanup()

	out, err := runProcess(ctx, rc.StepTimeout(), nil, "/bin/bash", scriptPath)
	if err != nil {
		return NewExecutionErrorCause(err, "CURL 命令执行出错: %v", err)
	}

	// 运行结果只保留接口返回内容；完整过程进执行日志
	if out.Stdout != "" {
		res.AppendText(formatJSONIfValid(out.Stdout))
		res.AppendLogs("[执行输出]\n" + out.Stdout)
	}
	if out.Stderr != "" {
		res.AppendLogs("[标准输出]\n" + out.Stderr)
	}

	if out.TimedOut {
		return NewTimeoutError("CURL 命令执行超时")
	}
	if out.ExitCode != 0 {
		return NewExecutionError("CURL 命令执行失败，返回码: %d\n%s", out.ExitCode, out.Stderr)
	}
	return nil
}

// Go 的正则不支持反向引用，单双引号包裹的载荷各用一个模式
var (
	dataRawSinglePattern = regexp.MustCompile(`(?s)(--data(?:-raw)?)\s+'([^']*)'`)
	dataRawDoublePattern = regexp.MustCompile(`(?s)(--data(?:-raw)?)\s+"([^"]*)"`)
	quotedKeyPattern     = regexp.MustCompile(`'([^']+)'(\s*:)`)
	quotedValPattern     = regexp.MustCompile(`:\s*'([^']*)'`)
)

// fixDataRawJSON repairs single-quote-vs-double-quote mistakes inside
// --data/--data-raw payloads. Best effort: payloads that still do not
// parse after the rewrite pass through unchanged.
func fixDataRawJSON(curlCommand string) string {
	curlCommand = fixDataRawPayload(curlCommand, dataRawSinglePattern, "'")
	return fixDataRawPayload(curlCommand, dataRawDoublePattern, `"`)
}

func fixDataRawPayload(curlCommand string, pattern *regexp.Regexp, quote string) string {
	return pattern.ReplaceAllStringFunc(curlCommand, func(match string) string {
		parts := pattern.FindStringSubmatch(match)
		flag, payload := parts[1], parts[2]

		// 已经是合法 JSON 时不动
		if isValidJSON(payload) {
			return match
		}

		fixed := quotedKeyPattern.ReplaceAllString(payload, `"$1"$2`)
		fixed = quotedValPattern.ReplaceAllString(fixed, `: "$1"`)
		if !isValidJSON(fixed) {
			return match
		}
		return flag + " " + quote + fixed + quote
	})
}

func isValidJSON(s string) bool {
	var v any
	return sonic.UnmarshalString(strings.TrimSpace(s), &v) == nil
}

// formatJSONIfValid pretty-prints text when it is a valid JSON document,
// otherwise returns it untouched.
func formatJSONIfValid(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	var v any
	if err := sonic.UnmarshalString(trimmed, &v); err != nil {
		return text
	}
	pretty, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return text
	}
	return string(pretty)
}
