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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/shenyubao/quickdeck/internal/engine/model"
)

// PythonScriptExecutor Python 脚本执行器
//
// 用户脚本需定义 execute(args) 并返回 (text, dataset_or_none)。
// 执行器生成驱动程序包一层：注入参数与本次运行已解析的凭证辅助
// 函数（credential.get / get_config / get_object_store_client），施加
// CPU 与内存 rlimit，并要求结果以单个 JSON 文档写入专用结果文件。
// 标准输出只作为执行日志；用户代码抛出异常时驱动仍会尽力写出
// 结果文件，保证部分日志不丢失。
type PythonScriptExecutor struct {
	// interpreter defaults to python3; tests may point it elsewhere.
	interpreter string
}

// NewPythonScriptExecutor 创建 Python 脚本执行器
func NewPythonScriptExecutor() *PythonScriptExecutor {
	return &PythonScriptExecutor{interpreter: "python3"}
}

func (e *PythonScriptExecutor) Kind() string {
	return model.StepKindPythonScript
}

func (e *PythonScriptExecutor) Execute(ctx context.Context, args map[string]any, rc *Context, res *Result) error {
	script := stringFromExtension(rc.StepExtension, "script")
	if script == "" {
		return NewConfigurationError("脚本内容不能为空")
	}

	driver, err := buildPythonDriver(script, args, rc)
	if err != nil {
		return NewExecutionErrorCause(err, "生成脚本驱动失败: %v", err)
	}

	workDir, err := os.MkdirTemp("", "quickdeck-py-*")
	if err != nil {
		return NewExecutionErrorCause(err, "脚本执行出错: %v", err)
	}
	defer os.RemoveAll(workDir)

	driverPath := filepath.Join(workDir, "driver.py")
	resultPath := filepath.Join(workDir, "result.json")
	if err := os.WriteFile(driverPath, []byte(driver), 0o755); err != nil {
		return NewExecutionErrorCause(err, "脚本执行出错: %v", err)
	}

	out, err := runProcess(ctx, rc.StepTimeout(),
		[]string{"QUICKDECK_RESULT_FILE=" + resultPath},
		e.interpreter, driverPath)
	if err != nil {
		return NewExecutionErrorCause(err, "脚本执行出错: %v", err)
	}

	if out.Stdout != "" {
		res.AppendLogs("[执行输出]\n" + out.Stdout)
	}
	if out.Stderr != "" {
		res.AppendLogs("[错误信息]\n" + out.Stderr)
	}

	// 结果文件尽力解析，失败路径也要保住部分输出
	applyPythonResult(res, resultPath)

	if out.TimedOut {
		return NewTimeoutError("脚本执行超时")
	}
	if out.ExitCode != 0 {
		return NewExecutionError("脚本执行失败，返回码: %d\n%s", out.ExitCode, out.Stderr)
	}
	return nil
}

// pythonResult is the single JSON document the driver writes to the
// dedicated result file.
type pythonResult struct {
	Text    string `json:"text"`
	Dataset any    `json:"dataset"`
}

func applyPythonResult(res *Result, resultPath string) {
	raw, err := os.ReadFile(resultPath)
	if err != nil || len(raw) == 0 {
		return
	}
	var pr pythonResult
	if err := sonic.Unmarshal(raw, &pr); err != nil {
		return
	}
	if pr.Text != "" {
		res.AppendText(pr.Text)
	}
	if pr.Dataset != nil {
		res.Dataset = pr.Dataset
	}
}

const pythonDriverTemplate = `# generated by quickdeck, do not edit
import json
import os
import sys
import traceback

try:
    import resource
    resource.setrlimit(resource.RLIMIT_CPU, (__CPU_LIMIT__, __CPU_LIMIT__))
    resource.setrlimit(resource.RLIMIT_AS, (__MEM_LIMIT__, __MEM_LIMIT__))
except Exception:
    pass

__QUICKDECK_ARGS = json.loads(__ARGS_JSON__)
__QUICKDECK_CREDENTIALS = json.loads(__CREDENTIALS_JSON__)


class credential:
    @staticmethod
    def get(credential_id):
        return __QUICKDECK_CREDENTIALS.get(str(credential_id))

    @staticmethod
    def get_config(credential_id):
        item = credential.get(credential_id)
        if not item:
            raise ValueError("credential %s not resolved for this run" % credential_id)
        return item.get("config") or {}

    @staticmethod
    def get_object_store_client(credential_id):
        config = credential.get_config(credential_id)
        import oss2
        auth = oss2.Auth(config["access_key_id"], config["access_key_secret"])
        return oss2.Bucket(auth, config["endpoint"], config["bucket"])


__USER_SCRIPT__


def __quickdeck_main():
    result = {"text": "", "dataset": None}
    code = 0
    try:
        out = execute(__QUICKDECK_ARGS)
        if isinstance(out, tuple):
            text = out[0]
            dataset = out[1] if len(out) > 1 else None
        else:
            text, dataset = out, None
        result["text"] = "" if text is None else str(text)
        result["dataset"] = dataset
    except Exception:
        traceback.print_exc()
        code = 1
    finally:
        try:
            with open(os.environ["QUICKDECK_RESULT_FILE"], "w") as f:
                json.dump(result, f, ensure_ascii=False, default=str)
        except Exception:
            traceback.print_exc()
            code = 1
    sys.exit(code)


__quickdeck_main()
`

// buildPythonDriver renders the driver program around the user script.
func buildPythonDriver(script string, args map[string]any, rc *Context) (string, error) {
	argsLiteral, err := pythonJSONLiteral(nonNilArgs(args))
	if err != nil {
		return "", errors.Wrap(err, "序列化运行参数失败")
	}

	creds := make(map[string]any, len(rc.Credentials))
	for id, c := range rc.Credentials {
		if c == nil {
			continue
		}
		creds[strconv.FormatInt(id, 10)] = map[string]any{
			"name":            c.Name,
			"credential_type": c.CredentialType,
			"config":          map[string]any(c.Config),
		}
	}
	credsLiteral, err := pythonJSONLiteral(creds)
	if err != nil {
		return "", errors.Wrap(err, "序列化凭证失败")
	}

	cpuLimit := int(rc.StepTimeout().Seconds())
	if cpuLimit < 1 {
		cpuLimit = 1
	}

	driver := pythonDriverTemplate
	driver = strings.ReplaceAll(driver, "__CPU_LIMIT__", strconv.Itoa(cpuLimit))
	driver = strings.ReplaceAll(driver, "__MEM_LIMIT__", strconv.FormatInt(2<<30, 10))
	driver = strings.ReplaceAll(driver, "__ARGS_JSON__", argsLiteral)
	driver = strings.ReplaceAll(driver, "__CREDENTIALS_JSON__", credsLiteral)
	driver = strings.ReplaceAll(driver, "__USER_SCRIPT__", script)
	return driver, nil
}

// pythonJSONLiteral double-encodes v so it can be embedded as a Python
// string literal and decoded with json.loads.
func pythonJSONLiteral(v any) (string, error) {
	inner, err := sonic.Marshal(v)
	if err != nil {
		return "", err
	}
	outer, err := sonic.Marshal(string(inner))
	if err != nil {
		return "", err
	}
	return string(outer), nil
}

func nonNilArgs(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	return args
}
