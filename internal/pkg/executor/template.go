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
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/expr-lang/expr"
)

// 模板占位符，形如 {{ name }} 或 {{ json.field }}
var templatePattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// RenderTemplate substitutes {{ ... }} placeholders with values from args.
// Each placeholder is an expr expression evaluated against the argument
// map, so nested access like {{ json.field }} works. A placeholder that
// resolves to nothing is an error rather than an empty substitution.
func RenderTemplate(tmpl string, args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}

	var renderErr error
	rendered := templatePattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		if renderErr != nil {
			return match
		}
		exprStr := strings.TrimSpace(templatePattern.FindStringSubmatch(match)[1])
		if exprStr == "" {
			renderErr = fmt.Errorf("空的模板表达式")
			return match
		}

		program, err := expr.Compile(exprStr, expr.Env(args))
		if err != nil {
			renderErr = fmt.Errorf("模板表达式非法: %s: %w", exprStr, err)
			return match
		}
		out, err := expr.Run(program, args)
		if err != nil {
			renderErr = fmt.Errorf("模板表达式求值失败: %s: %w", exprStr, err)
			return match
		}
		if out == nil {
			renderErr = fmt.Errorf("模板变量不存在: %s", exprStr)
			return match
		}
		return formatTemplateValue(out)
	})
	if renderErr != nil {
		return "", renderErr
	}
	return rendered, nil
}

// formatTemplateValue renders a substituted value the way the product
// expects: numbers without a trailing .0, structures as JSON.
func formatTemplateValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case map[string]any, []any:
		raw, err := sonic.Marshal(val)
		if err == nil {
			return string(raw)
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
