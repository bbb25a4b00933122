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

// Package render converts a terminal run result into presentation-ready
// HTML. Rendering is pure: the same result always produces identical
// output.
package render

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/shenyubao/quickdeck/internal/pkg/executor"
)

const tableOpen = "<table border='1' style='border-collapse: collapse; width: 100%;'>"

// Render converts the terminal result into HTML. A non-empty dataset
// takes precedence over text and renders as a table.
func Render(res *executor.Result) string {
	if res == nil {
		return Text("")
	}
	if res.HasDataset() {
		return Dataset(res.Dataset)
	}
	return Text(res.Text)
}

// Text renders free-form output as an escaped block, newlines become
// line breaks.
func Text(text string) string {
	escaped := strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
	return "<div>" + escaped + "</div>"
}

// Error renders a failure message with the error style.
func Error(message string) string {
	escaped := strings.ReplaceAll(html.EscapeString(message), "\n", "<br>")
	return "<div style='color: red;'>" + escaped + "</div>"
}

// Dataset renders structured output as a table: row maps become columns,
// scalar entries become single-column rows, a mapping becomes a
// two-column key/value table.
func Dataset(dataset any) string {
	if dataset == nil {
		return "<div>无数据</div>"
	}

	// 字符串先尝试按 JSON 解析
	if s, ok := dataset.(string); ok {
		var parsed any
		if err := sonic.UnmarshalString(s, &parsed); err != nil {
			return "<div>" + html.EscapeString(s) + "</div>"
		}
		dataset = parsed
	}

	switch v := dataset.(type) {
	case []map[string]any:
		rows := make([]any, len(v))
		for i, row := range v {
			rows[i] = row
		}
		return renderList(rows)
	case []any:
		return renderList(v)
	case map[string]any:
		return renderMapping(v)
	default:
		return "<div>" + html.EscapeString(formatCell(v)) + "</div>"
	}
}

func renderList(rows []any) string {
	if len(rows) == 0 {
		return "<div>无数据</div>"
	}

	// 表头取首行的键；标量列表包装为单列
	first, ok := rows[0].(map[string]any)
	if !ok {
		wrapped := make([]any, len(rows))
		for i, item := range rows {
			wrapped[i] = map[string]any{"值": item}
		}
		rows = wrapped
		first = rows[0].(map[string]any)
	}
	headers := sortedKeys(first)

	var b strings.Builder
	b.WriteString(tableOpen)
	b.WriteString("<thead><tr>")
	for _, header := range headers {
		b.WriteString("<th style='padding: 8px; text-align: left;'>" + html.EscapeString(header) + "</th>")
	}
	b.WriteString("</tr></thead>")

	b.WriteString("<tbody>")
	for _, item := range rows {
		b.WriteString("<tr>")
		if row, ok := item.(map[string]any); ok {
			for _, header := range headers {
				b.WriteString("<td style='padding: 8px;'>" + html.EscapeString(formatCell(row[header])) + "</td>")
			}
		} else {
			b.WriteString("<td style='padding: 8px;'>" + html.EscapeString(formatCell(item)) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody>")
	b.WriteString("</table>")
	return b.String()
}

func renderMapping(mapping map[string]any) string {
	var b strings.Builder
	b.WriteString(tableOpen)
	b.WriteString("<thead><tr><th style='padding: 8px; text-align: left;'>键</th><th style='padding: 8px; text-align: left;'>值</th></tr></thead>")
	b.WriteString("<tbody>")
	for _, key := range sortedKeys(mapping) {
		b.WriteString("<tr>")
		b.WriteString("<td style='padding: 8px;'>" + html.EscapeString(key) + "</td>")
		b.WriteString("<td style='padding: 8px;'>" + html.EscapeString(formatCell(mapping[key])) + "</td>")
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody>")
	b.WriteString("</table>")
	return b.String()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
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

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// map 迭代顺序不确定，排序保证同一结果重复渲染字节一致
	sort.Strings(keys)
	return keys
}
