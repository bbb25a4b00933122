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
	"testing"
)

func TestFixDataRawJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "单引号键值修复为合法 JSON",
			in:   `curl -X POST http://x --data-raw "{'name': 'foo'}"`,
			want: `curl -X POST http://x --data-raw "{"name": "foo"}"`,
		},
		{
			name: "合法 JSON 原样保留",
			in:   `curl -X POST http://x --data-raw '{"name": "foo"}'`,
			want: `curl -X POST http://x --data-raw '{"name": "foo"}'`,
		},
		{
			name: "修不好的载荷原样透传",
			in:   `curl -X POST http://x --data-raw 'name=foo&age=1'`,
			want: `curl -X POST http://x --data-raw 'name=foo&age=1'`,
		},
		{
			name: "没有 data 参数时不动",
			in:   `curl -X GET http://x -H 'Accept: application/json'`,
			want: `curl -X GET http://x -H 'Accept: application/json'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixDataRawJSON(tt.in); got != tt.want {
				t.Errorf("fixDataRawJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatJSONIfValid(t *testing.T) {
	got := formatJSONIfValid(`{"a":1}`)
	if !strings.Contains(got, "\n") || !strings.Contains(got, `"a"`) {
		t.Errorf("valid JSON should be pretty-printed, got %q", got)
	}

	plain := "not json at all"
	if got := formatJSONIfValid(plain); got != plain {
		t.Errorf("non-JSON should pass through, got %q", got)
	}
	if got := formatJSONIfValid(""); got != "" {
		t.Errorf("empty input should stay empty, got %q", got)
	}
}

func TestCurlExecutor_EmptyCommand(t *testing.T) {
	e := NewCurlExecutor()
	rc := &Context{StepExtension: map[string]any{}}

	err := e.Execute(context.Background(), nil, rc, &Result{})
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindConfiguration {
		t.Errorf("KindOf() = %v", KindOf(err))
	}
	if err.Error() != "CURL 命令不能为空" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCurlExecutor_BadTemplate(t *testing.T) {
	e := NewCurlExecutor()
	rc := &Context{StepExtension: map[string]any{"curl": "curl http://x/{{ missing }}"}}

	err := e.Execute(context.Background(), map[string]any{}, rc, &Result{})
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindConfiguration {
		t.Errorf("KindOf() = %v", KindOf(err))
	}
	if !strings.Contains(err.Error(), "渲染 CURL 命令失败") {
		t.Errorf("message = %q", err.Error())
	}
}

// curl 不存在或请求失败时命令退出码非零，日志里应留下渲染后的命令
func TestCurlExecutor_LogsRenderedCommand(t *testing.T) {
	e := NewCurlExecutor()
	rc := &Context{StepExtension: map[string]any{"curl": `echo '{"ok":true}'`}}
	res := &Result{}

	if err := e.Execute(context.Background(), nil, rc, res); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(res.Logs, "[CURL 命令]") {
		t.Errorf("Logs %q should contain command section", res.Logs)
	}
	if !strings.Contains(res.Text, `"ok"`) {
		t.Errorf("Text %q should contain response body", res.Text)
	}
}
