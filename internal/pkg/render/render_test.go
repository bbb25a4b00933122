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

package render

import (
	"strings"
	"testing"

	"github.com/shenyubao/quickdeck/internal/pkg/executor"
)

func TestText(t *testing.T) {
	if got := Text("hello"); got != "<div>hello</div>" {
		t.Errorf("Text() = %q", got)
	}
	if got := Text("a\nb"); got != "<div>a<br>b</div>" {
		t.Errorf("Text() = %q", got)
	}
	if got := Text("<script>"); got != "<div>&lt;script&gt;</div>" {
		t.Errorf("Text() should escape HTML, got %q", got)
	}
}

func TestError(t *testing.T) {
	got := Error("执行失败\n返回码: 1")
	if !strings.HasPrefix(got, "<div style='color: red;'>") {
		t.Errorf("Error() = %q", got)
	}
	if !strings.Contains(got, "执行失败<br>返回码: 1") {
		t.Errorf("Error() = %q", got)
	}
}

func TestRender_DatasetPrecedence(t *testing.T) {
	res := &executor.Result{
		Text:    "plain text",
		Dataset: []map[string]any{{"id": float64(1)}},
	}
	got := Render(res)
	if !strings.Contains(got, "<table") {
		t.Errorf("dataset should render as table, got %q", got)
	}
	if strings.Contains(got, "plain text") {
		t.Error("text must not leak into dataset rendering")
	}

	if got := Render(&executor.Result{Text: "plain text"}); got != "<div>plain text</div>" {
		t.Errorf("text-only result = %q", got)
	}
	if got := Render(nil); got != "<div></div>" {
		t.Errorf("nil result = %q", got)
	}
}

func TestDataset_RowMaps(t *testing.T) {
	got := Dataset([]map[string]any{
		{"name": "alice", "age": float64(30)},
		{"name": "bob", "age": float64(25)},
	})

	// 表头按键名排序，age 在 name 前
	ageIdx := strings.Index(got, "age")
	nameIdx := strings.Index(got, "name")
	if ageIdx < 0 || nameIdx < 0 || ageIdx > nameIdx {
		t.Errorf("headers should be sorted, got %q", got)
	}
	if !strings.Contains(got, ">alice<") || !strings.Contains(got, ">30<") {
		t.Errorf("missing cell values in %q", got)
	}
}

func TestDataset_ScalarList(t *testing.T) {
	got := Dataset([]any{"a", "b"})
	if !strings.Contains(got, ">值<") {
		t.Errorf("scalar list should wrap in 值 column, got %q", got)
	}
	if !strings.Contains(got, ">a<") || !strings.Contains(got, ">b<") {
		t.Errorf("missing scalar rows in %q", got)
	}
}

func TestDataset_Mapping(t *testing.T) {
	got := Dataset(map[string]any{"host": "db1", "port": float64(3306)})
	if !strings.Contains(got, ">键<") || !strings.Contains(got, ">值<") {
		t.Errorf("mapping should render key/value headers, got %q", got)
	}
	if !strings.Contains(got, ">3306<") {
		t.Errorf("numeric value should render without decimals, got %q", got)
	}
}

func TestDataset_JSONString(t *testing.T) {
	got := Dataset(`[{"id": 1}]`)
	if !strings.Contains(got, "<table") {
		t.Errorf("JSON string should parse and render as table, got %q", got)
	}

	got = Dataset("not json")
	if got != "<div>not json</div>" {
		t.Errorf("non-JSON string = %q", got)
	}
}

func TestDataset_Empty(t *testing.T) {
	if got := Dataset(nil); got != "<div>无数据</div>" {
		t.Errorf("nil dataset = %q", got)
	}
	if got := Dataset([]any{}); got != "<div>无数据</div>" {
		t.Errorf("empty list = %q", got)
	}
}

// 同一结果重复渲染必须字节一致
func TestRender_Deterministic(t *testing.T) {
	res := &executor.Result{
		Dataset: []map[string]any{
			{"c": float64(3), "a": float64(1), "b": float64(2)},
		},
	}
	first := Render(res)
	for i := 0; i < 10; i++ {
		if got := Render(res); got != first {
			t.Fatalf("render not deterministic:\nfirst: %q\ngot:   %q", first, got)
		}
	}
}
