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
	"strings"
	"testing"

	"gorm.io/datatypes"

	"github.com/shenyubao/quickdeck/internal/engine/model"
)

func TestPythonScriptExecutor_EmptyScript(t *testing.T) {
	e := NewPythonScriptExecutor()
	rc := &Context{StepExtension: map[string]any{}}

	err := e.Execute(context.Background(), nil, rc, &Result{})
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindConfiguration {
		t.Errorf("KindOf() = %v", KindOf(err))
	}
}

func TestBuildPythonDriver(t *testing.T) {
	rc := &Context{
		Credentials: map[int64]*model.Credential{
			9: {
				BaseModel:      model.BaseModel{Id: 9},
				Name:           "prod-db",
				CredentialType: model.CredentialTypeMysql,
				Config:         datatypes.JSONMap{"host": "db.internal"},
			},
		},
	}
	script := "def execute(args):\n    return args['name'], None"

	driver, err := buildPythonDriver(script, map[string]any{"name": "alice"}, rc)
	if err != nil {
		t.Fatalf("buildPythonDriver() error = %v", err)
	}

	if !strings.Contains(driver, script) {
		t.Error("driver should embed user script verbatim")
	}
	if strings.Contains(driver, "__USER_SCRIPT__") ||
		strings.Contains(driver, "__ARGS_JSON__") ||
		strings.Contains(driver, "__CREDENTIALS_JSON__") ||
		strings.Contains(driver, "__CPU_LIMIT__") ||
		strings.Contains(driver, "__MEM_LIMIT__") {
		t.Error("driver left placeholders unfilled")
	}
	// 参数以字符串字面量嵌入，内部引号被转义
	if !strings.Contains(driver, `\"name\":\"alice\"`) {
		t.Errorf("driver should embed args as an escaped JSON literal")
	}
	if !strings.Contains(driver, "prod-db") {
		t.Error("driver should embed resolved credentials")
	}
}

func TestPythonJSONLiteral(t *testing.T) {
	got, err := pythonJSONLiteral(map[string]any{"a": "b"})
	if err != nil {
		t.Fatalf("pythonJSONLiteral() error = %v", err)
	}
	if got != `"{\"a\":\"b\"}"` {
		t.Errorf("pythonJSONLiteral() = %s", got)
	}
}

func TestApplyPythonResult(t *testing.T) {
	dir := t.TempDir()

	t.Run("正常结果", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		payload := `{"text": "done", "dataset": [{"id": 1}]}`
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatal(err)
		}

		res := &Result{}
		applyPythonResult(res, path)
		if res.Text != "done" {
			t.Errorf("Text = %q", res.Text)
		}
		if !res.HasDataset() {
			t.Error("dataset should be set")
		}
	})

	t.Run("结果文件缺失", func(t *testing.T) {
		res := &Result{Text: "partial"}
		applyPythonResult(res, filepath.Join(dir, "missing.json"))
		if res.Text != "partial" {
			t.Errorf("Text = %q, want untouched", res.Text)
		}
	})

	t.Run("结果文件损坏", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		res := &Result{}
		applyPythonResult(res, path)
		if res.Text != "" || res.Dataset != nil {
			t.Error("broken result file should be ignored")
		}
	})
}
