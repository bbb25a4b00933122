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
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/pkg/database"
)

func mysqlCredential(id int64) *model.Credential {
	return &model.Credential{
		BaseModel:      model.BaseModel{Id: id},
		CredentialType: model.CredentialTypeMysql,
		Config: datatypes.JSONMap{
			"host":     "127.0.0.1",
			"port":     float64(3306),
			"user":     "root",
			"password": "secret",
			"database": "app",
		},
	}
}

// 用本地 sqlite 文件替换连接工厂，语句执行路径与 MySQL 一致
func sqliteBackedExecutor(t *testing.T) (*MysqlExecutor, *gorm.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exec.db")

	seed, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	e := NewMysqlExecutor()
	e.open = func(cfg database.MySQLConfig) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	}
	return e, seed
}

func TestMysqlExecutor_Validation(t *testing.T) {
	e := NewMysqlExecutor()

	tests := []struct {
		name        string
		extension   map[string]any
		credentials map[int64]*model.Credential
		wantKind    ErrorKind
		wantMsg     string
	}{
		{
			name:      "SQL 为空",
			extension: map[string]any{"credential_id": float64(1)},
			wantKind:  KindConfiguration,
			wantMsg:   "SQL 语句不能为空",
		},
		{
			name:      "凭证ID为空",
			extension: map[string]any{"sql": "SELECT 1"},
			wantKind:  KindConfiguration,
			wantMsg:   "MySQL 凭证ID不能为空",
		},
		{
			name:      "凭证不存在",
			extension: map[string]any{"sql": "SELECT 1", "credential_id": float64(7)},
			wantKind:  KindCredentialResolution,
			wantMsg:   "未找到凭证ID为 7 的凭证",
		},
		{
			name:      "凭证类型不匹配",
			extension: map[string]any{"sql": "SELECT 1", "credential_id": float64(3)},
			credentials: map[int64]*model.Credential{
				3: {BaseModel: model.BaseModel{Id: 3}, CredentialType: model.CredentialTypeOss, Config: datatypes.JSONMap{"x": "y"}},
			},
			wantKind: KindCredentialResolution,
			wantMsg:  "不是 MySQL 类型凭证",
		},
		{
			name:      "凭证配置不完整",
			extension: map[string]any{"sql": "SELECT 1", "credential_id": float64(5)},
			credentials: map[int64]*model.Credential{
				5: {BaseModel: model.BaseModel{Id: 5}, CredentialType: model.CredentialTypeMysql, Config: datatypes.JSONMap{"host": "h"}},
			},
			wantKind: KindCredentialResolution,
			wantMsg:  "凭证配置不完整",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := &Context{StepExtension: tt.extension, Credentials: tt.credentials}
			err := e.Execute(context.Background(), nil, rc, &Result{})
			if err == nil {
				t.Fatal("expected error")
			}
			if KindOf(err) != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", KindOf(err), tt.wantKind)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestMysqlExecutor_Query(t *testing.T) {
	e, seed := sqliteBackedExecutor(t)
	if err := seed.Exec("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := seed.Exec("INSERT INTO users (id, name) VALUES (1, 'alice'), (2, 'bob')").Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	rc := &Context{
		StepExtension: map[string]any{"sql": "SELECT id, name FROM users ORDER BY id", "credential_id": float64(1)},
		Credentials:   map[int64]*model.Credential{1: mysqlCredential(1)},
	}
	res := &Result{}

	if err := e.Execute(context.Background(), nil, rc, res); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	dataset, ok := res.Dataset.([]map[string]any)
	if !ok {
		t.Fatalf("Dataset type = %T", res.Dataset)
	}
	if len(dataset) != 2 {
		t.Fatalf("len(dataset) = %d, want 2", len(dataset))
	}
	if dataset[0]["name"] != "alice" {
		t.Errorf("dataset[0][name] = %v", dataset[0]["name"])
	}
	if !strings.Contains(res.Text, `"name"`) {
		t.Errorf("Text %q should contain formatted rows", res.Text)
	}
	if !strings.Contains(res.Logs, "共查询到 2 条记录") {
		t.Errorf("Logs = %q", res.Logs)
	}
}

func TestMysqlExecutor_Exec(t *testing.T) {
	e, seed := sqliteBackedExecutor(t)
	if err := seed.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, label TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	rc := &Context{
		StepExtension: map[string]any{"sql": "INSERT INTO items (id, label) VALUES (1, 'x')", "credential_id": float64(1)},
		Credentials:   map[int64]*model.Credential{1: mysqlCredential(1)},
	}
	res := &Result{}

	if err := e.Execute(context.Background(), nil, rc, res); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(res.Text, "执行成功，影响 1 行") {
		t.Errorf("Text = %q", res.Text)
	}
	if res.HasDataset() {
		t.Error("non-query statement should not set dataset")
	}
}

func TestMysqlExecutor_SQLTemplate(t *testing.T) {
	e, seed := sqliteBackedExecutor(t)
	if err := seed.Exec("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := seed.Exec("INSERT INTO users (id, name) VALUES (1, 'alice')").Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	rc := &Context{
		StepExtension: map[string]any{"sql": "SELECT id FROM users WHERE name = '{{ name }}'", "credential_id": float64(1)},
		Credentials:   map[int64]*model.Credential{1: mysqlCredential(1)},
	}
	res := &Result{}

	if err := e.Execute(context.Background(), map[string]any{"name": "alice"}, rc, res); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	dataset, _ := res.Dataset.([]map[string]any)
	if len(dataset) != 1 {
		t.Fatalf("len(dataset) = %d, want 1", len(dataset))
	}
}

func TestIsQueryStatement(t *testing.T) {
	tests := []struct {
		statement string
		want      bool
	}{
		{"SELECT * FROM t", true},
		{"  select 1", true},
		{"SHOW TABLES", true},
		{"DESCRIBE t", true},
		{"INSERT INTO t VALUES (1)", false},
		{"UPDATE t SET a = 1", false},
		{"DELETE FROM t", false},
	}
	for _, tt := range tests {
		if got := isQueryStatement(tt.statement); got != tt.want {
			t.Errorf("isQueryStatement(%q) = %v, want %v", tt.statement, got, tt.want)
		}
	}
}

func TestCoerceColumnValue(t *testing.T) {
	ts := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	if got := coerceColumnValue(ts, nil); got != "2025-03-15T10:30:00" {
		t.Errorf("time value = %v", got)
	}
	if got := coerceColumnValue([]byte("hello"), nil); got != "hello" {
		t.Errorf("bytes value = %v", got)
	}
	if got := coerceColumnValue(int64(42), nil); got != int64(42) {
		t.Errorf("int value = %v", got)
	}
}
