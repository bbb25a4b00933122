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
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/pkg/database"
)

// MysqlExecutor MySQL 执行器
// 根据声明的凭证建立连接并执行渲染后的 SQL。
//
// extension 配置示例:
//
//	{"sql": "SELECT * FROM users WHERE name = '{{ name }}'", "credential_id": 1}
//
// 查询语句同时写入 text（格式化 JSON）与 dataset（行记录列表）；
// 非查询语句提交后报告影响行数。连接只在本步骤内存活。
type MysqlExecutor struct {
	// open is the connection factory; tests swap it for a local driver.
	open func(cfg database.MySQLConfig) (*gorm.DB, error)
}

// NewMysqlExecutor 创建 MySQL 执行器
func NewMysqlExecutor() *MysqlExecutor {
	return &MysqlExecutor{open: openMySQL}
}

func (e *MysqlExecutor) Kind() string {
	return model.StepKindMysql
}

func (e *MysqlExecutor) Execute(ctx context.Context, args map[string]any, rc *Context, res *Result) error {
	sqlTemplate := stringFromExtension(rc.StepExtension, "sql")
	if sqlTemplate == "" {
		return NewConfigurationError("SQL 语句不能为空")
	}
	credentialId, ok := int64FromExtension(rc.StepExtension, "credential_id")
	if !ok || credentialId == 0 {
		return NewConfigurationError("MySQL 凭证ID不能为空")
	}

	credential := rc.Credential(credentialId)
	if credential == nil {
		return NewCredentialError("未找到凭证ID为 %d 的凭证", credentialId)
	}
	if credential.CredentialType != model.CredentialTypeMysql {
		return NewCredentialError("凭证ID %d 不是 MySQL 类型凭证", credentialId)
	}
	if len(credential.Config) == 0 {
		return NewCredentialError("凭证ID %d 的配置信息为空", credentialId)
	}

	connCfg, err := mysqlConnConfig(credential.Config)
	if err != nil {
		return NewCredentialError("%v", err)
	}

	statement, err := RenderTemplate(sqlTemplate, args)
	if err != nil {
		return NewConfigurationError("渲染 SQL 语句失败: %v", err)
	}

	res.AppendLogs("[MySQL SQL 语句]\n" + logSeparator + "\n" + statement + "\n" + logSeparator)

	if err := e.run(ctx, connCfg, statement, rc, res); err != nil {
		message := "MySQL 语句执行失败: " + err.Error()
		res.AppendLogs("[错误信息]\n" + message)
		return NewExecutionErrorCause(err, "%s", message)
	}
	return nil
}

// run opens a connection scoped to this step and executes the statement.
func (e *MysqlExecutor) run(ctx context.Context, cfg database.MySQLConfig, statement string, rc *Context, res *Result) error {
	runCtx, cancel := context.WithTimeout(ctx, rc.StepTimeout())
	defer cancel()

	db, err := e.open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	}()

	if isQueryStatement(statement) {
		rows, err := db.WithContext(runCtx).Raw(statement).Rows()
		if err != nil {
			return err
		}
		defer rows.Close()

		dataset, err := scanRows(rows)
		if err != nil {
			return err
		}

		formatted, err := sonic.MarshalIndent(dataset, "", "  ")
		if err != nil {
			return err
		}
		res.AppendText(string(formatted))
		res.AppendLogs("[查询结果]\n共查询到 " + strconv.Itoa(len(dataset)) + " 条记录")
		res.Dataset = dataset
		return nil
	}

	tx := db.WithContext(runCtx).Exec(statement)
	if tx.Error != nil {
		return tx.Error
	}
	message := "执行成功，影响 " + strconv.FormatInt(tx.RowsAffected, 10) + " 行"
	res.AppendText(message)
	res.AppendLogs("[执行结果]\n" + message)
	return nil
}

// isQueryStatement 简单判断 SQL 类型，不完美但够用
func isQueryStatement(statement string) bool {
	upper := strings.ToUpper(strings.TrimSpace(statement))
	return strings.HasPrefix(upper, "SELECT") ||
		strings.HasPrefix(upper, "SHOW") ||
		strings.HasPrefix(upper, "DESCRIBE") ||
		strings.HasPrefix(upper, "DESC")
}

// scanRows converts a result set into row maps with display-friendly
// values: timestamps become ISO-8601 strings, decimals become floats.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	dataset := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = coerceColumnValue(values[i], columnTypes[i])
		}
		dataset = append(dataset, row)
	}
	return dataset, rows.Err()
}

func coerceColumnValue(value any, columnType *sql.ColumnType) any {
	switch v := value.(type) {
	case time.Time:
		return v.Format("2006-01-02T15:04:05")
	case []byte:
		s := string(v)
		if isDecimalColumn(columnType) {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
		return s
	default:
		return value
	}
}

func isDecimalColumn(columnType *sql.ColumnType) bool {
	if columnType == nil {
		return false
	}
	switch strings.ToUpper(columnType.DatabaseTypeName()) {
	case "DECIMAL", "NUMERIC":
		return true
	}
	return false
}

// mysqlConnConfig maps the credential's opaque config blob to connection
// parameters.
func mysqlConnConfig(config map[string]any) (database.MySQLConfig, error) {
	cfg := database.MySQLConfig{
		Host:     stringFromExtension(config, "host"),
		User:     stringFromExtension(config, "user"),
		Password: stringFromExtension(config, "password"),
		DBName:   stringFromExtension(config, "database"),
		Port:     3306,
	}
	if port, ok := int64FromExtension(config, "port"); ok && port > 0 {
		cfg.Port = int(port)
	}
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" || cfg.DBName == "" {
		return cfg, &Error{Kind: KindCredentialResolution, Message: "MySQL 凭证配置不完整，需要 host, user, password, database"}
	}
	return cfg, nil
}

func openMySQL(cfg database.MySQLConfig) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(database.BuildMySQLDSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

// int64FromExtension reads a numeric key from the extension config,
// tolerating JSON float64, int, and string encodings.
func int64FromExtension(ext map[string]any, key string) (int64, bool) {
	if ext == nil {
		return 0, false
	}
	switch v := ext[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
