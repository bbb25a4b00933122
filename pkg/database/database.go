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

package database

import (
	"time"
)

// Database 数据库配置
type Database struct {
	Driver       string      `mapstructure:"driver"` // mysql | sqlite
	MySQL        MySQLConfig `mapstructure:"mysql"`
	SQLitePath   string      `mapstructure:"sqlitePath"`
	MaxOpenConns int         `mapstructure:"maxOpenConns"`
	MaxIdleConns int         `mapstructure:"maxIdleConns"`
	MaxLifetime  int         `mapstructure:"maxLifetime"` // 秒
	MaxIdleTime  int         `mapstructure:"maxIdleTime"` // 秒
	OutPut       bool        `mapstructure:"output"`      // 是否输出 SQL 日志
}

// MySQLConfig MySQL 连接配置
type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbName"`
}

// SetDefaults fills zero-valued pool settings.
func (d *Database) SetDefaults() {
	if d.Driver == "" {
		d.Driver = "mysql"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = 50
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 10
	}
	if d.MaxLifetime == 0 {
		d.MaxLifetime = 3600
	}
	if d.MaxIdleTime == 0 {
		d.MaxIdleTime = 600
	}
	if d.MySQL.Port == 0 {
		d.MySQL.Port = 3306
	}
}

// GetConnMaxLifetime converts the configured lifetime to a duration.
func GetConnMaxLifetime(seconds int) time.Duration {
	if seconds <= 0 {
		return time.Hour
	}
	return time.Duration(seconds) * time.Second
}

// GetConnMaxIdleTime converts the configured idle time to a duration.
func GetConnMaxIdleTime(seconds int) time.Duration {
	if seconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(seconds) * time.Second
}
