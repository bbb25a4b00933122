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
	"github.com/google/wire"
	"gorm.io/gorm"
)

// ProviderSet provides database-related dependencies
var ProviderSet = wire.NewSet(
	ProvideManager,
	ProvideDB,
	ProvideIDatabase,
)

// IDatabase exposes the gorm handle to repositories.
type IDatabase interface {
	Database() *gorm.DB
}

type databaseAdapter struct {
	manager Manager
}

func (a *databaseAdapter) Database() *gorm.DB {
	return a.manager.DB()
}

// NewDatabaseAdapter wraps a Manager as IDatabase.
func NewDatabaseAdapter(manager Manager) IDatabase {
	return &databaseAdapter{manager: manager}
}

// ProvideManager creates and returns a database Manager instance
func ProvideManager(conf Database) (Manager, error) {
	return NewManager(conf)
}

// ProvideDB provides the gorm instance from Manager
func ProvideDB(manager Manager) *gorm.DB {
	return manager.DB()
}

// ProvideIDatabase provides the IDatabase interface instance
func ProvideIDatabase(manager Manager) IDatabase {
	return NewDatabaseAdapter(manager)
}
