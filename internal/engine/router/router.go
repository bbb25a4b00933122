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

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"

	"github.com/shenyubao/quickdeck/internal/engine/repo"
	"github.com/shenyubao/quickdeck/internal/engine/service"
	"github.com/shenyubao/quickdeck/internal/pkg/storage"
	"github.com/shenyubao/quickdeck/pkg/http"
)

// ProviderSet 提供路由相关的依赖
var ProviderSet = wire.NewSet(
	NewRouter,
)

// UploadConfig 上传接口配置
type UploadConfig struct {
	Dir    string `mapstructure:"dir"`
	Mirror bool   `mapstructure:"mirror"` // 是否同步上传到对象存储
}

func (u *UploadConfig) SetDefaults() {
	if u.Dir == "" {
		u.Dir = "/tmp/quickdeck/uploads"
	}
}

// Router 注册引擎对外的 HTTP 接口
type Router struct {
	Http *http.Http

	jobExecute *service.JobExecuteService
	repos      *repo.Repositories
	storage    storage.IStorage // 可为 nil，未配置对象存储时只存本地
	upload     UploadConfig
}

func NewRouter(httpConf *http.Http, jobExecute *service.JobExecuteService, repos *repo.Repositories, store storage.IStorage, upload UploadConfig) *Router {
	upload.SetDefaults()
	return &Router{
		Http:       httpConf,
		jobExecute: jobExecute,
		repos:      repos,
		storage:    store,
		upload:     upload,
	}
}

// Register mounts all engine routes under /api.
func (rt *Router) Register(app *fiber.App) {
	api := app.Group("/api")
	rt.jobRouter(api)
	rt.executionRouter(api)
	rt.uploadRouter(api)
}
