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
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/shenyubao/quickdeck/pkg/http"
	"github.com/shenyubao/quickdeck/pkg/log"
)

func (rt *Router) uploadRouter(r fiber.Router) {
	r.Post("/upload", rt.uploadFile)
}

// uploadFile stores a multipart file under the upload dir and returns its
// server-local path. File-typed workflow options reference this path; the
// runner removes it when the run finishes.
func (rt *Router) uploadFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "缺少上传文件", c.Path())
	}

	if err := os.MkdirAll(rt.upload.Dir, 0o755); err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}

	// 随机前缀避免同名覆盖
	filename := uuid.NewString() + "_" + filepath.Base(fileHeader.Filename)
	localPath := filepath.Join(rt.upload.Dir, filename)
	if err := c.SaveFile(fileHeader, localPath); err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}

	// 可选镜像到对象存储，失败不影响本地上传结果
	if rt.upload.Mirror && rt.storage != nil {
		if err := rt.mirrorToStorage(c, filename, localPath); err != nil {
			log.Warnw("mirror upload to object storage failed", "path", localPath, "error", err)
		}
	}

	return http.WithRep(c, fiber.Map{
		"path":     localPath,
		"filename": fileHeader.Filename,
		"size":     fileHeader.Size,
	})
}

func (rt *Router) mirrorToStorage(c *fiber.Ctx, objectName, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	_, err = rt.storage.Upload(c.Context(), objectName, f, info.Size())
	return err
}
