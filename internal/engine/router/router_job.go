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
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/pkg/http"
)

func (rt *Router) jobRouter(r fiber.Router) {
	jobs := r.Group("/jobs")
	{
		jobs.Post("/:jobId/run", rt.runJob)
	}
}

// runJob triggers one manual run and blocks until it finishes.
func (rt *Router) runJob(c *fiber.Ctx) error {
	jobId, err := strconv.ParseInt(strings.TrimSpace(c.Params("jobId")), 10, 64)
	if err != nil || jobId <= 0 {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "job id is required", c.Path())
	}

	var req struct {
		Args map[string]any `json:"args"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	outcome, err := rt.jobExecute.Execute(c.Context(), jobId, req.Args, rt.currentUserId(c), model.ExecutionTypeManual)
	if err != nil {
		return http.WithRepErrMsg(c, http.NotFound.Code, err.Error(), c.Path())
	}

	data := fiber.Map{
		"executionId": outcome.ExecutionId,
		"output":      outcome.Output,
		"result": fiber.Map{
			"text":    outcome.Result.Text,
			"dataset": outcome.Result.Dataset,
			"logs":    outcome.Result.Logs,
		},
	}
	if outcome.Err != nil {
		data["error"] = outcome.Err.Error()
	}
	return http.WithRep(c, data)
}

// currentUserId 认证不在引擎范围内，调用方通过请求头传用户ID。
func (rt *Router) currentUserId(c *fiber.Ctx) int64 {
	userId, err := strconv.ParseInt(strings.TrimSpace(c.Get("X-User-Id")), 10, 64)
	if err != nil {
		return 0
	}
	return userId
}
