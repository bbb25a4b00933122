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
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/internal/engine/repo"
	"github.com/shenyubao/quickdeck/pkg/http"
)

func (rt *Router) executionRouter(r fiber.Router) {
	executions := r.Group("/executions")
	{
		executions.Get("/", rt.listExecutions)
		executions.Get("/:executionId", rt.getExecution)
	}
}

func (rt *Router) listExecutions(c *fiber.Ctx) error {
	query := repo.ExecutionQuery{
		JobId:         int64(rt.Http.QueryInt(c, "job_id", 0)),
		Status:        strings.TrimSpace(c.Query("status")),
		ExecutionType: strings.TrimSpace(c.Query("execution_type")),
		Page:          rt.Http.QueryInt(c, "page", 1),
		PageSize:      rt.Http.QueryInt(c, "pageSize", 20),
	}
	if query.Status != "" && query.Status != model.ExecutionStatusSuccess && query.Status != model.ExecutionStatusFailure {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "status 只能是 success 或 failure", c.Path())
	}
	if query.ExecutionType != "" && query.ExecutionType != model.ExecutionTypeManual && query.ExecutionType != model.ExecutionTypeScheduled {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "execution_type 只能是 manual 或 scheduled", c.Path())
	}

	records, total, err := rt.repos.Execution.List(c.Context(), query)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	return http.WithRep(c, fiber.Map{
		"list":     records,
		"total":    total,
		"page":     query.Page,
		"pageSize": query.PageSize,
	})
}

func (rt *Router) getExecution(c *fiber.Ctx) error {
	executionId := strings.TrimSpace(c.Params("executionId"))
	if executionId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "execution id is required", c.Path())
	}
	record, err := rt.repos.Execution.Get(c.Context(), executionId)
	if err != nil {
		return http.WithRepErrMsg(c, http.Failed.Code, err.Error(), c.Path())
	}
	if record == nil {
		return http.WithRepErrMsg(c, http.NotFound.Code, "执行记录不存在", c.Path())
	}
	return http.WithRep(c, record)
}
