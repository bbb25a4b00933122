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

package service

import (
	"context"
	"errors"
	"os"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/internal/engine/repo"
	"github.com/shenyubao/quickdeck/internal/pkg/executor"
	"github.com/shenyubao/quickdeck/internal/pkg/notify"
	"github.com/shenyubao/quickdeck/internal/pkg/render"
	"github.com/shenyubao/quickdeck/pkg/log"
	"github.com/shenyubao/quickdeck/pkg/metrics"
)

// RunOutcome 一次运行的最终产物：渲染输出、原始结果与错误。
// Err 非空表示运行失败，此时 Output 为错误渲染，Result 保留失败
// 前已累积的内容。
type RunOutcome struct {
	ExecutionId string
	Output      string
	Result      *executor.Result
	Err         error
}

// JobExecuteService 任务执行服务，负责整条运行编排：
// 文件参数校验 -> 凭证解析 -> 按序执行步骤 -> 渲染输出 -> 落执行记录。
type JobExecuteService struct {
	repos    *repo.Repositories
	registry *executor.Registry
	resolver *CredentialResolver
	notifier *notify.Notifier
	metrics  *metrics.Server
}

func NewJobExecuteService(
	repos *repo.Repositories,
	registry *executor.Registry,
	resolver *CredentialResolver,
	notifier *notify.Notifier,
	metricsServer *metrics.Server,
) *JobExecuteService {
	return &JobExecuteService{
		repos:    repos,
		registry: registry,
		resolver: resolver,
		notifier: notifier,
		metrics:  metricsServer,
	}
}

// Execute loads the job and its workflow, then runs the step sequence.
// A run failure is reported through RunOutcome.Err; the returned error
// is reserved for lookup problems before the run starts.
func (s *JobExecuteService) Execute(ctx context.Context, jobId int64, args map[string]any, userId int64, executionType string) (*RunOutcome, error) {
	job, err := s.repos.Job.Get(ctx, jobId)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.New("任务不存在")
	}
	workflow, err := s.repos.Workflow.GetByJob(ctx, jobId)
	if err != nil {
		return nil, err
	}
	if workflow == nil {
		return nil, errors.New("任务未配置工作流")
	}
	return s.run(ctx, job, workflow, args, userId, executionType), nil
}

// RunScheduled fires a cron-triggered run. The run outcome is persisted
// by the run itself; only lookup failures surface here.
func (s *JobExecuteService) RunScheduled(ctx context.Context, jobId int64) error {
	outcome, err := s.Execute(ctx, jobId, map[string]any{}, 0, model.ExecutionTypeScheduled)
	if err != nil {
		return err
	}
	if outcome.Err != nil {
		// already recorded and rendered, nothing more to do here
		log.Infow("scheduled run finished with failure", "jobId", jobId, "error", outcome.Err)
	}
	return nil
}

func (s *JobExecuteService) run(ctx context.Context, job *model.Job, workflow *model.Workflow, args map[string]any, userId int64, executionType string) *RunOutcome {
	if args == nil {
		args = map[string]any{}
	}
	startedAt := time.Now()
	res := &executor.Result{}

	// 文件参数引用的临时路径在所有退出路径上清理
	tempFiles, err := resolveFileOptions(workflow.Options, args)
	defer removeTempFiles(tempFiles)
	if err != nil {
		return s.finish(ctx, job, workflow, args, userId, executionType, startedAt, res, err)
	}

	applyOptionDefaults(workflow.Options, args)
	if err := validateRequiredOptions(workflow.Options, args); err != nil {
		return s.finish(ctx, job, workflow, args, userId, executionType, startedAt, res, err)
	}

	credentials, err := s.resolver.Resolve(ctx, workflow.Options, args, job.ProjectId)
	if err != nil {
		return s.finish(ctx, job, workflow, args, userId, executionType, startedAt, res, err)
	}

	rc := &executor.Context{
		JobId:       job.Id,
		JobName:     job.Name,
		UserId:      userId,
		ProjectId:   job.ProjectId,
		Timeout:     time.Duration(workflow.Timeout) * time.Second,
		Retry:       workflow.Retry,
		Credentials: credentials,
	}

	steps := make([]model.Step, len(workflow.Steps))
	copy(steps, workflow.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepOrder < steps[j].StepOrder
	})

	for _, step := range steps {
		rc.StepKind = model.NormalizeStepKind(step.StepKind)
		rc.StepExtension = map[string]any(step.Extension)

		exec, err := s.registry.Resolve(step.StepKind)
		if err != nil {
			return s.finish(ctx, job, workflow, args, userId, executionType, startedAt, res, err)
		}
		if err := exec.Execute(ctx, args, rc, res); err != nil {
			log.Errorw("step failed",
				"jobId", job.Id, "stepOrder", step.StepOrder, "stepKind", rc.StepKind, "error", err)
			return s.finish(ctx, job, workflow, args, userId, executionType, startedAt, res, err)
		}
	}

	return s.finish(ctx, job, workflow, args, userId, executionType, startedAt, res, nil)
}

// finish renders the terminal artifact, writes the execution record and
// fires notifications. Exactly one record per run, success or failure.
func (s *JobExecuteService) finish(ctx context.Context, job *model.Job, workflow *model.Workflow, args map[string]any, userId int64, executionType string, startedAt time.Time, res *executor.Result, runErr error) *RunOutcome {
	duration := time.Since(startedAt)
	status := model.ExecutionStatusSuccess
	output := ""
	errorMessage := ""
	if runErr != nil {
		status = model.ExecutionStatusFailure
		errorMessage = runErr.Error()
		output = render.Error(errorMessage)
	} else {
		output = render.Render(res)
	}

	outcome := &RunOutcome{
		ExecutionId: uuid.NewString(),
		Output:      output,
		Result:      res,
		Err:         runErr,
	}

	s.recordExecution(ctx, outcome.ExecutionId, job, args, userId, executionType, status, errorMessage, res, duration, startedAt)

	if s.metrics != nil {
		s.metrics.ObserveExecution(status, executionType, duration)
	}
	if s.notifier != nil {
		s.notifier.Dispatch(workflow.Notifications, notify.Event{
			JobId:        job.Id,
			JobName:      job.Name,
			Status:       status,
			ErrorMessage: errorMessage,
			Duration:     duration,
		})
	}
	return outcome
}

// recordExecution is fire-and-forget: a failed insert is logged and never
// changes the reported run outcome.
func (s *JobExecuteService) recordExecution(ctx context.Context, executionId string, job *model.Job, args map[string]any, userId int64, executionType, status, errorMessage string, res *executor.Result, duration time.Duration, startedAt time.Time) {
	record := &model.JobExecution{
		ExecutionId:   executionId,
		JobId:         job.Id,
		UserId:        userId,
		ExecutionType: executionType,
		Status:        status,
		Args:          datatypes.JSONMap(args),
		OutputText:    res.Text,
		Logs:          res.Logs,
		ErrorMessage:  errorMessage,
		Duration:      duration.Milliseconds(),
		ExecutedAt:    startedAt,
	}
	if res.HasDataset() {
		if raw, err := sonic.Marshal(res.Dataset); err == nil {
			record.OutputDataset = raw
		} else {
			log.Warnw("marshal output dataset failed", "jobId", job.Id, "error", err)
		}
	}
	if err := s.repos.Execution.Create(ctx, record); err != nil {
		log.Errorw("write execution record failed",
			"jobId", job.Id, "executionId", executionId, "error", err)
	}
}

// resolveFileOptions verifies that every file-typed argument references an
// existing server-local path produced by the upload endpoint. Collected
// paths are removed when the run finishes. Inline file bytes are never
// accepted.
func resolveFileOptions(options []model.Option, args map[string]any) ([]string, error) {
	var paths []string
	for _, option := range options {
		if option.OptionType != model.OptionTypeFile {
			continue
		}
		value, ok := args[option.Name]
		if !ok {
			continue
		}
		path, ok := value.(string)
		if !ok || path == "" {
			return paths, executor.NewConfigurationError("文件参数 %s 不是有效的路径", option.Name)
		}
		if _, err := os.Stat(path); err != nil {
			return paths, executor.NewConfigurationError("文件参数 %s 指向的路径不存在: %s", option.Name, path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func removeTempFiles(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warnw("remove temp file failed", "path", path, "error", err)
		}
	}
}

// applyOptionDefaults fills absent args with declared default values.
func applyOptionDefaults(options []model.Option, args map[string]any) {
	for _, option := range options {
		if option.DefaultValue == "" {
			continue
		}
		if _, ok := args[option.Name]; !ok {
			args[option.Name] = option.DefaultValue
		}
	}
}

func validateRequiredOptions(options []model.Option, args map[string]any) error {
	for _, option := range options {
		if !option.Required {
			continue
		}
		value, ok := args[option.Name]
		if !ok || value == nil || value == "" {
			return executor.NewConfigurationError("缺少必填参数: %s", option.Name)
		}
	}
	return nil
}
