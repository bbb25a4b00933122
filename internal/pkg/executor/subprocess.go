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
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
)

// processOutput 子进程执行结果
type processOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// runProcess runs a subprocess with a hard wall-clock limit. The calling
// goroutine blocks until the process exits or the deadline elapses, at
// which point the process is killed and TimedOut is set. A returned error
// means the process could not be run at all, not that it exited non-zero.
func runProcess(ctx context.Context, timeout time.Duration, env []string, name string, args ...string) (*processOutput, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	out := &processOutput{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		TimedOut: runCtx.Err() == context.DeadlineExceeded,
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		if out.TimedOut {
			out.ExitCode = -1
			return out, nil
		}
		return out, errors.Wrapf(runErr, "启动子进程失败: %s", name)
	}
	return out, nil
}

// writeTempScript materializes script content as an executable temp file.
// The returned cleanup must run on every exit path so no script file
// outlives its step, including timeout and error paths.
func writeTempScript(content, suffix string) (string, func(), error) {
	f, err := os.CreateTemp("", "quickdeck-*"+suffix)
	if err != nil {
		return "", nil, errors.Wrap(err, "创建临时脚本文件失败")
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, errors.Wrap(err, "写入临时脚本文件失败")
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, errors.Wrap(err, "关闭临时脚本文件失败")
	}
	if err := os.Chmod(path, 0o755); err != nil {
		cleanup()
		return "", nil, errors.Wrap(err, "设置脚本执行权限失败")
	}
	return path, cleanup, nil
}
