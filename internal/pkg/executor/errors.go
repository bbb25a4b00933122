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
	"errors"
	"fmt"
)

// ErrorKind 引擎错误分类
type ErrorKind string

const (
	// KindConfiguration 步骤配置缺失或非法，配置期错误，不重试
	KindConfiguration ErrorKind = "configuration"
	// KindExecution 子进程非零退出、SQL 失败等运行期错误
	KindExecution ErrorKind = "execution"
	// KindTimeout 墙钟超时，处理方式同执行失败，消息不同
	KindTimeout ErrorKind = "timeout"
	// KindUnsupportedStepKind 注册表未命中
	KindUnsupportedStepKind ErrorKind = "unsupported_step_kind"
	// KindCredentialResolution 声明的凭证缺失、类型或归属不符
	KindCredentialResolution ErrorKind = "credential_resolution"
)

// Error is the engine error type. Executors raise it, the Runner
// propagates it unmodified into the terminal failure state.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewConfigurationError reports a missing or malformed step config.
func NewConfigurationError(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NewExecutionError reports a runtime step failure.
func NewExecutionError(format string, args ...any) *Error {
	return &Error{Kind: KindExecution, Message: fmt.Sprintf(format, args...)}
}

// NewExecutionErrorCause wraps a runtime failure with its cause.
func NewExecutionErrorCause(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindExecution, Message: fmt.Sprintf(format, args...), cause: cause}
}

// NewTimeoutError reports a wall-clock timeout.
func NewTimeoutError(format string, args ...any) *Error {
	return &Error{Kind: KindTimeout, Message: fmt.Sprintf(format, args...)}
}

// NewUnsupportedStepKindError reports a registry miss.
func NewUnsupportedStepKindError(kind string) *Error {
	return &Error{Kind: KindUnsupportedStepKind, Message: fmt.Sprintf("不支持的步骤类型: %s", kind)}
}

// NewCredentialError reports a credential resolution failure.
func NewCredentialError(format string, args ...any) *Error {
	return &Error{Kind: KindCredentialResolution, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind of err, or KindExecution for plain errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindExecution
}

// IsTimeout reports whether err is a timeout-class engine error.
func IsTimeout(err error) bool {
	return KindOf(err) == KindTimeout
}
