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
	"strconv"
	"strings"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/internal/engine/repo"
	"github.com/shenyubao/quickdeck/internal/pkg/executor"
)

// CredentialResolver 在运行前解析工作流引用的凭证。
// 只有声明为 credential 类型的 Option 参与解析，防止通过参数注入
// 访问任意凭证；跨项目的凭证ID静默解析为空。
type CredentialResolver struct {
	credentialRepo repo.ICredentialRepository
}

func NewCredentialResolver(credentialRepo repo.ICredentialRepository) *CredentialResolver {
	return &CredentialResolver{
		credentialRepo: credentialRepo,
	}
}

// Resolve collects credential ids from args bound to credential-typed
// options, batch-fetches them scoped to projectId, and returns the
// id -> credential map. Ids that do not resolve are simply absent.
func (s *CredentialResolver) Resolve(ctx context.Context, options []model.Option, args map[string]any, projectId int64) (map[int64]*model.Credential, error) {
	var candidates []int64
	seen := make(map[int64]bool)
	for _, option := range options {
		if option.OptionType != model.OptionTypeCredential {
			continue
		}
		value, ok := args[option.Name]
		if !ok {
			continue
		}
		id, ok := credentialIdFromArg(value)
		if !ok || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return map[int64]*model.Credential{}, nil
	}

	credentials, err := s.credentialRepo.ListByIds(ctx, candidates, projectId)
	if err != nil {
		return nil, executor.NewCredentialError("解析凭证失败: %v", err)
	}

	resolved := make(map[int64]*model.Credential, len(credentials))
	for _, credential := range credentials {
		resolved[credential.Id] = credential
	}
	return resolved, nil
}

// credentialIdFromArg parses a credential id out of a user argument.
// 前端提交的参数可能是数字或数字字符串。
func credentialIdFromArg(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	}
	return 0, false
}
