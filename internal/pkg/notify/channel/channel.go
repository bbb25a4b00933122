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

package channel

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"github.com/shenyubao/quickdeck/pkg/log"
)

// IChannel is a notification delivery channel.
type IChannel interface {
	Send(ctx context.Context, message string) error
	Validate() error
	Close() error
}

type webhookErrorConfig struct {
	codeKey   string
	msgKey    string
	logPrefix string
}

// sendWebhookRequest posts a JSON payload and interprets the platform's
// {code, msg} style response body when one is configured.
func sendWebhookRequest(ctx context.Context, client *resty.Client, url string, payload map[string]interface{}, errCfg webhookErrorConfig) error {
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		return fmt.Errorf("%s webhook request failed: %w", errCfg.logPrefix, err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("%s webhook returned status %d: %s", errCfg.logPrefix, resp.StatusCode(), resp.String())
	}

	if errCfg.codeKey == "" {
		return nil
	}
	var body map[string]interface{}
	if err := sonic.Unmarshal(resp.Body(), &body); err != nil {
		// Non-JSON body with a 2xx status is treated as delivered.
		log.Debugw("webhook response not json", "prefix", errCfg.logPrefix, "body", resp.String())
		return nil
	}
	if code, ok := body[errCfg.codeKey].(float64); ok && code != 0 {
		msg, _ := body[errCfg.msgKey].(string)
		return fmt.Errorf("%s webhook rejected message, code=%d msg=%s", errCfg.logPrefix, int(code), msg)
	}
	return nil
}
