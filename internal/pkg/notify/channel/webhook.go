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

	"github.com/go-resty/resty/v2"
)

// WebhookChannel posts notification messages to a plain HTTP webhook.
type WebhookChannel struct {
	webhookURL string
	client     *resty.Client
}

// NewWebhookChannel creates a generic webhook notification channel.
func NewWebhookChannel(webhookURL string) *WebhookChannel {
	return &WebhookChannel{
		webhookURL: webhookURL,
		client:     resty.New(),
	}
}

// Send posts the message as a JSON body {"content": message}.
func (c *WebhookChannel) Send(ctx context.Context, message string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	payload := map[string]interface{}{
		"content": message,
	}
	return sendWebhookRequest(ctx, c.client, c.webhookURL, payload, webhookErrorConfig{
		logPrefix: "webhook",
	})
}

// Validate validates the configuration
func (c *WebhookChannel) Validate() error {
	if c.webhookURL == "" {
		return fmt.Errorf("webhook URL is required")
	}
	return nil
}

// Close closes the connection
func (c *WebhookChannel) Close() error {
	return nil
}
