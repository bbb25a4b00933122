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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// DingTalkChannel implements DingTalk robot webhook notification channel
type DingTalkChannel struct {
	webhookURL string
	secret     string // optional: signing secret, leave empty to disable
	client     *resty.Client
}

// NewDingTalkChannel creates a new DingTalk notification channel.
// secret is optional: pass empty string to disable signature verification.
func NewDingTalkChannel(webhookURL, secret string) *DingTalkChannel {
	return &DingTalkChannel{
		webhookURL: webhookURL,
		secret:     secret,
		client:     resty.New(),
	}
}

// signedURL appends timestamp and sign query parameters when a secret is
// configured. DingTalk signing: HmacSHA256 over "timestamp\nsecret" keyed
// by the secret, base64 encoded.
func (c *DingTalkChannel) signedURL() string {
	if c.secret == "" {
		return c.webhookURL
	}

	timestamp := time.Now().UnixMilli()
	stringToSign := fmt.Sprintf("%d\n%s", timestamp, c.secret)

	h := hmac.New(sha256.New, []byte(c.secret))
	h.Write([]byte(stringToSign))
	sign := base64.StdEncoding.EncodeToString(h.Sum(nil))

	sep := "?"
	if u, err := url.Parse(c.webhookURL); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return c.webhookURL + sep + "timestamp=" + strconv.FormatInt(timestamp, 10) + "&sign=" + url.QueryEscape(sign)
}

// Send sends a text message to the DingTalk robot.
func (c *DingTalkChannel) Send(ctx context.Context, message string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"msgtype": "text",
		"text": map[string]string{
			"content": message,
		},
	}

	return sendWebhookRequest(ctx, c.client, c.signedURL(), payload, webhookErrorConfig{
		codeKey: "errcode", msgKey: "errmsg", logPrefix: "dingtalk",
	})
}

// Validate validates the configuration
func (c *DingTalkChannel) Validate() error {
	if c.webhookURL == "" {
		return fmt.Errorf("dingtalk webhook URL is required")
	}
	return nil
}

// Close closes the connection
func (c *DingTalkChannel) Close() error {
	return nil
}
