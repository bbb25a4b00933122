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

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/wire"
	"gorm.io/datatypes"

	"github.com/shenyubao/quickdeck/internal/engine/model"
	"github.com/shenyubao/quickdeck/internal/pkg/notify/channel"
	"github.com/shenyubao/quickdeck/pkg/log"
)

// ProviderSet 提供通知相关的依赖
var ProviderSet = wire.NewSet(
	NewNotifier,
)

// Notification 工作流上的单条通知配置
type Notification struct {
	Trigger          string         `json:"trigger"`
	NotificationType string         `json:"notification_type"`
	Extensions       map[string]any `json:"extensions"`
}

// Event describes one finished run for notification purposes.
type Event struct {
	JobId        int64
	JobName      string
	Status       string
	ErrorMessage string
	Duration     time.Duration
}

type Notifier struct {
	sendTimeout time.Duration
}

func NewNotifier() *Notifier {
	return &Notifier{sendTimeout: 10 * time.Second}
}

// ParseNotifications decodes the workflow's notification config list.
// A nil or empty column means no notifications are configured.
func ParseNotifications(raw datatypes.JSON) ([]Notification, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var notifications []Notification
	if err := sonic.Unmarshal(raw, &notifications); err != nil {
		return nil, fmt.Errorf("parse notifications failed: %w", err)
	}
	return notifications, nil
}

// Dispatch fires every configured notification whose trigger matches the
// run outcome. Delivery is best-effort: failures are logged and never
// affect the run result.
func (n *Notifier) Dispatch(raw datatypes.JSON, event Event) {
	notifications, err := ParseNotifications(raw)
	if err != nil {
		log.Warnw("invalid notification config", "jobId", event.JobId, "error", err)
		return
	}

	trigger := model.NotificationTriggerOnSuccess
	if event.Status == model.ExecutionStatusFailure {
		trigger = model.NotificationTriggerOnFailure
	}

	for _, notification := range notifications {
		if notification.Trigger != trigger {
			continue
		}
		ch, err := n.buildChannel(notification)
		if err != nil {
			log.Warnw("build notification channel failed",
				"jobId", event.JobId, "type", notification.NotificationType, "error", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
		if err := ch.Send(ctx, n.buildMessage(event)); err != nil {
			log.Warnw("send notification failed",
				"jobId", event.JobId, "type", notification.NotificationType, "error", err)
		}
		cancel()
		_ = ch.Close()
	}
}

func (n *Notifier) buildChannel(notification Notification) (channel.IChannel, error) {
	webhookURL, _ := notification.Extensions["webhook_url"].(string)
	switch notification.NotificationType {
	case model.NotificationTypeWebhook:
		return channel.NewWebhookChannel(webhookURL), nil
	case model.NotificationTypeDingtalkWebhook:
		secret, _ := notification.Extensions["secret"].(string)
		return channel.NewDingTalkChannel(webhookURL, secret), nil
	default:
		return nil, fmt.Errorf("unsupported notification type: %s", notification.NotificationType)
	}
}

func (n *Notifier) buildMessage(event Event) string {
	if event.Status == model.ExecutionStatusFailure {
		return fmt.Sprintf("任务 [%s] 执行失败\n耗时: %s\n错误信息: %s",
			event.JobName, event.Duration.Round(time.Millisecond), event.ErrorMessage)
	}
	return fmt.Sprintf("任务 [%s] 执行成功\n耗时: %s",
		event.JobName, event.Duration.Round(time.Millisecond))
}
