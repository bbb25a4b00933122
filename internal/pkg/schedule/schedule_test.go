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

package schedule

import (
	"testing"
	"time"

	"github.com/shenyubao/quickdeck/internal/engine/model"
)

func TestDueBetween(t *testing.T) {
	// 10:00:30 -> 10:01:30，跨过了 10:01 这个整分钟
	prev := time.Date(2025, 6, 1, 10, 0, 30, 0, time.UTC)
	now := prev.Add(time.Minute)

	tests := []struct {
		name     string
		crontab  string
		timezone string
		want     bool
		wantErr  bool
	}{
		{
			name:    "每分钟触发",
			crontab: "* * * * *",
			want:    true,
		},
		{
			name:    "窗口外的固定时刻不触发",
			crontab: "0 3 * * *",
			want:    false,
		},
		{
			name:    "窗口内的固定分钟触发",
			crontab: "1 10 * * *",
			want:    true,
		},
		{
			name:     "指定时区",
			crontab:  "1 18 * * *", // UTC 10:01 即上海 18:01
			timezone: "Asia/Shanghai",
			want:     true,
		},
		{
			name:    "非法表达式",
			crontab: "not a crontab",
			wantErr: true,
		},
		{
			name:     "非法时区",
			crontab:  "* * * * *",
			timezone: "Mars/Olympus",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workflow := &model.Workflow{
				ScheduleCrontab:  tt.crontab,
				ScheduleTimezone: tt.timezone,
			}
			got, err := dueBetween(workflow, prev, now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("dueBetween() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("dueBetween() = %v, want %v", got, tt.want)
			}
		})
	}
}

// 边界：触发点恰好等于本轮时间点时算触发，等于上一轮时间点时不算
func TestDueBetween_Boundaries(t *testing.T) {
	workflow := &model.Workflow{ScheduleCrontab: "5 10 * * *"}

	fire := time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC)

	due, err := dueBetween(workflow, fire.Add(-time.Minute), fire)
	if err != nil {
		t.Fatal(err)
	}
	if !due {
		t.Error("fire time equal to now should be due")
	}

	due, err = dueBetween(workflow, fire, fire.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if due {
		t.Error("fire time equal to prev should not be due again")
	}
}

func TestSchedulerInflightDedup(t *testing.T) {
	s := NewScheduler(nil, nil)

	if !s.tryAcquire(1) {
		t.Fatal("first acquire should succeed")
	}
	if s.tryAcquire(1) {
		t.Error("second acquire for the same job should fail")
	}
	if !s.tryAcquire(2) {
		t.Error("a different job should acquire independently")
	}
	s.release(1)
	if !s.tryAcquire(1) {
		t.Error("acquire after release should succeed")
	}
}
