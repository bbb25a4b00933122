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
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookChannel_Send(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ch := NewWebhookChannel(srv.URL)
	if err := ch.Send(context.Background(), "运行完成"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !strings.Contains(body, "运行完成") {
		t.Errorf("posted body = %q", body)
	}
}

func TestWebhookChannel_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewWebhookChannel(srv.URL).Send(context.Background(), "msg")
	if err == nil {
		t.Fatal("expected error on 5xx status")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestWebhookChannel_Validate(t *testing.T) {
	if err := NewWebhookChannel("").Validate(); err == nil {
		t.Error("empty URL should not validate")
	}
	if err := NewWebhookChannel("http://x").Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

// 平台 200 响应但业务码非零时按失败处理
func TestDingTalkChannel_PlatformReject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errcode": 310000, "errmsg": "sign not match"}`))
	}))
	defer srv.Close()

	err := NewDingTalkChannel(srv.URL, "").Send(context.Background(), "msg")
	if err == nil {
		t.Fatal("expected error on non-zero errcode")
	}
	if !strings.Contains(err.Error(), "sign not match") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestDingTalkChannel_SignedURL(t *testing.T) {
	ch := NewDingTalkChannel("https://oapi.dingtalk.com/robot/send?access_token=abc", "secret123")
	signed := ch.signedURL()

	if !strings.Contains(signed, "&timestamp=") {
		t.Errorf("signed URL %q should append timestamp with &", signed)
	}
	if !strings.Contains(signed, "&sign=") {
		t.Errorf("signed URL %q should append sign", signed)
	}

	// 未配置密钥时不加签
	plain := NewDingTalkChannel("https://oapi.dingtalk.com/robot/send", "")
	if got := plain.signedURL(); got != "https://oapi.dingtalk.com/robot/send" {
		t.Errorf("signedURL() = %q", got)
	}
}

func TestDingTalkChannel_Accepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errcode": 0, "errmsg": "ok"}`))
	}))
	defer srv.Close()

	if err := NewDingTalkChannel(srv.URL, "").Send(context.Background(), "msg"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}
