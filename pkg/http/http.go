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

package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Http HTTP 服务配置
type Http struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	AccessLog       bool   `mapstructure:"accessLog"`
	ReadTimeout     int    `mapstructure:"readTimeout"`
	WriteTimeout    int    `mapstructure:"writeTimeout"`
	IdleTimeout     int    `mapstructure:"idleTimeout"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
	BodyLimit       int    `mapstructure:"bodyLimit"` // 请求体大小限制（字节），默认 100MB
}

func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "127.0.0.1"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.ReadTimeout == 0 {
		h.ReadTimeout = 60
	}
	if h.WriteTimeout == 0 {
		h.WriteTimeout = 60
	}
	if h.IdleTimeout == 0 {
		h.IdleTimeout = 60
	}
	if h.ShutdownTimeout == 0 {
		h.ShutdownTimeout = 10
	}
	if h.BodyLimit == 0 {
		h.BodyLimit = 100 * 1024 * 1024 // 100MB
	}
}

// QueryInt queries the int value from the query string
func (h *Http) QueryInt(c *fiber.Ctx, key string, def int) int {
	value := c.Query(key)
	if value == "" {
		return def
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return intValue
}

// Rep 统一响应结构
type Rep struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
	Path string `json:"path,omitempty"`
}

// RepCode pairs a business code with its default message.
type RepCode struct {
	Code int
	Msg  string
}

var (
	Success                       = RepCode{Code: 0, Msg: "success"}
	Failed                        = RepCode{Code: 10001, Msg: "failed"}
	BadRequest                    = RepCode{Code: 10002, Msg: "bad request"}
	NotFound                      = RepCode{Code: 10004, Msg: "not found"}
	RequestParameterParsingFailed = RepCode{Code: 10005, Msg: "request parameter parsing failed"}
)

// WithRep responds with the success envelope and the given data.
func WithRep(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Rep{
		Code: Success.Code,
		Msg:  Success.Msg,
		Data: data,
	})
}

// WithRepErrMsg responds with the error envelope.
func WithRepErrMsg(c *fiber.Ctx, code int, msg, path string) error {
	return c.Status(fiber.StatusOK).JSON(Rep{
		Code: code,
		Msg:  msg,
		Path: path,
	})
}
