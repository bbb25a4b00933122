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

package main

import (
	"flag"

	"github.com/shenyubao/quickdeck/internal/engine/bootstrap"
	"github.com/shenyubao/quickdeck/pkg/env"
)

var configFile string

func init() {
	// 环境变量优先级低于命令行参数
	flag.StringVar(&configFile, "conf",
		env.GetEnvString("QUICKDECK_CONFIG", "conf.d/config.toml"),
		"config file path, e.g. -conf ./conf.d/config.toml")
}

func main() {
	flag.Parse()

	app, cleanup, err := bootstrap.InitApp(configFile)
	if err != nil {
		panic(err)
	}

	// 启动应用并等待退出信号
	bootstrap.Run(app, cleanup)
}
