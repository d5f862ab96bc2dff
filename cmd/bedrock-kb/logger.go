// Copyright 2025 The bedrock-kb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/mcptools/bedrock-kb/pkg/config"
	"github.com/mcptools/bedrock-kb/pkg/logger"
)

const (
	// LogLevelEnvVar is the environment variable name for log level
	LogLevelEnvVar = "LOG_LEVEL"
	// LogFileEnvVar is the environment variable name for log file path
	LogFileEnvVar = "LOG_FILE"
	// LogFormatEnvVar is the environment variable name for log format
	LogFormatEnvVar = "LOG_FORMAT"
)

// initLogger initializes the logger.
// Priority: CLI flags > env vars > config file > defaults.
// Returns a cleanup function when a log file was opened.
func initLogger(cli *CLI, cfg *config.LoggerConfig) (func(), error) {
	logLevel := firstNonEmpty(cli.LogLevel, os.Getenv(LogLevelEnvVar), cfg.Level, "info")
	logFile := firstNonEmpty(cli.LogFile, os.Getenv(LogFileEnvVar), cfg.File)
	logFormat := firstNonEmpty(cli.LogFormat, os.Getenv(LogFormatEnvVar), cfg.Format, "simple")

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	output := os.Stderr
	var cleanup func()
	if logFile != "" {
		file, cleanupFn, err := logger.OpenLogFile(logFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		cleanup = cleanupFn
	}

	logger.Init(level, output, logFormat)
	return cleanup, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
