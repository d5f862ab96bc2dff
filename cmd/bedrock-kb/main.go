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

// Command bedrock-kb serves an Amazon Bedrock knowledge base as an MCP tool
// over stdio.
//
// Usage:
//
//	BEDROCK_KB_ID=... BEDROCK_MODEL_ARN=... bedrock-kb serve
//	bedrock-kb serve --config config.yaml
//	bedrock-kb version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	bedrockkb "github.com/mcptools/bedrock-kb"
	"github.com/mcptools/bedrock-kb/pkg/config"
	"github.com/mcptools/bedrock-kb/pkg/kb"
	"github.com/mcptools/bedrock-kb/pkg/server"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Serve the knowledge-base tool over MCP stdio."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:""`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple or verbose)." default:""`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(bedrockkb.GetVersion().String())
	return nil
}

// ServeCmd runs the MCP stdio server.
type ServeCmd struct{}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
	}()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cleanup, err := initLogger(cli, &cfg.Logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	client, err := kb.NewClient(ctx, cfg.Region)
	if err != nil {
		return err
	}

	handler := kb.NewHandler(client, cfg.KnowledgeBaseID, cfg.ModelARN)
	srv := server.New(handler, bedrockkb.Version)

	slog.Info("MCP server ready",
		"knowledge_base_id", cfg.KnowledgeBaseID,
		"region", cfg.Region)

	return srv.Serve(ctx)
}

func main() {
	_ = config.LoadEnvFiles()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("bedrock-kb"),
		kong.Description("MCP server for Amazon Bedrock Knowledge Bases"),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
