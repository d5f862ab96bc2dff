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

// Package server assembles the MCP server: one tool, registered explicitly at
// startup, served over stdio.
package server

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mcptools/bedrock-kb/pkg/kb"
)

const (
	// ServerName is announced to the client during initialize.
	ServerName = "bedrock-kb"

	// ToolName is the one capability this server exposes.
	ToolName = "query_knowledge_base"
)

const instructions = `Query an Amazon Bedrock knowledge base. Call ` + ToolName + ` with a natural-language question to retrieve relevant documents and a generated answer with source citations.`

// Server wraps the MCP server with the knowledge-base tool wired in.
type Server struct {
	mcpServer *server.MCPServer
}

// New creates the MCP server and registers the query tool. Routing by tool
// name and rejection of unknown names is handled by the protocol layer;
// repeated tools/list calls always return the same single descriptor.
func New(handler *kb.Handler, version string) *Server {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool(ToolName,
			mcp.WithDescription("Query the Amazon Bedrock knowledge base. Retrieves relevant documents and generates an answer with source citations."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The question to ask the knowledge base."),
			),
		),
		handler.HandleQuery,
	)

	return &Server{mcpServer: s}
}

// Serve runs the stdio transport until the client disconnects or ctx is
// cancelled. Messages are handled one at a time, in arrival order.
func (s *Server) Serve(ctx context.Context) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, os.Stdout)
}

// HandleMessage processes a single raw JSON-RPC message. Exposed for tests
// and alternative transports.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}
