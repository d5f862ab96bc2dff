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

package kb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mitchellh/mapstructure"

	"github.com/mcptools/bedrock-kb/pkg/logger"
)

// EmptyQueryMessage is returned when the caller supplies no query text. No
// outbound call is made in that case.
const EmptyQueryMessage = "Please provide a query to search the knowledge base."

// Handler answers knowledge-base queries. It issues exactly one outbound
// RetrieveAndGenerate call per non-empty query and maps every outcome,
// success or failure, to a plain text result.
type Handler struct {
	client          RetrieveAndGenerateAPI
	knowledgeBaseID string
	modelARN        string
}

// NewHandler creates a query handler bound to one knowledge base and model.
func NewHandler(client RetrieveAndGenerateAPI, knowledgeBaseID, modelARN string) *Handler {
	return &Handler{
		client:          client,
		knowledgeBaseID: knowledgeBaseID,
		modelARN:        modelARN,
	}
}

type queryArgs struct {
	Query string `mapstructure:"query"`
}

// HandleQuery is the MCP tool handler for query_knowledge_base. An absent
// argument map and an argument map without the query field are both treated
// as an empty query.
func (h *Handler) HandleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args queryArgs
	if raw := req.GetArguments(); raw != nil {
		if err := mapstructure.Decode(raw, &args); err != nil {
			return mcp.NewToolResultText(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
	}
	return mcp.NewToolResultText(h.Query(ctx, args.Query)), nil
}

// Query runs a single knowledge-base query and returns the formatted result.
// It never returns an error; failures come back as descriptive text.
func (h *Handler) Query(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		return EmptyQueryMessage
	}

	log := logger.GetLogger().With("request_id", uuid.NewString())
	log.Info("querying knowledge base", "knowledge_base_id", h.knowledgeBaseID)

	out, err := h.client.RetrieveAndGenerate(ctx, &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &brtypes.RetrieveAndGenerateInput{
			Text: aws.String(query),
		},
		RetrieveAndGenerateConfiguration: &brtypes.RetrieveAndGenerateConfiguration{
			Type: brtypes.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &brtypes.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId: aws.String(h.knowledgeBaseID),
				ModelArn:        aws.String(h.modelARN),
			},
		},
	})
	if err != nil {
		log.Error("retrieve and generate failed", "error", err)
		return describeError(err)
	}

	log.Info("retrieve and generate succeeded", "citations", len(out.Citations))
	return FormatResult(query, out)
}
