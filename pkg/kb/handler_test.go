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
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/smithy-go"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetrieveClient struct {
	calls     int
	lastInput *bedrockagentruntime.RetrieveAndGenerateInput
	output    *bedrockagentruntime.RetrieveAndGenerateOutput
	err       error
}

func (f *fakeRetrieveClient) RetrieveAndGenerate(_ context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, _ ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error) {
	f.calls++
	f.lastInput = params
	return f.output, f.err
}

func answerOutput(answer string, citations ...brtypes.Citation) *bedrockagentruntime.RetrieveAndGenerateOutput {
	return &bedrockagentruntime.RetrieveAndGenerateOutput{
		Output:    &brtypes.RetrieveAndGenerateOutput{Text: aws.String(answer)},
		Citations: citations,
	}
}

func s3Citation(uris ...string) brtypes.Citation {
	refs := make([]brtypes.RetrievedReference, 0, len(uris))
	for _, uri := range uris {
		refs = append(refs, brtypes.RetrievedReference{
			Location: &brtypes.RetrievalResultLocation{
				S3Location: &brtypes.RetrievalResultS3Location{Uri: aws.String(uri)},
			},
		})
	}
	return brtypes.Citation{RetrievedReferences: refs}
}

func TestQuery_EmptyQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty string", ""},
		{"spaces only", "   "},
		{"mixed whitespace", " \t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRetrieveClient{output: answerOutput("should not be reached")}
			h := NewHandler(fake, "KB123", "arn:aws:bedrock:us-west-2::foundation-model/test")

			result := h.Query(context.Background(), tt.query)

			assert.Equal(t, EmptyQueryMessage, result)
			assert.Equal(t, 0, fake.calls, "no outbound call for empty query")
		})
	}
}

func TestQuery_ExactlyOneOutboundCall(t *testing.T) {
	fake := &fakeRetrieveClient{output: answerOutput("the answer")}
	h := NewHandler(fake, "KB123", "arn:aws:bedrock:us-west-2::foundation-model/test")

	h.Query(context.Background(), "what is the capital of France?")

	require.Equal(t, 1, fake.calls)
	require.NotNil(t, fake.lastInput)
	assert.Equal(t, "what is the capital of France?", aws.ToString(fake.lastInput.Input.Text))

	rgc := fake.lastInput.RetrieveAndGenerateConfiguration
	require.NotNil(t, rgc)
	assert.Equal(t, brtypes.RetrieveAndGenerateTypeKnowledgeBase, rgc.Type)
	require.NotNil(t, rgc.KnowledgeBaseConfiguration)
	assert.Equal(t, "KB123", aws.ToString(rgc.KnowledgeBaseConfiguration.KnowledgeBaseId))
	assert.Equal(t, "arn:aws:bedrock:us-west-2::foundation-model/test", aws.ToString(rgc.KnowledgeBaseConfiguration.ModelArn))
}

func TestQuery_LabeledSections(t *testing.T) {
	fake := &fakeRetrieveClient{output: answerOutput("X")}
	h := NewHandler(fake, "KB123", "arn:model")

	result := h.Query(context.Background(), "Q")

	queryIdx := strings.Index(result, "Query: Q")
	answerIdx := strings.Index(result, "Answer: X")
	require.GreaterOrEqual(t, queryIdx, 0, "result must contain the query section")
	require.Greater(t, answerIdx, queryIdx, "answer section must follow the query section")
}

func TestQuery_CitationsNumberedInOrder(t *testing.T) {
	fake := &fakeRetrieveClient{
		output: answerOutput("answer",
			s3Citation("s3://bucket/doc-one.pdf"),
			s3Citation("s3://bucket/doc-two.pdf"),
		),
	}
	h := NewHandler(fake, "KB123", "arn:model")

	result := h.Query(context.Background(), "Q")

	assert.Contains(t, result, "Sources:")
	assert.Contains(t, result, "1. s3://bucket/doc-one.pdf")
	assert.Contains(t, result, "2. s3://bucket/doc-two.pdf")
	assert.Less(t,
		strings.Index(result, "1. s3://bucket/doc-one.pdf"),
		strings.Index(result, "2. s3://bucket/doc-two.pdf"))
}

func TestQuery_SkipsReferencesWithoutLocation(t *testing.T) {
	noLocation := brtypes.Citation{
		RetrievedReferences: []brtypes.RetrievedReference{
			{Location: nil},
			{Location: &brtypes.RetrievalResultLocation{}},
		},
	}
	fake := &fakeRetrieveClient{
		output: answerOutput("answer", noLocation, s3Citation("s3://bucket/kept.pdf")),
	}
	h := NewHandler(fake, "KB123", "arn:model")

	result := h.Query(context.Background(), "Q")

	assert.Contains(t, result, "1. s3://bucket/kept.pdf")
	assert.NotContains(t, result, "2.")
}

func TestQuery_NoSourcesSectionWithoutCitations(t *testing.T) {
	fake := &fakeRetrieveClient{output: answerOutput("answer")}
	h := NewHandler(fake, "KB123", "arn:model")

	result := h.Query(context.Background(), "Q")

	assert.NotContains(t, result, "Sources:")
}

func TestQuery_AccessDenied(t *testing.T) {
	fake := &fakeRetrieveClient{
		err: &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"},
	}
	h := NewHandler(fake, "KB123", "arn:model")

	result := h.Query(context.Background(), "Q")

	assert.Contains(t, result, "bedrock:RetrieveAndGenerate")
	assert.Contains(t, result, "Access denied")
}

func TestQuery_ServiceError(t *testing.T) {
	fake := &fakeRetrieveClient{
		err: &smithy.GenericAPIError{Code: "ThrottlingException", Message: "rate exceeded"},
	}
	h := NewHandler(fake, "KB123", "arn:model")

	result := h.Query(context.Background(), "Q")

	assert.Contains(t, result, "ThrottlingException")
	assert.Contains(t, result, "rate exceeded")
}

func TestQuery_MissingCredentials(t *testing.T) {
	fake := &fakeRetrieveClient{
		err: errors.New("operation error bedrockagentruntime: RetrieveAndGenerate, failed to retrieve credentials"),
	}
	h := NewHandler(fake, "KB123", "arn:model")

	result := h.Query(context.Background(), "Q")

	assert.Contains(t, result, "AWS credentials not found")
}

func TestQuery_UnexpectedError(t *testing.T) {
	fake := &fakeRetrieveClient{err: errors.New("connection reset by peer")}
	h := NewHandler(fake, "KB123", "arn:model")

	result := h.Query(context.Background(), "Q")

	assert.Contains(t, result, "Unexpected error")
	assert.Contains(t, result, "connection reset by peer")
}

func TestHandleQuery_AbsentArguments(t *testing.T) {
	fake := &fakeRetrieveClient{output: answerOutput("should not be reached")}
	h := NewHandler(fake, "KB123", "arn:model")

	result, err := h.HandleQuery(context.Background(), mcp.CallToolRequest{})

	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, EmptyQueryMessage, text.Text)
	assert.Equal(t, 0, fake.calls)
}

func TestHandleQuery_ArgumentsPresentFieldMissing(t *testing.T) {
	fake := &fakeRetrieveClient{output: answerOutput("should not be reached")}
	h := NewHandler(fake, "KB123", "arn:model")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"other": "value"}

	result, err := h.HandleQuery(context.Background(), req)

	require.NoError(t, err)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, EmptyQueryMessage, text.Text)
	assert.Equal(t, 0, fake.calls)
}

func TestHandleQuery_WithQuery(t *testing.T) {
	fake := &fakeRetrieveClient{output: answerOutput("42")}
	h := NewHandler(fake, "KB123", "arn:model")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"query": "the meaning of life"}

	result, err := h.HandleQuery(context.Background(), req)

	require.NoError(t, err)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Answer: 42")
	assert.Equal(t, 1, fake.calls)
}
