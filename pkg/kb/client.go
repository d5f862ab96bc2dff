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

// Package kb implements the knowledge-base query handler: a thin adapter over
// the Bedrock Agent Runtime RetrieveAndGenerate operation.
package kb

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
)

// RetrieveAndGenerateAPI is the single Bedrock Agent Runtime operation this
// server depends on. The concrete *bedrockagentruntime.Client satisfies it.
type RetrieveAndGenerateAPI interface {
	RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
}

// NewClient builds a Bedrock Agent Runtime client for the given region using
// the default AWS credential chain (environment, shared config, instance
// role). Timeouts and transport behavior are the SDK defaults; this server
// imposes no retry policy of its own.
func NewClient(ctx context.Context, region string) (*bedrockagentruntime.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return bedrockagentruntime.NewFromConfig(awsCfg), nil
}
