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
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// describeError maps an outbound failure to the text returned to the caller.
// Every error condition becomes a plain descriptive result; nothing is
// propagated as a protocol fault.
func describeError(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == "AccessDeniedException" {
			return "Error: Access denied. Make sure the active IAM identity is allowed to call bedrock:RetrieveAndGenerate on this knowledge base."
		}
		return fmt.Sprintf("Error querying knowledge base (%s): %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}

	if isCredentialError(err) {
		return "Error: AWS credentials not found. Configure credentials via environment variables, shared config, or an attached role, then try again."
	}

	return fmt.Sprintf("Unexpected error while querying the knowledge base: %v", err)
}

// isCredentialError reports whether err stems from credential resolution.
// The SDK surfaces these as wrapped transport-level errors rather than a
// typed API error, so the message is the only reliable signal.
func isCredentialError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "credential") || strings.Contains(msg, "no ec2 imds role found")
}
