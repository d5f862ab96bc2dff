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
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// FormatResult shapes a successful RetrieveAndGenerate response into the
// single text block returned to the caller: the query and answer as two
// labeled sections, followed by a numbered source list when the response
// carries citations with resolvable locations.
func FormatResult(query string, out *bedrockagentruntime.RetrieveAndGenerateOutput) string {
	var answer string
	if out != nil && out.Output != nil {
		answer = aws.ToString(out.Output.Text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nAnswer: %s", query, answer)

	var locations []string
	if out != nil {
		locations = collectLocations(out.Citations)
	}
	if len(locations) > 0 {
		b.WriteString("\n\nSources:\n")
		for i, loc := range locations {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%d. %s", i+1, loc)
		}
	}

	return b.String()
}

// collectLocations extracts resolvable source locations from citations, in
// the order the service returned them. References without a resolvable
// location are skipped.
func collectLocations(citations []brtypes.Citation) []string {
	var locations []string
	for _, citation := range citations {
		for _, ref := range citation.RetrievedReferences {
			if loc := resolveLocation(ref.Location); loc != "" {
				locations = append(locations, loc)
			}
		}
	}
	return locations
}

// resolveLocation returns a concrete address for a retrieved reference, or
// the empty string when the reference kind carries none.
func resolveLocation(loc *brtypes.RetrievalResultLocation) string {
	if loc == nil {
		return ""
	}
	if loc.S3Location != nil {
		if uri := aws.ToString(loc.S3Location.Uri); uri != "" {
			return uri
		}
	}
	if loc.WebLocation != nil {
		if url := aws.ToString(loc.WebLocation.Url); url != "" {
			return url
		}
	}
	return ""
}
