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

// Package config holds the process configuration. The configuration is
// populated once at startup and is read-only afterwards.
//
// Priority order (highest to lowest):
//  1. Environment variables (BEDROCK_KB_ID, AWS_REGION, BEDROCK_MODEL_ARN)
//  2. Config file (--config, optional YAML)
//  3. Defaults
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Environment variables that make up the configuration surface.
const (
	EnvKnowledgeBaseID = "BEDROCK_KB_ID"
	EnvRegion          = "AWS_REGION"
	EnvModelARN        = "BEDROCK_MODEL_ARN"
)

// DefaultRegion is used when AWS_REGION is not set anywhere.
const DefaultRegion = "us-west-2"

// Config is the complete server configuration.
//
// Example config file:
//
//	knowledge_base_id: ABCD1234
//	region: us-west-2
//	model_arn: arn:aws:bedrock:us-west-2::foundation-model/anthropic.claude-3-5-sonnet-20241022-v2:0
//	logger:
//	  level: info
type Config struct {
	// KnowledgeBaseID identifies the Bedrock knowledge base to query. Required.
	KnowledgeBaseID string `yaml:"knowledge_base_id,omitempty" mapstructure:"knowledge_base_id"`

	// Region is the AWS region of the knowledge base.
	// Default: us-west-2
	Region string `yaml:"region,omitempty" mapstructure:"region"`

	// ModelARN is the model used for answer generation. Required.
	ModelARN string `yaml:"model_arn,omitempty" mapstructure:"model_arn"`

	Logger LoggerConfig `yaml:"logger,omitempty" mapstructure:"logger"`
}

// Load builds the configuration from an optional YAML file and the process
// environment. path may be empty, in which case only the environment is
// consulted. Values in the file support ${VAR} and ${VAR:-default} expansion.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}

		expanded := ExpandEnvVarsInData(raw)
		if err := mapstructure.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.SetDefaults()

	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration. The
// environment always wins over config file values.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvKnowledgeBaseID); v != "" {
		c.KnowledgeBaseID = v
	}
	if v := os.Getenv(EnvRegion); v != "" {
		c.Region = v
	}
	if v := os.Getenv(EnvModelARN); v != "" {
		c.ModelARN = v
	}
}

// SetDefaults applies default values.
func (c *Config) SetDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	c.Logger.SetDefaults()
}

// Validate checks that all required settings are present. The error names the
// environment variable the operator needs to set.
func (c *Config) Validate() error {
	if c.KnowledgeBaseID == "" {
		return fmt.Errorf("%s environment variable is required (knowledge_base_id in the config file)", EnvKnowledgeBaseID)
	}
	if c.ModelARN == "" {
		return fmt.Errorf("%s environment variable is required (model_arn in the config file)", EnvModelARN)
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	return nil
}
