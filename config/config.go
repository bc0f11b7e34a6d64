// Copyright 2025 Finsight Labs
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


// Package config loads the YAML runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Sources  Sources  `yaml:"sources"`
	Storage  Storage  `yaml:"storage"`
	AI       AI       `yaml:"ai"`
	Workflow Workflow `yaml:"workflow"`
	Query    Query    `yaml:"query"`
	Logging  Logging  `yaml:"logging"`
}

type Sources struct {
	Feeds []Feed `yaml:"feeds"`

	// MinContentRunes drops items with less content than this.
	MinContentRunes int `yaml:"min_content_runes"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type Storage struct {
	// StoryDBPath is the SQLite database file for stories and impacts.
	StoryDBPath string `yaml:"story_db_path"`

	// VectorDBPath is the BadgerDB directory for vector namespaces.
	VectorDBPath string `yaml:"vector_db_path"`
}

type AI struct {
	EmbeddingHost  string `yaml:"embedding_host"`
	AnalystHost    string `yaml:"analyst_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	AnalystModel   string `yaml:"analyst_model"`

	// ExtraTickers extends the built-in symbol table.
	ExtraTickers map[string]string `yaml:"extra_tickers"`
}

type Workflow struct {
	// DedupThreshold is the signature similarity above which two items
	// are the same story.
	DedupThreshold float64 `yaml:"dedup_threshold"`

	// StepBudget bounds the number of stage executions per run.
	StepBudget int `yaml:"step_budget"`
}

type Query struct {
	// TopK is how many catalogue hits are considered per query.
	TopK int `yaml:"top_k"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Sources: Sources{
			MinContentRunes: 100,
		},
		Storage: Storage{
			StoryDBPath:  filepath.Join(dataDir(), "stories.db"),
			VectorDBPath: filepath.Join(dataDir(), "vectors"),
		},
		AI: AI{
			EmbeddingHost:  "http://localhost:11434/v1",
			AnalystHost:    "http://localhost:11434/v1",
			EmbeddingModel: "embeddinggemma",
			AnalystModel:   "llama3",
		},
		Workflow: Workflow{
			DedupThreshold: 0.95,
			StepBudget:     250,
		},
		Query: Query{
			TopK: 5,
		},
		Logging: Logging{Level: "INFO"},
	}
}

// Load reads and parses a config YAML file, applying defaults for
// anything the file leaves out.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML bytes into a Config, applying defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges the rest of the system assumes.
func (c *Config) Validate() error {
	if c.Workflow.DedupThreshold <= 0 || c.Workflow.DedupThreshold > 1 {
		return fmt.Errorf("config: dedup_threshold must be in (0, 1], got %v", c.Workflow.DedupThreshold)
	}
	if c.Workflow.StepBudget <= 0 {
		return fmt.Errorf("config: step_budget must be positive, got %d", c.Workflow.StepBudget)
	}
	if c.Query.TopK <= 0 {
		return fmt.Errorf("config: top_k must be positive, got %d", c.Query.TopK)
	}
	return nil
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "newsintel")
}
