package config

import (
	"fmt"
	"os"
	"strconv"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config is the fully-resolved, in-memory configuration the rest of the
// system reads from. Built by Load: parse YAML, merge over defaults, then
// apply environment variable overrides — same three-step shape as the
// teacher's pkg/config/loader.go + pkg/config/merge.go.
type Config struct {
	Workflow WorkflowConfig
	Crawl    CrawlConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Agents   []AgentDescriptorConfig
}

// Load reads the YAML file at path (if it exists), merges it over the
// built-in defaults, then applies environment variable overrides
// (SPEC_FULL.md §6 env var list).
func Load(path string) (*Config, error) {
	doc := YAMLConfig{
		Workflow: DefaultWorkflowConfig(),
		Crawl:    DefaultCrawlConfig(),
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else {
			var fileDoc YAMLConfig
			if err := yaml.Unmarshal(raw, &fileDoc); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			if err := mergo.Merge(&doc, fileDoc, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merge config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{
		Workflow: doc.Workflow,
		Crawl:    doc.Crawl,
		Database: doc.Database,
		LLM:      doc.LLM,
		Agents:   doc.Agents,
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides mirrors SPEC_FULL.md §6's env var list exactly.
func applyEnvOverrides(cfg *Config) {
	if v, ok := intEnv("PARALLELISM_LIMIT"); ok {
		cfg.Workflow.ParallelismLimit = v
	}
	if v, ok := floatEnv("QA_APPROVAL_THRESHOLD"); ok {
		cfg.Workflow.QAApprovalThreshold = v
	}
	if v, ok := intEnv("MAX_STAGE_RETRIES"); ok {
		cfg.Workflow.MaxStageRetries = v
	}
	if v, ok := boolEnv("ENABLE_PARALLEL_CREATION"); ok {
		cfg.Workflow.EnableParallelCreation = v
	}
	if v, ok := boolEnv("AUTO_SCHEDULE_POSTS"); ok {
		cfg.Workflow.AutoSchedulePosts = v
	}
	if v, ok := intEnv("RESEARCH_FRESHNESS_DAYS"); ok {
		cfg.Workflow.ResearchFreshnessDays = v
	}

	cfg.Database.Host = stringEnvOr("DB_HOST", cfg.Database.Host)
	if v, ok := intEnv("DB_PORT"); ok {
		cfg.Database.Port = v
	}
	cfg.Database.User = stringEnvOr("DB_USER", cfg.Database.User)
	cfg.Database.Password = stringEnvOr("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = stringEnvOr("DB_NAME", cfg.Database.Database)
	cfg.Database.SSLMode = stringEnvOr("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.LLM.GRPCAddr = stringEnvOr("LLM_GRPC_ADDR", cfg.LLM.GRPCAddr)
}

func stringEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func floatEnv(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func boolEnv(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
