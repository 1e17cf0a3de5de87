// Package config loads and validates the system's YAML configuration,
// merged with environment variable overrides — the same two-stage approach
// as the teacher's pkg/config (gopkg.in/yaml.v3 for parsing,
// dario.cat/mergo for defaults-merging; SPEC_FULL.md §2).
package config

import "time"

// WorkflowConfig holds the Conference Workflow Engine's tunables
// (SPEC_FULL.md §4.11, defaults recovered from original_source's
// WorkflowConfig::default()).
type WorkflowConfig struct {
	MaxStageRetries         int     `yaml:"max_stage_retries"`
	ParallelismLimit        int     `yaml:"parallelism_limit"`
	QAApprovalThreshold     float64 `yaml:"qa_approval_threshold"`
	ResearchFreshnessDays   int     `yaml:"research_freshness_days"`
	EnableParallelCreation  bool    `yaml:"enable_parallel_creation"`
	AutoSchedulePosts       bool    `yaml:"auto_schedule_posts"`
}

// DefaultWorkflowConfig mirrors the Rust original's defaults exactly.
func DefaultWorkflowConfig() WorkflowConfig {
	return WorkflowConfig{
		MaxStageRetries:        3,
		ParallelismLimit:       5,
		QAApprovalThreshold:    0.8,
		ResearchFreshnessDays:  30,
		EnableParallelCreation: true,
		AutoSchedulePosts:      true,
	}
}

// CrawlConfig holds the Website Crawler's tunables (SPEC_FULL.md §4.3).
type CrawlConfig struct {
	MaxPages         int      `yaml:"max_pages"`
	MaxDepth         int      `yaml:"max_depth"`
	UseBowser        bool     `yaml:"use_bowser"`
	PageTimeoutSecs  int      `yaml:"page_timeout_secs"`
	IncludePatterns  []string `yaml:"include_patterns"`
	ExcludePatterns  []string `yaml:"exclude_patterns"`
	RespectRobots    bool     `yaml:"respect_robots"`
	// RequestsPerSecond paces same-host fetches via golang.org/x/time/rate;
	// SPEC_FULL.md §3 domain-stack: the crawler is the outbound client the
	// spec's Open Questions defer rate limiting to.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// DefaultCrawlConfig mirrors the Rust original's CrawlConfig::default().
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		MaxPages:        200,
		MaxDepth:        4,
		UseBowser:       false,
		PageTimeoutSecs: 15,
		IncludePatterns: []string{
			"speaker", "sponsor", "partner", "agenda", "schedule",
			"program", "exhibitor", "team", "about", "page",
		},
		ExcludePatterns: []string{
			"blog", "news", ".pdf", ".jpg", ".png", ".gif", ".svg",
			".css", ".js", ".woff", ".ttf", "mailto:", "tel:",
			"javascript:", "#", "/feed", "wp-json", "wp-content",
			"wp-includes", "oembed", "twitter.com", "facebook.com",
			"linkedin.com", "instagram.com", "youtube.com", "x.com",
		},
		RespectRobots:     true,
		RequestsPerSecond: 2,
	}
}

// DatabaseConfig holds Postgres connection settings, matching the teacher's
// pkg/database/config.go naming (DB_HOST, DB_PORT, ...).
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// LLMConfig describes how to reach the external completion service.
type LLMConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
}

// StageDescriptorConfig is the YAML shape of one declarative stage.
type StageDescriptorConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Output      string `yaml:"output"`
}

// WorkflowDescriptorConfig is the YAML shape of one agent workflow.
type WorkflowDescriptorConfig struct {
	ID     string                  `yaml:"id"`
	Name   string                  `yaml:"name"`
	Stages []StageDescriptorConfig `yaml:"stages"`
}

// AgentDescriptorConfig is the YAML shape of one registered agent
// (SPEC_FULL.md §9 "Polymorphism").
type AgentDescriptorConfig struct {
	ID             string                     `yaml:"id"`
	Codename       string                     `yaml:"codename"`
	PriorityWeight float64                    `yaml:"priority_weight"`
	Workflows      []WorkflowDescriptorConfig `yaml:"workflows"`
}

// YAMLConfig is the top-level shape of a config file, matching the
// teacher's TarsyYAMLConfig layering (system/agents/defaults all under one
// root document, loaded then merged with mergo).
type YAMLConfig struct {
	Workflow WorkflowConfig          `yaml:"workflow"`
	Crawl    CrawlConfig             `yaml:"crawl"`
	Database DatabaseConfig          `yaml:"database"`
	LLM      LLMConfig               `yaml:"llm"`
	Agents   []AgentDescriptorConfig `yaml:"agents"`
}
