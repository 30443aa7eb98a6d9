// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// EmailConfig holds IMAP settings for the fetch stage. Address is the only
// required field; the app password is resolved from the environment variable
// named by AppPasswordEnv, falling back to the OS keyring under
// KeyringService/Address.
type EmailConfig struct {
	IMAPHost string `json:"imap_host" yaml:"imap_host" mapstructure:"imap_host"`
	IMAPPort int    `json:"imap_port" yaml:"imap_port" mapstructure:"imap_port"`
	Address  string `json:"address" yaml:"address" mapstructure:"address"`
	Mailbox  string `json:"mailbox" yaml:"mailbox" mapstructure:"mailbox"`

	AppPasswordEnv string `json:"app_password_env" yaml:"app_password_env" mapstructure:"app_password_env"`
	KeyringService string `json:"keyring_service" yaml:"keyring_service" mapstructure:"keyring_service"`

	// ProcessedLabel is the mailbox fetched messages are copied to after a
	// successful save (Gmail exposes labels as IMAP folders).
	ProcessedLabel string `json:"processed_label" yaml:"processed_label" mapstructure:"processed_label"`
	FailedLabel    string `json:"failed_label" yaml:"failed_label" mapstructure:"failed_label"`

	// FetchWindow bounds the IMAP SINCE search (default 90 days).
	FetchWindow time.Duration `json:"fetch_window" yaml:"fetch_window" mapstructure:"fetch_window"`
}

// SenderTemplate describes how to handle emails from one sender domain.
// The "_default" key supplies the fallback template.
type SenderTemplate struct {
	// Type is "job_board", "recruiter", or empty for unconfigured senders.
	Type string `json:"type" yaml:"type" mapstructure:"type"`

	// SubjectPatterns are regexes with optional named groups "company"
	// and "role", tried in order against the subject line.
	SubjectPatterns []string `json:"subject_patterns" yaml:"subject_patterns" mapstructure:"subject_patterns"`

	// MultiJobIndicator is a regex that, when it matches the subject plus
	// the first 2000 cleaned body characters, marks the email multi-lead.
	MultiJobIndicator string `json:"multi_job_indicator" yaml:"multi_job_indicator" mapstructure:"multi_job_indicator"`

	// BodyParseStrategy selects the multi-lead block parser:
	// "linkedin_cards", "indeed_list", or "generic".
	BodyParseStrategy string `json:"body_parse_strategy" yaml:"body_parse_strategy" mapstructure:"body_parse_strategy"`
}

// AutoSkipRules remove leads from the ranked set before ranking.
type AutoSkipRules struct {
	// MinScore is the minimum acceptable tier ("stretch" skips long_shot).
	MinScore Tier `json:"min_score" yaml:"min_score" mapstructure:"min_score"`

	ExcludedEmploymentTypes []EmploymentType `json:"excluded_employment_types" yaml:"excluded_employment_types" mapstructure:"excluded_employment_types"`
	ExcludedCompanies       []string         `json:"excluded_companies" yaml:"excluded_companies" mapstructure:"excluded_companies"`
}

// UserPreferences captures the personal settings used by location matching.
type UserPreferences struct {
	Location string `json:"location" yaml:"location" mapstructure:"location"`
}

// ThrottleConfig sets the fixed delays between consecutive network
// requests. Requests stay sequential; the delays keep the pipeline under
// anti-scraping radar.
type ThrottleConfig struct {
	SearchDelay time.Duration `json:"search_delay" yaml:"search_delay" mapstructure:"search_delay"`
	ScrapeDelay time.Duration `json:"scrape_delay" yaml:"scrape_delay" mapstructure:"scrape_delay"`

	// RequestsPerSecond caps per-host request rate across a run.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// ScrapeConfig holds settings for career-page discovery and scraping.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BrowserFallback enables the chromedp scraper for ATS pages that
	// render their content with JavaScript (Workday, iCIMS,
	// SuccessFactors). Best effort; the generic scraper is used when a
	// browser is unavailable.
	BrowserFallback bool `json:"browser_fallback" yaml:"browser_fallback" mapstructure:"browser_fallback"`

	// ExcludedDomains are never treated as career pages (job boards).
	ExcludedDomains []string `json:"excluded_domains" yaml:"excluded_domains" mapstructure:"excluded_domains"`
}

// PathsConfig locates the pipeline working tree.
type PathsConfig struct {
	// PipelineDir contains staging/, fingerprints.json and the review queue.
	PipelineDir string `json:"pipeline_dir" yaml:"pipeline_dir" mapstructure:"pipeline_dir"`

	// ApplicationsDir contains one folder per application plus the index.
	ApplicationsDir string `json:"applications_dir" yaml:"applications_dir" mapstructure:"applications_dir"`

	// TrackerPath is the spreadsheet tracker mirroring the index.
	TrackerPath string `json:"tracker_path" yaml:"tracker_path" mapstructure:"tracker_path"`

	// AchievementsPath is the headed outline document of achievements.
	AchievementsPath string `json:"achievements_path" yaml:"achievements_path" mapstructure:"achievements_path"`
}

// SupabaseConfig holds settings for the migrate command. DSN is required
// there and nowhere else.
type SupabaseConfig struct {
	// DSN is a Postgres connection string for the Supabase project.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`

	// UserID is the owning user id stamped on migrated rows.
	UserID string `json:"user_id" yaml:"user_id" mapstructure:"user_id"`
}

// PipelineConfig groups all recognized configuration options. Every field
// is optional except where a command's documentation says otherwise.
type PipelineConfig struct {
	Email           EmailConfig               `json:"email" yaml:"email" mapstructure:"email"`
	SenderTemplates map[string]SenderTemplate `json:"sender_templates" yaml:"sender_templates" mapstructure:"sender_templates"`

	// CompanyAliases maps a canonical company name to its aliases.
	CompanyAliases map[string][]string `json:"company_aliases" yaml:"company_aliases" mapstructure:"company_aliases"`

	AutoSkip    AutoSkipRules   `json:"auto_skip_rules" yaml:"auto_skip_rules" mapstructure:"auto_skip_rules"`
	Preferences UserPreferences `json:"user_preferences" yaml:"user_preferences" mapstructure:"user_preferences"`
	Throttle    ThrottleConfig  `json:"throttle" yaml:"throttle" mapstructure:"throttle"`
	Scrape      ScrapeConfig    `json:"scrape" yaml:"scrape" mapstructure:"scrape"`
	Paths       PathsConfig     `json:"paths" yaml:"paths" mapstructure:"paths"`
	Supabase    SupabaseConfig  `json:"supabase" yaml:"supabase" mapstructure:"supabase"`
}

// DefaultConfig returns the documented defaults for all optional settings.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		Email: EmailConfig{
			IMAPHost:       "imap.gmail.com",
			IMAPPort:       993,
			Mailbox:        "INBOX",
			AppPasswordEnv: "JOBPIPE_GMAIL_APP_PASSWORD",
			KeyringService: "jobpipe",
			ProcessedLabel: "pipeline/processed",
			FailedLabel:    "pipeline/failed",
			FetchWindow:    90 * 24 * time.Hour,
		},
		SenderTemplates: DefaultSenderTemplates(),
		Throttle: ThrottleConfig{
			SearchDelay:       2 * time.Second,
			ScrapeDelay:       1 * time.Second,
			RequestsPerSecond: 1,
		},
		Scrape: ScrapeConfig{
			HTTPConfig: HTTPConfig{
				Timeout: 15 * time.Second,
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
					"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
			},
			ExcludedDomains: []string{
				"linkedin.com", "indeed.com", "glassdoor.com", "ziprecruiter.com",
				"dice.com", "monster.com", "careerbuilder.com", "simplyhired.com",
				"startup.jobs", "employbl.com", "builtin.com",
			},
		},
		Paths: PathsConfig{
			PipelineDir:      "pipeline",
			ApplicationsDir:  "applications",
			TrackerPath:      "tracker.xlsx",
			AchievementsPath: "master/achievements.md",
		},
	}
}

// DefaultSenderTemplates covers the job boards the pipeline knows out of
// the box. User configuration merges over these by domain.
func DefaultSenderTemplates() map[string]SenderTemplate {
	return map[string]SenderTemplate{
		"linkedin.com": {
			Type: "job_board",
			SubjectPatterns: []string{
				`^(?:Fwd?:\s*)?(?P<role>.+?)\s+at\s+(?P<company>.+?)(?:\s+and more)?$`,
				`new jobs? similar to (?P<role>.+)`,
			},
			MultiJobIndicator: `jobs? (?:you may be interested in|similar to|for you)|and \d+ other jobs`,
			BodyParseStrategy: "linkedin_cards",
		},
		"indeed.com": {
			Type: "job_board",
			SubjectPatterns: []string{
				`^(?:Fwd?:\s*)?(?P<role>.+?)\s*[-–]\s*(?P<company>.+)$`,
			},
			MultiJobIndicator: `\d+ new jobs?`,
			BodyParseStrategy: "indeed_list",
		},
		"glassdoor.com": {
			Type:              "job_board",
			MultiJobIndicator: `jobs? for you`,
			BodyParseStrategy: "generic",
		},
		"ziprecruiter.com": {
			Type:              "job_board",
			BodyParseStrategy: "generic",
		},
		"dice.com": {
			Type:              "job_board",
			BodyParseStrategy: "generic",
		},
		"_default": {
			BodyParseStrategy: "generic",
		},
	}
}
