package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobsweep/internal/listing"
)

// EnvConfigPath names the environment variable consulted when no --config
// flag is given.
const EnvConfigPath = "JOBSWEEP_CONFIG"

// DefaultPath is used when neither the flag nor the environment names a file.
const DefaultPath = "config.yaml"

// DefaultMaxPages bounds pagination for searches that do not set max_pages.
const DefaultMaxPages = 10

// Config is the root configuration for jobsweep.
type Config struct {
	Site         SiteConfig
	Searches     []SearchConfig
	Pipeline     PipelineConfig
	Transport    TransportConfig
	Sink         SinkConfig
	Notification NotificationConfig
}

// SiteConfig describes the job board being swept.
type SiteConfig struct {
	BaseURL       string
	SearchPath    string
	KeywordParam  string
	LocationParam string
	PageParam     string
	Selectors     listing.Selectors
}

// SearchConfig describes a single search to run against the site.
type SearchConfig struct {
	Name           string
	Keyword        string
	Location       string
	StartURLs      []string
	TargetResults  int // 0 means no cap
	MaxPages       int // defaults to DefaultMaxPages
	CollectDetails bool
	Enabled        bool
}

// PipelineConfig tunes enrichment and scheduling.
type PipelineConfig struct {
	Window    int
	BatchSize int
	Interval  time.Duration // between cycles of the start command
	Pause     time.Duration // between searches within a cycle
}

// TransportConfig controls how pages are fetched.
type TransportConfig struct {
	Type           string // "http" or "colly"
	Timeout        time.Duration
	UserAgent      string
	MaxRetries     int
	RetryBaseDelay time.Duration
	MinDelay       time.Duration // minimum gap between requests to the same host
}

// SinkConfig selects where records are stored.
type SinkConfig struct {
	Type       string `yaml:"type"` // "sqlite", "mongo", "mysql" or "log"
	Path       string `yaml:"path"` // sqlite
	DSN        string `yaml:"dsn"`  // mysql
	URI        string `yaml:"uri"`  // mongo
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Site         rawSiteConfig      `yaml:"site"`
	Searches     []rawSearchConfig  `yaml:"searches"`
	Pipeline     rawPipelineConfig  `yaml:"pipeline"`
	Transport    rawTransportConfig `yaml:"transport"`
	Sink         SinkConfig         `yaml:"sink"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawSiteConfig struct {
	BaseURL       string            `yaml:"base_url"`
	SearchPath    string            `yaml:"search_path"`
	KeywordParam  string            `yaml:"keyword_param"`
	LocationParam string            `yaml:"location_param"`
	PageParam     string            `yaml:"page_param"`
	Selectors     rawSelectorConfig `yaml:"selectors"`
}

type rawSelectorConfig struct {
	Row      string   `yaml:"row"`
	Link     string   `yaml:"link"`
	About    []string `yaml:"about"`
	ID       []string `yaml:"id"`
	Title    string   `yaml:"title"`
	Company  string   `yaml:"company"`
	Location string   `yaml:"location"`
	JobType  string   `yaml:"job_type"`
	Salary   string   `yaml:"salary"`
	Summary  string   `yaml:"summary"`
	Bullets  string   `yaml:"bullets"`
}

type rawSearchConfig struct {
	Name           string   `yaml:"name"`
	Keyword        string   `yaml:"keyword"`
	Location       string   `yaml:"location"`
	StartURLs      []string `yaml:"start_urls"`
	TargetResults  int      `yaml:"target_results"`
	MaxPages       int      `yaml:"max_pages"`
	CollectDetails *bool    `yaml:"collect_details"`
	Enabled        bool     `yaml:"enabled"`
}

type rawPipelineConfig struct {
	Window    int    `yaml:"window"`
	BatchSize int    `yaml:"batch_size"`
	Interval  string `yaml:"interval"`
	Pause     string `yaml:"pause"`
}

type rawTransportConfig struct {
	Type           string `yaml:"type"`
	Timeout        string `yaml:"timeout"`
	UserAgent      string `yaml:"user_agent"`
	MaxRetries     *int   `yaml:"max_retries"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
	MinDelay       string `yaml:"min_delay"`
}

// ResolvePath picks the config file: the flag value, then $JOBSWEEP_CONFIG,
// then ./config.yaml.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval, err := parseDuration("pipeline.interval", raw.Pipeline.Interval, time.Hour)
	if err != nil {
		return nil, err
	}
	pause, err := parseDuration("pipeline.pause", raw.Pipeline.Pause, time.Second)
	if err != nil {
		return nil, err
	}
	timeout, err := parseDuration("transport.timeout", raw.Transport.Timeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	retryBase, err := parseDuration("transport.retry_base_delay", raw.Transport.RetryBaseDelay, 5*time.Second)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("transport.min_delay", raw.Transport.MinDelay, time.Second)
	if err != nil {
		return nil, err
	}

	maxRetries := 2
	if raw.Transport.MaxRetries != nil {
		maxRetries = *raw.Transport.MaxRetries
	}

	cfg := &Config{
		Site: SiteConfig{
			BaseURL:       strings.TrimRight(raw.Site.BaseURL, "/"),
			SearchPath:    raw.Site.SearchPath,
			KeywordParam:  withDefault(raw.Site.KeywordParam, "keywords"),
			LocationParam: withDefault(raw.Site.LocationParam, "location"),
			PageParam:     withDefault(raw.Site.PageParam, "page"),
			Selectors:     raw.Site.Selectors.selectors().WithDefaults(),
		},
		Pipeline: PipelineConfig{
			Window:    withDefaultInt(raw.Pipeline.Window, 5),
			BatchSize: withDefaultInt(raw.Pipeline.BatchSize, 20),
			Interval:  interval,
			Pause:     pause,
		},
		Transport: TransportConfig{
			Type:           withDefault(raw.Transport.Type, "http"),
			Timeout:        timeout,
			UserAgent:      raw.Transport.UserAgent,
			MaxRetries:     maxRetries,
			RetryBaseDelay: retryBase,
			MinDelay:       minDelay,
		},
		Sink:         raw.Sink,
		Notification: raw.Notification,
	}
	cfg.Sink.Type = withDefault(cfg.Sink.Type, "sqlite")
	cfg.Sink.Path = withDefault(cfg.Sink.Path, "jobsweep.db")
	cfg.Sink.Database = withDefault(cfg.Sink.Database, "jobsweep")
	cfg.Sink.Collection = withDefault(cfg.Sink.Collection, "job_records")
	cfg.Notification.Type = withDefault(cfg.Notification.Type, "log")

	for _, rs := range raw.Searches {
		collect := true
		if rs.CollectDetails != nil {
			collect = *rs.CollectDetails
		}
		cfg.Searches = append(cfg.Searches, SearchConfig{
			Name:           rs.Name,
			Keyword:        rs.Keyword,
			Location:       rs.Location,
			StartURLs:      rs.StartURLs,
			TargetResults:  rs.TargetResults,
			MaxPages:       withDefaultInt(rs.MaxPages, DefaultMaxPages),
			CollectDetails: collect,
			Enabled:        rs.Enabled,
		})
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnabledSearches returns the searches with enabled: true, in file order.
func (c *Config) EnabledSearches() []SearchConfig {
	var out []SearchConfig
	for _, s := range c.Searches {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// StartURLs returns the listing URLs for s. Explicit start_urls win and may
// be relative to the site; otherwise one URL is built from the search path
// and the keyword and location parameters.
func (s SearchConfig) StartURLs(site SiteConfig) ([]string, error) {
	base, err := url.Parse(site.BaseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("search %s: parse base_url: %w", s.Name, err)
	}

	if len(s.StartURLs) > 0 {
		out := make([]string, 0, len(s.StartURLs))
		for _, raw := range s.StartURLs {
			ref, err := url.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("search %s: parse start url %q: %w", s.Name, raw, err)
			}
			out = append(out, base.ResolveReference(ref).String())
		}
		return out, nil
	}

	u := base.ResolveReference(&url.URL{Path: strings.TrimLeft(site.SearchPath, "/")})
	q := u.Query()
	if s.Keyword != "" {
		q.Set(site.KeywordParam, s.Keyword)
	}
	if s.Location != "" {
		q.Set(site.LocationParam, s.Location)
	}
	u.RawQuery = q.Encode()
	return []string{u.String()}, nil
}

func (r rawSelectorConfig) selectors() listing.Selectors {
	return listing.Selectors{
		Row:      r.Row,
		Link:     r.Link,
		About:    r.About,
		ID:       r.ID,
		Title:    r.Title,
		Company:  r.Company,
		Location: r.Location,
		JobType:  r.JobType,
		Salary:   r.Salary,
		Summary:  r.Summary,
		Bullets:  r.Bullets,
	}
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func withDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Site.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("site.base_url must be an absolute http(s) URL, got %q", cfg.Site.BaseURL)
	}

	seen := make(map[string]bool)
	enabled := 0
	for i, s := range cfg.Searches {
		if s.Name == "" {
			return fmt.Errorf("searches[%d]: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("searches[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true
		if s.TargetResults < 0 || s.MaxPages < 0 {
			return fmt.Errorf("search %s: target_results and max_pages must not be negative", s.Name)
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one search must be enabled")
	}

	if cfg.Pipeline.Window < 0 || cfg.Pipeline.BatchSize < 0 {
		return fmt.Errorf("pipeline.window and pipeline.batch_size must be positive")
	}
	if cfg.Pipeline.Interval <= 0 {
		return fmt.Errorf("pipeline.interval must be positive, got %v", cfg.Pipeline.Interval)
	}

	switch cfg.Transport.Type {
	case "http", "colly":
	default:
		return fmt.Errorf("transport.type must be \"http\" or \"colly\", got %q", cfg.Transport.Type)
	}
	if cfg.Transport.MaxRetries < 0 {
		return fmt.Errorf("transport.max_retries must not be negative, got %d", cfg.Transport.MaxRetries)
	}

	switch cfg.Sink.Type {
	case "sqlite", "log":
	case "mongo":
		if cfg.Sink.URI == "" {
			return fmt.Errorf("sink.uri is required when type is \"mongo\"")
		}
	case "mysql":
		if cfg.Sink.DSN == "" {
			return fmt.Errorf("sink.dsn is required when type is \"mysql\"")
		}
	default:
		return fmt.Errorf("sink.type must be one of sqlite, mongo, mysql, log, got %q", cfg.Sink.Type)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
