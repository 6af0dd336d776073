package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36 OPR/113.0.0.0"

var (
	ErrInvalidOrigin    = errors.New("invalid origin: must be an absolute http(s) URL")
	ErrInvalidYearRange = errors.New("invalid year range: start_year must not exceed end_year")
	ErrInvalidTimeout   = errors.New("invalid timeout: must be positive")
	ErrInvalidDelay     = errors.New("invalid delay: must be non-negative")
	ErrMissingOutput    = errors.New("corpus_file and poems_file must be set")
)

// Config stores all configuration for a crawl-and-classify run.
type Config struct {
	Origin       string        `mapstructure:"origin"`
	StartYear    int           `mapstructure:"start_year"`
	EndYear      int           `mapstructure:"end_year"`
	Delay        time.Duration `mapstructure:"delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`

	CorpusFile string `mapstructure:"corpus_file"`
	PoemsFile  string `mapstructure:"poems_file"`
	ReportFile string `mapstructure:"report_file"`

	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
	MetricsAddr string `mapstructure:"metrics_addr"`

	Classifier ClassifierConfig `mapstructure:"classifier"`
}

type ClassifierConfig struct {
	BodyVetoes  []string `mapstructure:"body_vetoes"`
	TitleVetoes []string `mapstructure:"title_vetoes"`
	PoemTitles  []string `mapstructure:"poem_titles"`
	ProseTitles []string `mapstructure:"prose_titles"`
}

// Load reads configuration from the optional YAML file at path, then from
// JOURNAL_* environment variables. With neither present the compiled-in
// defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("JOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Origin = strings.TrimRight(cfg.Origin, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("origin", "https://vip-in.livejournal.com")
	v.SetDefault("start_year", 2004)
	v.SetDefault("end_year", 2009)
	v.SetDefault("delay", 500*time.Millisecond)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("max_body_bytes", 5*1024*1024)

	v.SetDefault("corpus_file", "journal_entries_compiled.md")
	v.SetDefault("poems_file", "journal_poems_only.md")
	v.SetDefault("report_file", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("metrics_addr", "")

	v.SetDefault("classifier.body_vetoes", DefaultBodyVetoes)
	v.SetDefault("classifier.title_vetoes", DefaultTitleVetoes)
	v.SetDefault("classifier.poem_titles", DefaultPoemTitles)
	v.SetDefault("classifier.prose_titles", DefaultProseTitles)
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidOrigin
	}
	if c.StartYear > c.EndYear {
		return ErrInvalidYearRange
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.CorpusFile == "" || c.PoemsFile == "" {
		return ErrMissingOutput
	}
	return nil
}
