package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/ibeckermayer/portfoliowatch/internal/taxonomy"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

const appName = "portfoliowatch"

// Supported briefing providers
const (
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

// Export formats
const (
	FormatJSON  = "json"
	FormatExcel = "xlsx"
)

// Environment overrides for secrets
const (
	EnvSMTPPass         = "PORTFOLIOWATCH_SMTP_PASS"
	EnvAnthropicAPIKey  = "PORTFOLIOWATCH_ANTHROPIC_API_KEY"
	EnvLinkedInEmail    = "PORTFOLIOWATCH_LINKEDIN_EMAIL"
	EnvLinkedInPassword = "PORTFOLIOWATCH_LINKEDIN_PASSWORD"
)

// ErrUnknownCompany is returned when a company is not in the roster
var ErrUnknownCompany = errors.New("company not in portfolio")

// Config holds all application configuration
type Config struct {
	Version   int             `toml:"version"`
	Portfolio []types.Company `toml:"portfolio"`
	Scraping  ScrapingConfig  `toml:"scraping"`
	Taxonomy  TaxonomyConfig  `toml:"taxonomy"`
	Export    ExportConfig    `toml:"export"`
	Digest    DigestConfig    `toml:"digest"`
	Email     EmailConfig     `toml:"email"`
	Server    ServerConfig    `toml:"server"`
	Briefing  BriefingConfig  `toml:"briefing"`
	Logging   LoggingConfig   `toml:"logging"`
	LinkedIn  LinkedInConfig  `toml:"linkedin"`
}

type ScrapingConfig struct {
	PostsPerCompany       int  `toml:"posts_per_company"`
	LookbackDays          int  `toml:"lookback_days"`
	Headless              bool `toml:"headless"`
	DelayBetweenCompanies int  `toml:"delay_between_companies_seconds"`
	FetchFollowers        bool `toml:"fetch_followers"`
	MaxFollowerLookups    int  `toml:"max_follower_lookups"`
}

// TaxonomyConfig overrides the built-in vocabulary. Empty lists keep the
// defaults.
type TaxonomyConfig struct {
	Categories        []taxonomy.Category `toml:"categories"`
	HighValueAccounts []string            `toml:"high_value_accounts"`
	PositiveWords     []string            `toml:"positive_words"`
	NegativeWords     []string            `toml:"negative_words"`
}

type ExportConfig struct {
	OutputDir string   `toml:"output_dir"`
	Formats   []string `toml:"formats"`
}

type DigestConfig struct {
	MaxPostsPerCompany int    `toml:"max_posts_per_company"`
	SendEmail          bool   `toml:"send_email"`
	RunTime            string `toml:"run_time"`
	Timezone           string `toml:"timezone"`
}

type EmailConfig struct {
	Provider string `toml:"provider"`
	SMTPHost string `toml:"smtp_host"`
	SMTPPort int    `toml:"smtp_port"`
	SMTPUser string `toml:"smtp_user"`
	SMTPPass string `toml:"smtp_pass"`
	FromAddr string `toml:"from_address"`
	ToAddr   string `toml:"to_address"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type BriefingConfig struct {
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type LinkedInConfig struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Version:   1,
		Portfolio: DefaultPortfolio(),
		Scraping: ScrapingConfig{
			PostsPerCompany:       50,
			LookbackDays:          30,
			Headless:              true,
			DelayBetweenCompanies: 2,
			FetchFollowers:        true,
			MaxFollowerLookups:    25,
		},
		Export: ExportConfig{
			Formats: []string{FormatJSON, FormatExcel},
		},
		Digest: DigestConfig{
			MaxPostsPerCompany: 5,
			SendEmail:          false,
			RunTime:            "07:00",
			Timezone:           "America/New_York",
		},
		Email: EmailConfig{
			Provider: "smtp",
			SMTPPort: 587,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Briefing: BriefingConfig{
			Provider: ProviderNone,
			Model:    "claude-sonnet-4-20250514",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the platform-appropriate cache directory
func CacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, appName), nil
}

// Load reads config from the default path
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads config from path. Missing keys keep their defaults and
// secrets are overridden from the environment (and a .env file, if any).
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	cfg.Portfolio = nil

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if len(cfg.Portfolio) == 0 {
		cfg.Portfolio = DefaultPortfolio()
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSMTPPass); v != "" {
		c.Email.SMTPPass = v
	}
	if v := os.Getenv(EnvAnthropicAPIKey); v != "" {
		c.Briefing.APIKey = v
	}
	if v := os.Getenv(EnvLinkedInEmail); v != "" {
		c.LinkedIn.Email = v
	}
	if v := os.Getenv(EnvLinkedInPassword); v != "" {
		c.LinkedIn.Password = v
	}
}

// Save writes config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes config to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// Validate checks the roster and numeric settings
func (c *Config) Validate() error {
	if len(c.Portfolio) == 0 {
		return errors.New("portfolio is empty")
	}

	seen := make(map[string]bool, len(c.Portfolio))
	for i, company := range c.Portfolio {
		name := strings.TrimSpace(company.Name)
		if name == "" {
			return fmt.Errorf("portfolio entry %d has no name", i)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("duplicate portfolio company %q", name)
		}
		seen[key] = true
	}

	if c.Scraping.PostsPerCompany <= 0 {
		return fmt.Errorf("scraping.posts_per_company must be positive, got %d", c.Scraping.PostsPerCompany)
	}
	if c.Scraping.LookbackDays < 0 {
		return fmt.Errorf("scraping.lookback_days must not be negative, got %d", c.Scraping.LookbackDays)
	}
	if c.Scraping.DelayBetweenCompanies < 0 {
		return fmt.Errorf("scraping.delay_between_companies_seconds must not be negative, got %d", c.Scraping.DelayBetweenCompanies)
	}
	if c.Digest.MaxPostsPerCompany <= 0 {
		return fmt.Errorf("digest.max_posts_per_company must be positive, got %d", c.Digest.MaxPostsPerCompany)
	}

	for _, f := range c.Export.Formats {
		if f != FormatJSON && f != FormatExcel {
			return fmt.Errorf("unknown export format %q", f)
		}
	}

	switch c.Briefing.Provider {
	case "", ProviderNone, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown briefing provider %q", c.Briefing.Provider)
	}

	if _, err := c.BuildTaxonomy(); err != nil {
		return fmt.Errorf("invalid taxonomy: %w", err)
	}

	return nil
}

// BuildTaxonomy applies the [taxonomy] overrides on top of the defaults
func (c *Config) BuildTaxonomy() (*taxonomy.Taxonomy, error) {
	categories := taxonomy.DefaultCategories
	if len(c.Taxonomy.Categories) > 0 {
		categories = c.Taxonomy.Categories
	}
	highValue := taxonomy.DefaultHighValueAccounts
	if len(c.Taxonomy.HighValueAccounts) > 0 {
		highValue = c.Taxonomy.HighValueAccounts
	}
	positive := taxonomy.DefaultPositiveWords
	if len(c.Taxonomy.PositiveWords) > 0 {
		positive = c.Taxonomy.PositiveWords
	}
	negative := taxonomy.DefaultNegativeWords
	if len(c.Taxonomy.NegativeWords) > 0 {
		negative = c.Taxonomy.NegativeWords
	}
	return taxonomy.New(categories, highValue, positive, negative)
}

// Company looks a company up by name, ignoring case
func (c *Config) Company(name string) (types.Company, error) {
	for _, company := range c.Portfolio {
		if strings.EqualFold(company.Name, name) {
			return company, nil
		}
	}
	return types.Company{}, fmt.Errorf("%w: %s", ErrUnknownCompany, name)
}

// Companies resolves names against the roster; no names selects everyone
func (c *Config) Companies(names []string) ([]types.Company, error) {
	if len(names) == 0 {
		return append([]types.Company(nil), c.Portfolio...), nil
	}
	out := make([]types.Company, 0, len(names))
	for _, n := range names {
		company, err := c.Company(n)
		if err != nil {
			return nil, err
		}
		out = append(out, company)
	}
	return out, nil
}

// ExportDir returns the configured export directory, defaulting to an
// "exports" folder in the cache directory
func (c *Config) ExportDir() (string, error) {
	if c.Export.OutputDir != "" {
		return c.Export.OutputDir, nil
	}
	cacheDir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "exports"), nil
}
