package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/portfoliowatch/internal/taxonomy"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Portfolio, 34)
	assert.True(t, cfg.Scraping.Headless)
}

func TestSaveAndLoadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Portfolio = []types.Company{{Name: "Acme", TwitterHandle: "acme"}}
	cfg.Scraping.PostsPerCompany = 7
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Portfolio, loaded.Portfolio)
	assert.Equal(t, 7, loaded.Scraping.PostsPerCompany)
	assert.Equal(t, cfg.Digest, loaded.Digest)
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[scraping]
posts_per_company = 10

[logging]
level = "debug"
`), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Scraping.PostsPerCompany)
	assert.Equal(t, 30, cfg.Scraping.LookbackDays)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Len(t, cfg.Portfolio, len(DefaultPortfolio()))
}

func TestLoadFile_EnvOverridesSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[email]\nsmtp_pass = \"from-file\"\n"), 0600))
	t.Setenv(EnvSMTPPass, "from-env")
	t.Setenv(EnvAnthropicAPIKey, "sk-test")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Email.SMTPPass)
	assert.Equal(t, "sk-test", cfg.Briefing.APIKey)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty portfolio", func(c *Config) { c.Portfolio = nil }},
		{"unnamed company", func(c *Config) { c.Portfolio = []types.Company{{Name: " "}} }},
		{"duplicate company", func(c *Config) { c.Portfolio = []types.Company{{Name: "Acme"}, {Name: "acme"}} }},
		{"zero posts", func(c *Config) { c.Scraping.PostsPerCompany = 0 }},
		{"negative delay", func(c *Config) { c.Scraping.DelayBetweenCompanies = -1 }},
		{"bad format", func(c *Config) { c.Export.Formats = []string{"csv"} }},
		{"bad provider", func(c *Config) { c.Briefing.Provider = "other" }},
		{"bad taxonomy", func(c *Config) {
			c.Taxonomy.Categories = []taxonomy.Category{{Name: "general", Keywords: []string{"x"}}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBuildTaxonomy_Override(t *testing.T) {
	cfg := Default()
	cfg.Taxonomy.Categories = []taxonomy.Category{{Name: "climate", Keywords: []string{"carbon"}}}
	cfg.Taxonomy.HighValueAccounts = []string{"climateinsider"}

	tx, err := cfg.BuildTaxonomy()
	require.NoError(t, err)

	assert.Equal(t, []string{"climate"}, tx.CategoryNames())
	assert.True(t, tx.IsHighValue("ClimateInsider"))
	assert.False(t, tx.IsHighValue("techcrunch"))
	assert.Equal(t, 2, tx.CountPositive("great success"))
}

func TestCompanies(t *testing.T) {
	cfg := Default()

	all, err := cfg.Companies(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(cfg.Portfolio))

	some, err := cfg.Companies([]string{"wayve", "Modern Health"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "Wayve", some[0].Name)
	assert.Equal(t, "https://www.linkedin.com/company/modern-health/", some[1].LinkedInURL)

	_, err = cfg.Companies([]string{"Initech"})
	assert.ErrorIs(t, err, ErrUnknownCompany)
}
