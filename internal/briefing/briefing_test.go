package briefing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/portfoliowatch/internal/analyzer"
	"github.com/ibeckermayer/portfoliowatch/internal/config"
	"github.com/ibeckermayer/portfoliowatch/internal/store"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

type fakeProvider struct {
	prompt   string
	response string
	err      error
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-1" }

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func rollup() types.PortfolioRollup {
	s := analyzer.NewScorer(nil)
	return analyzer.Rollup([]types.CompanyReport{
		s.Aggregate("Acme", []types.Post{
			{ID: "1", AuthorHandle: "a", Content: "Acme   raised\n a round"},
			{ID: "2", AuthorHandle: "b", Content: "hello"},
			{ID: "3", AuthorHandle: "c", Content: "third"},
		}),
		s.Aggregate("Quiet", nil),
	})
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(rollup())

	assert.Contains(t, p, "Acme | 3 |")
	assert.Contains(t, p, "Quiet | 0 | 0.00 | 0 | 0 | 0/0/0 | none")
	assert.Contains(t, p, "- [Acme, 4.00] Acme raised a round")
	assert.NotContains(t, p, "third", "only the top two posts are quoted")
}

func TestBrief_CachesExchange(t *testing.T) {
	cache := store.NewCache(t.TempDir())
	fp := &fakeProvider{response: "  Acme closed a round.\n"}

	out, err := NewWithProvider(fp, cache).Brief(context.Background(), rollup())
	require.NoError(t, err)
	assert.Equal(t, "Acme closed a round.", out)

	exchange, _, err := store.LoadLatestStepOutput[store.LLMExchange](cache, store.StepLLM)
	require.NoError(t, err)
	assert.Equal(t, "fake", exchange.Provider)
	assert.Equal(t, fp.prompt, exchange.Prompt)
}

func TestBrief_ProviderError(t *testing.T) {
	cache := store.NewCache(t.TempDir())
	fp := &fakeProvider{err: errors.New("overloaded")}

	_, err := NewWithProvider(fp, cache).Brief(context.Background(), rollup())
	assert.ErrorContains(t, err, "overloaded")

	exchange, _, err := store.LoadLatestStepOutput[store.LLMExchange](cache, store.StepLLM)
	require.NoError(t, err)
	assert.Equal(t, "overloaded", exchange.Error)
}

func TestNew(t *testing.T) {
	_, err := New(config.BriefingConfig{Provider: config.ProviderNone}, nil)
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = New(config.BriefingConfig{Provider: config.ProviderAnthropic}, nil)
	assert.ErrorIs(t, err, ErrDisabled)

	b, err := New(config.BriefingConfig{Provider: config.ProviderAnthropic, APIKey: "k", Model: "m"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "m", b.provider.Model())

	_, err = New(config.BriefingConfig{Provider: "openai"}, nil)
	assert.Error(t, err)
}
