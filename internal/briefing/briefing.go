// Package briefing turns a portfolio rollup into a short written summary
// using a language model.
package briefing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ibeckermayer/portfoliowatch/internal/config"
	"github.com/ibeckermayer/portfoliowatch/internal/logging"
	"github.com/ibeckermayer/portfoliowatch/internal/store"
	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// ErrDisabled is returned by New when no provider is configured
var ErrDisabled = errors.New("briefing disabled")

// maxHighlights caps the posts quoted per company in the prompt
const maxHighlights = 2

// Provider completes a prompt
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Briefer writes portfolio briefings
type Briefer struct {
	provider Provider
	cache    *store.Cache
	log      *zap.SugaredLogger
}

// New builds a briefer from config. It returns ErrDisabled when the
// provider is "none" or no API key is set.
func New(cfg config.BriefingConfig, cache *store.Cache) (*Briefer, error) {
	switch cfg.Provider {
	case "", config.ProviderNone:
		return nil, ErrDisabled
	case config.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, ErrDisabled
		}
		return NewWithProvider(NewAnthropicProvider(cfg.APIKey, cfg.Model), cache), nil
	default:
		return nil, fmt.Errorf("unknown briefing provider: %s", cfg.Provider)
	}
}

// NewWithProvider wraps an arbitrary provider. cache may be nil.
func NewWithProvider(p Provider, cache *store.Cache) *Briefer {
	return &Briefer{provider: p, cache: cache, log: logging.Named("briefing")}
}

// Brief asks the provider for a narrative summary of the rollup
func (b *Briefer) Brief(ctx context.Context, rollup types.PortfolioRollup) (string, error) {
	prompt := BuildPrompt(rollup)

	response, err := b.provider.Complete(ctx, prompt)

	if b.cache != nil {
		exchange := store.LLMExchange{
			Timestamp: time.Now(),
			Provider:  b.provider.Name(),
			Model:     b.provider.Model(),
			Prompt:    prompt,
			Response:  response,
		}
		if err != nil {
			exchange.Error = err.Error()
		}
		if path, cacheErr := b.cache.SaveLLMExchange(exchange); cacheErr != nil {
			b.log.Warnw("failed to cache llm exchange", "error", cacheErr)
		} else {
			b.log.Debugw("cached llm exchange", "path", path)
		}
	}

	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

// BuildPrompt renders the rollup as a compact table plus the top posts of
// each company
func BuildPrompt(rollup types.PortfolioRollup) string {
	var sb strings.Builder

	sb.WriteString("You are an analyst at a venture capital firm. Below is this period's social media activity ")
	sb.WriteString("about our portfolio companies, scored for relevance. Write a briefing of at most 150 words ")
	sb.WriteString("for the partners: call out notable funding, product or hiring news, any negative coverage, ")
	sb.WriteString("and which companies were unusually quiet or loud. Plain text, no headings.\n\n")

	sb.WriteString("company | posts | avg relevance | high importance | engagement | pos/neg/neu | top category\n")
	for _, r := range rollup.Rows {
		fmt.Fprintf(&sb, "%s | %d | %.2f | %d | %d | %d/%d/%d | %s\n",
			r.CompanyName, r.TotalPosts, r.AverageRelevance, r.HighImportanceCount,
			r.TotalEngagement, r.PositivePosts, r.NegativePosts, r.NeutralPosts, r.TopCategory)
	}

	var highlights strings.Builder
	for _, report := range rollup.Reports {
		for i, sp := range report.Posts {
			if i == maxHighlights {
				break
			}
			fmt.Fprintf(&highlights, "- [%s, %.2f] %s\n", report.CompanyName, sp.Analysis.RelevanceScore, oneLine(sp.Post.Content))
		}
	}
	if highlights.Len() > 0 {
		sb.WriteString("\nTop posts:\n")
		sb.WriteString(highlights.String())
	}

	return sb.String()
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 200 {
		return string(r[:197]) + "..."
	}
	return s
}
