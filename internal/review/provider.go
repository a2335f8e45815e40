package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/review-generator/internal/llm"
	"github.com/jonathan/review-generator/internal/names"
	"github.com/jonathan/review-generator/internal/types"
)

// maxRecentReviews bounds the duplicate-detection window.
const maxRecentReviews = 500

// stockPhrases are over-used fragments; a reply leaning on several of them is
// regenerated.
var stockPhrases = []string{
	"kaafi effective hain",
	"bahut accha hai",
	"bilkul sahi hai",
	"perfect hai",
	"recommend karunga",
	"satisfied hun",
}

// Provider generates complete ReviewRecords: text from the LLM, username,
// rating, and date from the local generators. It satisfies the generation
// capability the retry controller wraps.
type Provider struct {
	client   llm.Client
	benefits *BenefitAnalyzer
	styler   *Styler
	names    *names.Generator
	recent   []string
	seen     map[string]bool
}

// NewProvider assembles a Provider from its collaborators.
func NewProvider(client llm.Client, analyzer *BenefitAnalyzer, styler *Styler, nameGen *names.Generator) *Provider {
	return &Provider{
		client:   client,
		benefits: analyzer,
		styler:   styler,
		names:    nameGen,
		seen:     make(map[string]bool),
	}
}

// Generate produces one ReviewRecord for the item under the directive.
// Failures are wrapped as *TransientError where retryable; the caller (the
// retry controller) decides whether to retry or fall back.
func (p *Provider) Generate(ctx context.Context, item types.WorkItem, directive StyleDirective) (types.ReviewRecord, error) {
	b := p.benefits.Analyze(ctx, item)
	prompt := buildPrompt(item.DisplayName(), item.Category, item.SubCategory, item.SpecificType, b, directive)

	text, err := p.client.GenerateContent(ctx, reviewSystemPrompt, prompt, llm.TierStandard)
	if err != nil {
		return types.ReviewRecord{}, classifyProviderError(err)
	}

	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
	if reason := p.reject(item, directive, text); reason != "" {
		return types.ReviewRecord{}, &TransientError{
			Kind:  KindMalformed,
			Cause: fmt.Errorf("%s: %q", reason, truncate(text, 80)),
		}
	}

	p.remember(text)
	return p.assemble(item, text), nil
}

// Fallback builds the deterministic record used when every attempt failed.
// Text comes from the static category-keyed templates; username, rating, and
// date still come from the local generators so the record is complete.
func (p *Provider) Fallback(item types.WorkItem, _ StyleDirective, seed int) types.ReviewRecord {
	b := FallbackBenefits(item)
	return p.assemble(item, FallbackText(b.PrimaryBenefit, seed))
}

// Reset clears per-run duplicate-detection state.
func (p *Provider) Reset() {
	p.recent = nil
	p.seen = make(map[string]bool)
	p.names.Reset()
}

func (p *Provider) assemble(item types.WorkItem, text string) types.ReviewRecord {
	return types.ReviewRecord{
		SKUID:        item.ID,
		Brand:        item.Brand,
		ProductName:  item.Name,
		Category:     item.Category,
		SubCategory:  item.SubCategory,
		SpecificType: item.SpecificType,
		Review:       text,
		Username:     p.names.Generate(),
		Rating:       p.styler.Rating(),
		Date:         p.styler.Date(),
	}
}

// reject returns a non-empty reason when the reply is unusable.
func (p *Provider) reject(item types.WorkItem, directive StyleDirective, text string) string {
	if text == "" {
		return "empty review"
	}
	if strings.Contains(text, item.ID) {
		return "review leaks SKU id"
	}
	if words := len(strings.Fields(text)); words > directive.MaxWords*2+10 {
		return "review far exceeds word budget"
	}
	if p.tooSimilar(text) {
		return "review too similar to earlier output"
	}
	return ""
}

func (p *Provider) tooSimilar(text string) bool {
	lower := strings.ToLower(text)
	if p.seen[lower] {
		return true
	}

	stock := 0
	for _, phrase := range stockPhrases {
		if strings.Contains(lower, phrase) {
			stock++
		}
	}
	if stock >= 2 {
		return true
	}

	opening := firstWords(lower, 3)
	for _, prev := range p.recent {
		if firstWords(prev, 3) == opening {
			return true
		}
	}
	return false
}

func (p *Provider) remember(text string) {
	lower := strings.ToLower(text)
	p.seen[lower] = true
	p.recent = append(p.recent, lower)
	if len(p.recent) > maxRecentReviews {
		delete(p.seen, p.recent[0])
		p.recent = p.recent[1:]
	}
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
