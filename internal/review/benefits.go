package review

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/review-generator/internal/llm"
	"github.com/jonathan/review-generator/internal/prompts"
	"github.com/jonathan/review-generator/internal/types"
)

// Benefits describes what a product is for, so review prompts can reference
// concrete effects instead of generic praise.
type Benefits struct {
	PrimaryBenefit    string   `json:"primary_benefit"`
	Benefits          []string `json:"benefits"`
	MedicalConditions []string `json:"medical_conditions"`
}

// keywordBenefits resolves a product name to benefits when the LLM analysis
// is unavailable.
var keywordBenefits = []struct {
	keywords []string
	benefits Benefits
}{
	{
		keywords: []string{"dolo", "paracetamol", "fever", "temperature"},
		benefits: Benefits{PrimaryBenefit: "fever relief", Benefits: []string{"fever reduction", "body temperature control"}},
	},
	{
		keywords: []string{"pain", "headache", "migraine", "analgesic"},
		benefits: Benefits{PrimaryBenefit: "pain relief", Benefits: []string{"headache relief", "body pain relief"}},
	},
	{
		keywords: []string{"limcee", "vitamin c", "ascorbic", "immunity"},
		benefits: Benefits{PrimaryBenefit: "immunity boost", Benefits: []string{"vitamin C deficiency", "antioxidant support"}},
	},
	{
		keywords: []string{"vitamin d", "calcium", "bone"},
		benefits: Benefits{PrimaryBenefit: "bone health", Benefits: []string{"vitamin D deficiency", "calcium absorption"}},
	},
	{
		keywords: []string{"cetaphil", "cerave", "cleanser", "moisturizer", "cream", "lotion"},
		benefits: Benefits{PrimaryBenefit: "skin hydration", Benefits: []string{"moisturizing", "skin repair"}},
	},
	{
		keywords: []string{"shampoo", "hair", "dandruff", "scalp"},
		benefits: Benefits{PrimaryBenefit: "hair care", Benefits: []string{"dandruff control", "hair strength"}},
	},
	{
		keywords: []string{"digestive", "probiotic", "enzyme", "acid", "gut"},
		benefits: Benefits{PrimaryBenefit: "digestion improvement", Benefits: []string{"acid reflux relief", "gut health"}},
	},
}

var genericBenefits = Benefits{
	PrimaryBenefit: "general health support",
	Benefits:       []string{"overall wellness", "health maintenance"},
}

var benefitSystemPrompt = prompts.MustGet("review.json", "analyze-benefits-system")

// BenefitAnalyzer resolves product benefits via the LLM, with a keyword
// fallback. Results are cached per item so retries and multi-review items
// analyze each product once.
type BenefitAnalyzer struct {
	client llm.Client
	cache  map[string]Benefits
}

// NewBenefitAnalyzer creates an analyzer. A nil client skips the LLM and
// always uses the keyword fallback.
func NewBenefitAnalyzer(client llm.Client) *BenefitAnalyzer {
	return &BenefitAnalyzer{client: client, cache: make(map[string]Benefits)}
}

// Analyze returns benefits for the item. Analysis failures degrade to the
// keyword fallback; this method never returns an error because benefit text
// is advisory prompt material, not output.
func (a *BenefitAnalyzer) Analyze(ctx context.Context, item types.WorkItem) Benefits {
	if cached, ok := a.cache[item.ID]; ok {
		return cached
	}

	b, ok := a.analyzeWithLLM(ctx, item)
	if !ok {
		b = FallbackBenefits(item)
	}
	a.cache[item.ID] = b
	return b
}

func (a *BenefitAnalyzer) analyzeWithLLM(ctx context.Context, item types.WorkItem) (Benefits, bool) {
	if a.client == nil {
		return Benefits{}, false
	}

	prompt := "Analyze the medical benefits and uses for this product:\n\n" +
		"Product: " + item.DisplayName() + "\n" +
		"Category: " + item.Category + "\n" +
		"Sub-category: " + item.SubCategory + "\n" +
		"Specific Type: " + item.SpecificType + "\n\n" +
		`Respond with JSON: {"primary_benefit": "...", "benefits": ["..."], "medical_conditions": ["..."]}` + "\n" +
		"Base your analysis on the product name, category, and known medical knowledge."

	raw, err := a.client.GenerateJSON(ctx, benefitSystemPrompt, prompt, llm.TierLite)
	if err != nil {
		return Benefits{}, false
	}

	var b Benefits
	if err := json.Unmarshal([]byte(raw), &b); err != nil || b.PrimaryBenefit == "" {
		return Benefits{}, false
	}
	return b, true
}

// FallbackBenefits resolves benefits from the keyword table, or the generic
// entry when nothing matches. Deterministic for a given item.
func FallbackBenefits(item types.WorkItem) Benefits {
	name := strings.ToLower(item.DisplayName())
	for _, entry := range keywordBenefits {
		for _, kw := range entry.keywords {
			if strings.Contains(name, kw) {
				return entry.benefits
			}
		}
	}
	return genericBenefits
}
