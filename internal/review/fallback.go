package review

import "fmt"

// fallbackTemplates are indexed by (item, directive) hash so exhausted
// retries still yield stable, category-aware review text.
var fallbackTemplates = []string{
	"Works well for %s, quality bahut acchi hai.",
	"Great product for %s, bilkul sahi hai.",
	"Really helps with %s, happy with the purchase.",
	"Good value for money, perfect choice for %s.",
	"Accha product hai, %s ke liye reliable.",
	"Effective results for %s, would recommend.",
}

// FallbackText builds deterministic review text for an item from its
// category-keyed benefits. The same item and attempt seed always produce the
// same text, so fallback output is reproducible across a resumed run.
func FallbackText(primaryBenefit string, seed int) string {
	template := fallbackTemplates[seed%len(fallbackTemplates)]
	return fmt.Sprintf(template, primaryBenefit)
}
