package review

import (
	"fmt"
	"strings"

	"github.com/jonathan/review-generator/internal/prompts"
)

var reviewSystemPrompt = prompts.MustGet("review.json", "generate-review-system")

// buildPrompt renders the per-review generation prompt from the product, its
// benefits, and the drawn style directive.
func buildPrompt(display, category, subCategory, specificType string, b Benefits, d StyleDirective) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate a realistic customer review for: %q\n\n", display)

	sb.WriteString("PRODUCT DETAILS:\n")
	fmt.Fprintf(&sb, "- Category: %s > %s > %s\n", orUnspecified(category), orUnspecified(subCategory), orUnspecified(specificType))
	fmt.Fprintf(&sb, "- Primary Benefit: %s\n", b.PrimaryBenefit)
	if len(b.Benefits) > 0 {
		fmt.Fprintf(&sb, "- Additional Benefits: %s\n", strings.Join(firstN(b.Benefits, 3), ", "))
	}

	sb.WriteString("\nREQUIREMENTS:\n")
	fmt.Fprintf(&sb, "1. LANGUAGE: write this review as %s.\n", d.Language)
	sb.WriteString("   FORBIDDEN words: yaar, dost, bhai, friends (no buddy tone).\n")
	sb.WriteString("   ALLOWED shorthand: recd, ok-ok, thoda, bilkul, accha, sahi.\n")
	fmt.Fprintf(&sb, "2. LENGTH: %s, %d-%d words, at most 2 sentences.\n", d.Length, d.MinWords, d.MaxWords)
	fmt.Fprintf(&sb, "3. FOCUS: %s", d.Focus)
	if d.Focus == FocusProduct {
		sb.WriteString(" (effects, taste, freshness, skin/hair benefits)")
	} else {
		sb.WriteString(" (delivery, packaging, price, value for money)")
	}
	sb.WriteString(".\n")
	sb.WriteString("4. TONE: casual and imperfect like real e-commerce reviews; ")
	sb.WriteString("occasional typos and abbreviations are good; personal experience only, no medical guarantees.\n")
	if d.Emoji {
		sb.WriteString("5. EMOJIS: include 1-2 emojis.\n")
	} else {
		sb.WriteString("5. EMOJIS: none.\n")
	}
	sb.WriteString("6. NEVER mention SKU codes or product IDs, never start with the brand name, no formal Hindi.\n")

	sb.WriteString("\nGOOD EXAMPLES:\n")
	sb.WriteString("- \"Used daily after bath, skin didn't feel dry even in AC rooms. impressed!\"\n")
	sb.WriteString("- \"Finally sugar free biscuit jo tasty bhi hai, mom diabetic hai so perfect.\"\n")
	sb.WriteString("- \"Cap loose tha, wipes thoda dry lage baad me.\"\n")

	sb.WriteString("\nGenerate ONE review that follows ALL these rules exactly:")
	return sb.String()
}

func orUnspecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
