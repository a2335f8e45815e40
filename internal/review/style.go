// Package review builds prompts and produces ReviewRecords through an LLM,
// with deterministic fallback content when generation repeatedly fails.
package review

import (
	"math/rand"
	"time"
)

// LanguagePattern is the language mix a single review should be written in.
type LanguagePattern string

// Language patterns and their target share of the output
const (
	LangPureEnglish LanguagePattern = "Pure English" // 60%
	LangHinglish    LanguagePattern = "Hinglish"     // 30%
	LangHindiCasual LanguagePattern = "Hindi Casual" // 10%
)

// ReviewLength buckets a review's word budget.
type ReviewLength string

// Length buckets and their target share of the output
const (
	LengthShort  ReviewLength = "short"  // 25%, 5-7 words
	LengthMedium ReviewLength = "medium" // 40%, 8-14 words
	LengthLong   ReviewLength = "long"   // 35%, 15-30 words
)

// ContentFocus selects between product-specific and general review content.
type ContentFocus string

// Content focus values
const (
	FocusProduct ContentFocus = "product-specific" // 70%
	FocusGeneral ContentFocus = "general"          // 30%
)

// StyleDirective bundles the per-review style decisions. It is opaque to the
// batch driver and the retry controller.
type StyleDirective struct {
	Language LanguagePattern
	Length   ReviewLength
	MinWords int
	MaxWords int
	Focus    ContentFocus
	Emoji    bool
}

// wordLimits maps a length bucket to its word budget.
var wordLimits = map[ReviewLength][2]int{
	LengthShort:  {5, 7},
	LengthMedium: {8, 14},
	LengthLong:   {15, 30},
}

// Styler draws style directives, ratings, and posting dates from the
// configured distributions. Not safe for concurrent use.
type Styler struct {
	rng       *rand.Rand
	dateStart time.Time
	dateEnd   time.Time
}

// NewStyler creates a Styler over the default posting-date window
// (2025-09-01 through 2025-12-31).
func NewStyler(rng *rand.Rand) *Styler {
	return &Styler{
		rng:       rng,
		dateStart: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		dateEnd:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// WithDateRange overrides the posting-date window.
func (s *Styler) WithDateRange(start, end time.Time) *Styler {
	s.dateStart = start
	s.dateEnd = end
	return s
}

// Next draws one style directive.
func (s *Styler) Next() StyleDirective {
	d := StyleDirective{
		Language: s.language(),
		Length:   s.length(),
		Focus:    FocusProduct,
		Emoji:    s.rng.Float64() < 0.15,
	}
	if s.rng.Float64() >= 0.70 {
		d.Focus = FocusGeneral
	}
	limits := wordLimits[d.Length]
	d.MinWords, d.MaxWords = limits[0], limits[1]
	return d
}

// Rating draws a star rating: 50% five, 25% four, 20% three, 5% two.
func (s *Styler) Rating() int {
	switch roll := s.rng.Float64(); {
	case roll < 0.50:
		return 5
	case roll < 0.75:
		return 4
	case roll < 0.95:
		return 3
	default:
		return 2
	}
}

// Date draws a posting date inside the configured window, formatted
// YYYY-MM-DD.
func (s *Styler) Date() string {
	days := int(s.dateEnd.Sub(s.dateStart).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	d := s.dateStart.AddDate(0, 0, s.rng.Intn(days))
	return d.Format("2006-01-02")
}

func (s *Styler) language() LanguagePattern {
	switch roll := s.rng.Float64(); {
	case roll < 0.60:
		return LangPureEnglish
	case roll < 0.90:
		return LangHinglish
	default:
		return LangHindiCasual
	}
}

func (s *Styler) length() ReviewLength {
	switch roll := s.rng.Float64(); {
	case roll < 0.25:
		return LengthShort
	case roll < 0.65:
		return LengthMedium
	default:
		return LengthLong
	}
}
