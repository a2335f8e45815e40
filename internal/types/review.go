// Package types defines the shared data model for the review generation pipeline.
package types

import "fmt"

// Mode selects how many reviews are generated per catalog item.
type Mode string

// Generation modes supported by the batch driver
const (
	// ModeQuick generates exactly 1 review per item
	ModeQuick Mode = "quick"
	// ModeMedium generates 3-5 reviews per item
	ModeMedium Mode = "medium"
	// ModeComprehensive generates 15-20 reviews per item
	ModeComprehensive Mode = "comprehensive"
)

// ParseMode converts a string into a Mode, rejecting unknown values.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeQuick, ModeMedium, ModeComprehensive:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected quick, medium, or comprehensive)", s)
	}
}

// TargetRange returns the inclusive [min, max] review count for the mode.
func (m Mode) TargetRange() (int, int) {
	switch m {
	case ModeQuick:
		return 1, 1
	case ModeMedium:
		return 3, 5
	case ModeComprehensive:
		return 15, 20
	default:
		return 1, 1
	}
}

// WorkItem is one product row from the input catalog. It is read once at job
// start and never mutated.
type WorkItem struct {
	ID               string `json:"sku_id" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Brand            string `json:"brand"`
	Category         string `json:"category"`
	SubCategory      string `json:"sub_category"`
	SpecificType     string `json:"specific_type"`
	DiscountCategory string `json:"discount_category"`
}

// DisplayName combines brand and product name the way the output table
// expects it ("Brand - Name").
func (w WorkItem) DisplayName() string {
	if w.Brand == "" {
		return w.Name
	}
	return w.Brand + " - " + w.Name
}

// GenerationTarget fixes the planned review count for a WorkItem. The count is
// chosen once per item (pseudo-randomly within the mode's range) and does not
// change for the remainder of the run, including across a resume.
type GenerationTarget struct {
	Item        WorkItem `json:"item"`
	ReviewCount int      `json:"review_count"`
}

// ReviewRecord is one generated output row. Records are immutable once
// produced and are appended to the output table in generation order.
type ReviewRecord struct {
	SKUID        string `json:"sku_id"`
	Brand        string `json:"brand"`
	ProductName  string `json:"product_name"`
	Category     string `json:"category"`
	SubCategory  string `json:"sub_category"`
	SpecificType string `json:"specific_type"`
	Review       string `json:"review"`
	Username     string `json:"username"`
	Rating       int    `json:"rating"`
	Date         string `json:"date"`
}
