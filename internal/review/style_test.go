package review

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStylerNext_ValidDirectives(t *testing.T) {
	s := NewStyler(rand.New(rand.NewSource(1)))

	for i := 0; i < 500; i++ {
		d := s.Next()
		assert.Contains(t, []LanguagePattern{LangPureEnglish, LangHinglish, LangHindiCasual}, d.Language)
		assert.Contains(t, []ReviewLength{LengthShort, LengthMedium, LengthLong}, d.Length)
		assert.Contains(t, []ContentFocus{FocusProduct, FocusGeneral}, d.Focus)
		assert.Greater(t, d.MinWords, 0)
		assert.GreaterOrEqual(t, d.MaxWords, d.MinWords)
	}
}

func TestStylerRating_DistributionBounds(t *testing.T) {
	s := NewStyler(rand.New(rand.NewSource(2)))

	counts := make(map[int]int)
	const n = 10000
	for i := 0; i < n; i++ {
		r := s.Rating()
		require.GreaterOrEqual(t, r, 2)
		require.LessOrEqual(t, r, 5)
		counts[r]++
	}

	// Five-star dominates, two-star is rare; wide tolerances keep the test
	// stable across seeds.
	assert.Greater(t, counts[5], n*40/100)
	assert.Less(t, counts[2], n*10/100)
	assert.Zero(t, counts[1])
}

func TestStylerDate_WithinWindow(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	s := NewStyler(rand.New(rand.NewSource(3)))

	for i := 0; i < 200; i++ {
		d, err := time.Parse("2006-01-02", s.Date())
		require.NoError(t, err)
		assert.False(t, d.Before(start), "date %s before window", d)
		assert.False(t, d.After(end), "date %s after window", d)
	}
}

func TestStylerWithDateRange(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	s := NewStyler(rand.New(rand.NewSource(4))).WithDateRange(day, day)

	for i := 0; i < 10; i++ {
		assert.Equal(t, "2026-01-15", s.Date())
	}
}
