// Package scoring holds the administrator-tunable weighting configuration and
// the pure aggregate scoring math applied to a fully or partially fetched
// audit record.
package scoring

import (
	"fmt"
	"math"
	"time"
)

// weightSumTolerance is how far the five weights may drift from 1.0 at the
// editing boundary. Storage does not re-validate: old rows stay readable.
const weightSumTolerance = 0.001

// Settings is the single active scoring configuration.
type Settings struct {
	ID                  string
	WeightW3C           float64
	WeightPSIMobile     float64
	WeightAccessibility float64
	WeightDesign        float64
	WeightAI            float64
	W3CIssuePenalty     float64
	GradeAMin           float64
	GradeBMin           float64
	GradeCMin           float64
	GradeDMin           float64
	IsActive            bool
	UpdatedAt           time.Time
	UpdatedBy           string
}

// DefaultSettings returns the shipped weighting configuration.
func DefaultSettings() *Settings {
	return &Settings{
		WeightW3C:           0.27,
		WeightPSIMobile:     0.27,
		WeightAccessibility: 0.18,
		WeightDesign:        0.18,
		WeightAI:            0.10,
		W3CIssuePenalty:     2.0,
		GradeAMin:           90,
		GradeBMin:           80,
		GradeCMin:           70,
		GradeDMin:           60,
		IsActive:            true,
	}
}

// Validate enforces the editing-boundary invariants: weights sum to 1.0 and
// grade minimums strictly decrease.
func (s *Settings) Validate() error {
	sum := s.WeightW3C + s.WeightPSIMobile + s.WeightAccessibility + s.WeightDesign + s.WeightAI
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("signal weights must sum to 1.0, got %.3f", sum)
	}
	if s.W3CIssuePenalty < 0 {
		return fmt.Errorf("issue penalty must not be negative")
	}
	if !(s.GradeAMin > s.GradeBMin && s.GradeBMin > s.GradeCMin && s.GradeCMin > s.GradeDMin) {
		return fmt.Errorf("grade minimums must strictly decrease (A > B > C > D)")
	}
	return nil
}

// Grade maps a 0-100 score onto a letter grade using the configured minimums.
func (s *Settings) Grade(score float64) string {
	switch {
	case score >= s.GradeAMin:
		return "A"
	case score >= s.GradeBMin:
		return "B"
	case score >= s.GradeCMin:
		return "C"
	case score >= s.GradeDMin:
		return "D"
	default:
		return "F"
	}
}

// StructuralScore converts a validator issue count into a 0-100 score using
// the configured per-issue penalty.
func (s *Settings) StructuralScore(issueCount int64) float64 {
	score := 100 - float64(issueCount)*s.W3CIssuePenalty
	return clamp(score, 0, 100)
}

// SignalScores carries the current 0-100 value of every weighted input.
// Callers supply 0 for signals that have not succeeded.
type SignalScores struct {
	W3C           float64
	PSIMobile     float64
	Accessibility float64
	Design        float64
	AI            float64
}

// Overall computes the weighted composite score, rounded to the nearest
// integer and clamped to [0,100]. It is safe to invoke repeatedly and does
// not depend on which signals have completed.
func (s *Settings) Overall(in SignalScores) float64 {
	total := in.W3C*s.WeightW3C +
		in.PSIMobile*s.WeightPSIMobile +
		in.Accessibility*s.WeightAccessibility +
		in.Design*s.WeightDesign +
		in.AI*s.WeightAI
	return clamp(math.Round(total), 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
