package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr string
	}{
		{
			name:   "defaults pass",
			modify: func(s *Settings) {},
		},
		{
			name:    "weights must sum to one",
			modify:  func(s *Settings) { s.WeightAI = 0.5 },
			wantErr: "must sum to 1.0",
		},
		{
			name:   "small drift tolerated",
			modify: func(s *Settings) { s.WeightAI = 0.1005 },
		},
		{
			name:    "negative penalty rejected",
			modify:  func(s *Settings) { s.W3CIssuePenalty = -1 },
			wantErr: "penalty",
		},
		{
			name:    "grade minimums must strictly decrease",
			modify:  func(s *Settings) { s.GradeBMin = 90 },
			wantErr: "strictly decrease",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			err := s.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGrade(t *testing.T) {
	s := DefaultSettings()

	tests := []struct {
		score    float64
		expected string
	}{
		{100, "A"},
		{90, "A"},
		{89.9, "B"},
		{80, "B"},
		{70, "C"},
		{60, "D"},
		{59.9, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, s.Grade(tt.score), "score %g", tt.score)
	}
}

func TestStructuralScore(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 100.0, s.StructuralScore(0))
	assert.Equal(t, 90.0, s.StructuralScore(5))
	assert.Equal(t, 0.0, s.StructuralScore(50))
	assert.Equal(t, 0.0, s.StructuralScore(500), "clamped at zero")
}

func TestOverall(t *testing.T) {
	s := DefaultSettings()

	t.Run("all perfect", func(t *testing.T) {
		got := s.Overall(SignalScores{W3C: 100, PSIMobile: 100, Accessibility: 100, Design: 100, AI: 100})
		assert.Equal(t, 100.0, got)
	})

	t.Run("weighted and rounded", func(t *testing.T) {
		// 90*.27 + 70*.27 + 80*.18 + 0*.18 + 50*.10 = 62.6 -> 63
		got := s.Overall(SignalScores{W3C: 90, PSIMobile: 70, Accessibility: 80, Design: 0, AI: 50})
		assert.Equal(t, 63.0, got)
	})

	t.Run("missing signals contribute zero", func(t *testing.T) {
		got := s.Overall(SignalScores{W3C: 100})
		assert.Equal(t, 27.0, got)
	})

	t.Run("all zero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Overall(SignalScores{}))
	})
}
