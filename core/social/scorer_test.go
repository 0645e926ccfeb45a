package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportPlainJSON(t *testing.T) {
	report, err := parseReport(`{"vibe_score": 72, "reasoning": "organic chatter", "red_flags": []}`)
	require.NoError(t, err)
	assert.Equal(t, 72, report.VibeScore)
	assert.Equal(t, "organic chatter", report.Reasoning)
}

func TestParseReportStripsCodeFence(t *testing.T) {
	content := "Here is my grade:\n```json\n{\"vibe_score\": 40, \"reasoning\": \"mostly bots\", \"red_flags\": [\"copy-paste shills\"]}\n```"
	report, err := parseReport(content)
	require.NoError(t, err)
	assert.Equal(t, 40, report.VibeScore)
	assert.Equal(t, []string{"copy-paste shills"}, report.RedFlags)
}

func TestParseReportClampsScore(t *testing.T) {
	report, err := parseReport(`{"vibe_score": 150, "reasoning": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, 100, report.VibeScore)

	report, err = parseReport(`{"vibe_score": -10, "reasoning": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, 0, report.VibeScore)
}

func TestParseReportRejectsNonJSON(t *testing.T) {
	_, err := parseReport("I cannot grade this token.")
	assert.Error(t, err)
}
