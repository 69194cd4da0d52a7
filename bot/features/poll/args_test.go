package poll

import (
	"math"
	"strings"
	"testing"
	"time"

	"roomrelay/bot/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Request
	}{
		{
			name:     "all segments",
			raw:      "Lunch|pizza tacos soup|5",
			expected: Request{Name: "Lunch", Choices: []string{"pizza", "tacos", "soup"}, Timeout: 5 * time.Minute},
		},
		{
			name:     "default timeout",
			raw:      "Lunch|pizza tacos",
			expected: Request{Name: "Lunch", Choices: []string{"pizza", "tacos"}, Timeout: time.Hour},
		},
		{
			name:     "empty timeout segment",
			raw:      " Best color | red  blue |",
			expected: Request{Name: "Best color", Choices: []string{"red", "blue"}, Timeout: time.Hour},
		},
		{
			name:     "timeout is capped",
			raw:      "Lunch|pizza|999999",
			expected: Request{Name: "Lunch", Choices: []string{"pizza"}, Timeout: MaxTimeout},
		},
		{
			name:     "timeout too large for a duration",
			raw:      "Lunch|pizza tacos|200000000",
			expected: Request{Name: "Lunch", Choices: []string{"pizza", "tacos"}, Timeout: MaxTimeout},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseArgs(tt.raw, time.Hour)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req)
		})
	}
}

func TestParseArgs_ChoicesAreTruncated(t *testing.T) {
	req, err := ParseArgs("Numbers|"+strings.Repeat("x ", 12), time.Hour)
	require.NoError(t, err)
	assert.Len(t, req.Choices, MaxChoices)
}

func TestParseArgs_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		message string
	}{
		{"no separator", "Lunch", "Usage: `poll name|choice1 choice2 ...|minutes`"},
		{"too many segments", "a|b|1|2", "Usage: `poll name|choice1 choice2 ...|minutes`"},
		{"missing name", "|pizza", "A poll needs a name."},
		{"missing choices", "Lunch|  |5", "A poll needs at least one choice."},
		{"non-numeric timeout", "Lunch|pizza|soon", "The timeout must be a positive number of minutes."},
		{"negative timeout", "Lunch|pizza|-3", "The timeout must be a positive number of minutes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.raw, time.Hour)
			require.Error(t, err)

			var botErr *common.BotError
			require.ErrorAs(t, err, &botErr)
			assert.Equal(t, tt.message, botErr.UserMessage)
		})
	}
}

func TestNewRequest_Timeout(t *testing.T) {
	tests := []struct {
		name     string
		minutes  int
		expected time.Duration
	}{
		{"default", 0, time.Hour},
		{"explicit", 15, 15 * time.Minute},
		{"at the cap", MaxTimeoutMinutes, MaxTimeout},
		{"past the cap", MaxTimeoutMinutes + 1, MaxTimeout},
		{"max int", math.MaxInt, MaxTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequest("Lunch", "pizza", tt.minutes, time.Hour)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req.Timeout)
			assert.Positive(t, req.Timeout)
		})
	}
}
