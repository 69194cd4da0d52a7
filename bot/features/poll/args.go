package poll

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"roomrelay/bot/common"
)

// MaxTimeout caps how long a poll may stay open
const MaxTimeout = 7 * 24 * time.Hour

// MaxTimeoutMinutes is MaxTimeout in the unit poll commands take
const MaxTimeoutMinutes = int(MaxTimeout / time.Minute)

// Request is a validated poll description
type Request struct {
	Name    string
	Choices []string
	Timeout time.Duration
}

// NewRequest validates the pieces of a poll command. choices is split on
// whitespace and anything past MaxChoices is dropped. minutes <= 0 selects
// defaultTimeout.
func NewRequest(name, choices string, minutes int, defaultTimeout time.Duration) (Request, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Request{}, common.NewUserError("A poll needs a name.", "poll without name")
	}

	labels := strings.Fields(choices)
	if len(labels) == 0 {
		return Request{}, common.NewUserError("A poll needs at least one choice.", "poll without choices")
	}
	if len(labels) > MaxChoices {
		labels = labels[:MaxChoices]
	}

	// Clamp in minutes first, large values overflow time.Duration
	timeout := defaultTimeout
	switch {
	case minutes > MaxTimeoutMinutes:
		timeout = MaxTimeout
	case minutes > 0:
		timeout = time.Duration(minutes) * time.Minute
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	return Request{Name: name, Choices: labels, Timeout: timeout}, nil
}

// ParseArgs parses the text form `name|choice choice ...|minutes`. The
// timeout segment is optional.
func ParseArgs(raw string, defaultTimeout time.Duration) (Request, error) {
	parts := strings.Split(raw, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return Request{}, common.NewUserError(
			"Usage: `poll name|choice1 choice2 ...|minutes`",
			fmt.Sprintf("malformed poll arguments %q", raw),
		)
	}

	minutes := 0
	if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || n <= 0 {
			return Request{}, common.NewUserError(
				"The timeout must be a positive number of minutes.",
				fmt.Sprintf("bad poll timeout %q", parts[2]),
			)
		}
		minutes = n
	}

	return NewRequest(parts[0], parts[1], minutes, defaultTimeout)
}
