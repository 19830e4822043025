package sigtime

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTimestamp makes a best-effort attempt at reading a date out of text.
// RFC 3339 is tried first, then any layout dateparse recognizes (including
// unix seconds and milliseconds), in the local time zone when text has none.
// Callers must not rely on any particular grammar beyond RFC 3339.
func ParseTimestamp(text string) (t time.Time, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return t, true
	}

	// dateparse has panicked on odd inputs before
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()

	t, err := dateparse.ParseLocal(text)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
