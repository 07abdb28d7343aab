package relay

import (
	"fmt"
	"strings"

	"github.com/mattjoyce/chirpgw/internal/twitter"
)

// FormatResults renders at most max statuses, one Markdown paragraph each,
// in provider order. Zero statuses produce the empty string.
func FormatResults(statuses []twitter.Status, max int) string {
	count := len(statuses)
	if count > max {
		count = max
	}

	var b strings.Builder
	for i := 0; i < count; i++ {
		b.WriteString(formatStatus(statuses[i]))
	}
	return b.String()
}

// formatStatus renders one tweet: author link, verbatim text, deep link.
func formatStatus(s twitter.Status) string {
	return fmt.Sprintf(
		"*Tweet* from [@%s](http://twitter.com/%s): %s. Click [here](https://twitter.com/%s/status/%s) to view more. \r\n\r\n",
		s.User.ScreenName, s.User.ScreenName, s.Text, s.User.ScreenName, s.IDStr,
	)
}
