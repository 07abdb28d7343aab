package relay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattjoyce/chirpgw/internal/twitter"
)

func status(handle, text, id string) twitter.Status {
	return twitter.Status{
		IDStr: id,
		Text:  text,
		User:  twitter.User{ScreenName: handle},
	}
}

func TestFormatResults_CapsAtMax(t *testing.T) {
	statuses := []twitter.Status{
		status("alice", "one", "1"),
		status("bob", "two", "2"),
		status("carol", "three", "3"),
		status("dave", "four", "4"),
		status("erin", "five", "5"),
	}

	out := FormatResults(statuses, 3)

	assert.Equal(t, 3, strings.Count(out, "*Tweet* from"))
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "@carol")
	assert.NotContains(t, out, "@dave")
}

func TestFormatResults_PreservesProviderOrder(t *testing.T) {
	statuses := []twitter.Status{
		status("second-posted", "newer", "2"),
		status("first-posted", "older", "1"),
	}

	out := FormatResults(statuses, 3)

	assert.Less(t, strings.Index(out, "second-posted"), strings.Index(out, "first-posted"))
}

func TestFormatResults_ParagraphContents(t *testing.T) {
	out := FormatResults([]twitter.Status{status("alice", "hello world", "42")}, 3)

	assert.Contains(t, out, "[@alice](http://twitter.com/alice)")
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "https://twitter.com/alice/status/42")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\n"))
}

func TestFormatResults_EmptyInput(t *testing.T) {
	assert.Equal(t, "", FormatResults(nil, 3))
	assert.Equal(t, "", FormatResults([]twitter.Status{}, 3))
}

func TestFormatResults_FewerThanMax(t *testing.T) {
	out := FormatResults([]twitter.Status{
		status("alice", "one", "1"),
		status("bob", "two", "2"),
	}, 3)

	assert.Equal(t, 2, strings.Count(out, "*Tweet* from"))
}
