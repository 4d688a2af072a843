package recommendation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReplyAllFields(t *testing.T) {
	reply := `Book Title: The Left Hand of Darkness
Author: Ursula K. Le Guin
Genre: Science Fiction
Summary: An envoy visits a planet whose people have no fixed sex. Politics and glaciers follow.
Why this book: You asked for thoughtful, strange worlds.`

	parsed := parseReply(reply)

	assert.Equal(t, "The Left Hand of Darkness", parsed.BookTitle)
	assert.Equal(t, "Ursula K. Le Guin", parsed.Author)
	assert.Equal(t, "Science Fiction", parsed.Genre)
	assert.Equal(t, "An envoy visits a planet whose people have no fixed sex. Politics and glaciers follow.", parsed.Summary)
	assert.Equal(t, "You asked for thoughtful, strange worlds.", parsed.WhyThisBook)
}

func TestParseReplyAnyOrderAndWhitespace(t *testing.T) {
	reply := "\n  Why this book:   it fits  \n\nGenre:Horror\n   Book Title:  It   \nAuthor: Stephen King\nSummary:  A clown. \n"

	parsed := parseReply(reply)

	assert.Equal(t, "It", parsed.BookTitle)
	assert.Equal(t, "Stephen King", parsed.Author)
	assert.Equal(t, "Horror", parsed.Genre)
	assert.Equal(t, "A clown.", parsed.Summary)
	assert.Equal(t, "it fits", parsed.WhyThisBook)
}

func TestParseReplyIgnoresUnknownLines(t *testing.T) {
	reply := "Here you go!\nBook Title: Dune\nHope you enjoy it."

	parsed := parseReply(reply)

	assert.Equal(t, "Dune", parsed.BookTitle)
	assert.Empty(t, parsed.Author)
	assert.Empty(t, parsed.Summary)
}

func TestParseReplyLongFallback(t *testing.T) {
	reply := strings.Repeat("a very freeform answer ", 10) // well past 50 chars

	parsed := parseReply(reply)

	assert.Equal(t, fallbackTitleLong, parsed.BookTitle)
	assert.Equal(t, string([]rune(reply)[:fallbackSummaryLength])+"...", parsed.Summary)
	assert.Equal(t, fallbackWhyLong, parsed.WhyThisBook)
}

func TestParseReplyShortFallback(t *testing.T) {
	reply := "I only talk about books."

	parsed := parseReply(reply)

	assert.Equal(t, fallbackTitleShort, parsed.BookTitle)
	assert.Equal(t, reply, parsed.Summary)
	assert.Equal(t, fallbackWhyShort, parsed.WhyThisBook)
}

func TestParseReplyTitleNeverEmpty(t *testing.T) {
	for _, reply := range []string{"", "hm", strings.Repeat("x", 51), "Genre: Fantasy"} {
		assert.NotEmpty(t, parseReply(reply).BookTitle, "reply %q", reply)
	}
}
