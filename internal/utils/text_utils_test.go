package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCleanTextCollapsesWhitespace(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	got := tp.CleanText("  hello\n\n  world\t again ", 0)
	assert.Equal(t, "hello world again", got)
}

func TestCleanTextTruncates(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	got := tp.CleanText("abcdefghij", 4)
	assert.Equal(t, "abcd", got)

	// No cap when maxChars is zero or negative
	assert.Equal(t, "abcdefghij", tp.CleanText("abcdefghij", 0))
	assert.Equal(t, "abcdefghij", tp.CleanText("abcdefghij", -1))
}

func TestCleanTextEmptyInput(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "", tp.CleanText("", 100))
	assert.Equal(t, "", tp.CleanText("   \n\t  ", 100))
}

func TestDedupeURLsKeepsFirstOccurrenceOrder(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	got := tp.DedupeURLs([]string{
		"https://a.example/x",
		"  https://b.example/y  ",
		"https://a.example/x",
		"",
		"   ",
		"https://b.example/y",
	})

	assert.Equal(t, []string{"https://a.example/x", "https://b.example/y"}, got)
}

func TestDedupeURLsIdempotent(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	once := tp.DedupeURLs([]string{"https://a.example", "https://a.example", "https://b.example"})
	twice := tp.DedupeURLs(once)
	assert.Equal(t, once, twice)
}

func TestSanitizeUTF8DropsInvalidBytes(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	input := string([]byte{0xff, 0xfe}) + "abc"
	assert.Equal(t, "abc", tp.SanitizeUTF8(input))

	// Valid strings pass through untouched
	assert.Equal(t, "héllo", tp.SanitizeUTF8("héllo"))
}
