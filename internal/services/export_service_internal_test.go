package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPDFCellTruncatesOnRunes(t *testing.T) {
	short := "Acme Traders"
	assert.Equal(t, short, pdfCell(short))

	long := strings.Repeat("x", 30)
	assert.Equal(t, strings.Repeat("x", 21)+"...", pdfCell(long))

	// Devanagari name: 21 runes survive intact, never a split byte sequence.
	hindi := "श्री गणेश ट्रेडिंग कंपनी प्राइवेट लिमिटेड"
	got := pdfCell(hindi)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, string([]rune(hindi)[:21])+"...", got)
}

func TestPDFCellCollapsesNewlines(t *testing.T) {
	assert.Equal(t, "Steel (5 Kg); Nuts", pdfCell("Steel (5 Kg)\nNuts"))
}
