package types

import "github.com/rivo/uniseg"

const (
	// PreviewMaxLen is the longest data string shown without truncation
	PreviewMaxLen = 48
	// PreviewKeepLen is how many characters survive truncation
	PreviewKeepLen = 45
	// Ellipsis marks a truncated preview
	Ellipsis = "…"
)

// Preview shortens an encoded data string for display. Strings of at most
// PreviewMaxLen characters are returned unchanged; longer ones keep their
// first PreviewKeepLen characters followed by an ellipsis. Characters are
// grapheme clusters so emoji and combining marks are never split.
func Preview(s string) string {
	if CharCount(s) <= PreviewMaxLen {
		return s
	}

	end := 0
	kept := 0
	g := uniseg.NewGraphemes(s)
	for kept < PreviewKeepLen && g.Next() {
		_, end = g.Positions()
		kept++
	}
	return s[:end] + Ellipsis
}

// CharCount returns the number of user-perceived characters in s
func CharCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
