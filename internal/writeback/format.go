package writeback

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
)

// FormatBuffer reformats a JSON buffer as two-space indented JSON.
// Returns the original buffer unchanged if it does not parse.
func FormatBuffer(content []byte) []byte {
	v, err := jsonvalue.Parse(string(content))
	if err != nil {
		return content // not JSON, return original
	}
	return []byte(jsonvalue.MarshalIndent(v))
}

// Diff renders a unified diff between two document texts. Identical inputs
// give an empty string.
func Diff(before, after, fromName, toName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}
