package draft

import "strings"

// Sentinel markers wrapping reasoning segments some models interleave with
// their answer
const (
	reasoningOpen  = "<think>"
	reasoningClose = "</think>"
)

// StripReasoning removes reasoning segments from a model response. Markers
// are treated as flat, non-overlapping pairs scanned left to right;
// whitespace trailing a removed segment goes with it. An unmatched open
// marker and everything around it is left in place. The result is trimmed.
// Applying the function twice yields the same result as applying it once.
func StripReasoning(s string) string {
	var b strings.Builder
	for {
		open := strings.Index(s, reasoningOpen)
		if open < 0 {
			break
		}
		rest := s[open+len(reasoningOpen):]
		closing := strings.Index(rest, reasoningClose)
		if closing < 0 {
			break
		}
		b.WriteString(s[:open])
		s = strings.TrimLeft(rest[closing+len(reasoningClose):], " \t\r\n")
	}
	b.WriteString(s)

	return strings.TrimSpace(b.String())
}
