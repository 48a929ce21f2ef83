package recdb

import "strings"

// validateToken rejects a key or value containing ':' or '\n', either of
// which would corrupt the "<key>:<datoff>:<datlen>\n" record framing or
// the data record's newline terminator. spec.md §7 calls embedded
// separators caller error with "undefined behavior tolerated"; this
// implementation rejects them outright instead (see DESIGN.md).
func validateToken(s string) error {
	if strings.ContainsAny(s, ":\n") {
		return ErrInvalidKey
	}
	return nil
}

func isAllSpaces(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			return false
		}
	}
	return true
}
