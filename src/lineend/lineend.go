
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package lineend

import (
	"strings"
)

// GetLineEnd returns "CRLF", "CR" or "LF" for the first
// line ending found in the text. Defaults to "LF".
func GetLineEnd(text string) string {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				return "CRLF"
			}
			return "CR"

		case '\n':
			return "LF"
		}
	}

	return "LF"
}

// UnknownToUnix converts any mix of line endings to LF.
func UnknownToUnix(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
