
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package lineend

import (
	"testing"
)

func TestUnknownToUnix(t *testing.T) {
	testData := map[string]string{
		"line1\r\nline2\r\n": "line1\nline2\n",
		"line1\rline2\r":     "line1\nline2\n",
		"line1\nline2\n":     "line1\nline2\n",
		"a\r\nb\rc\nd":       "a\nb\nc\nd",
		"no newline":         "no newline",
		"":                   "",
	}

	for in, exp := range testData {
		res := UnknownToUnix(in)
		if res != exp {
			t.Error("expected", []byte(exp), "but got", []byte(res), "(input:", []byte(in), ")")
		}
	}
}

func TestGetLineEnd(t *testing.T) {
	testData := map[string]string{
		"a\r\nb": "CRLF",
		"a\rb":   "CR",
		"a\nb":   "LF",
		"abc":    "LF",
	}

	for in, exp := range testData {
		res := GetLineEnd(in)
		if res != exp {
			t.Error("expected", exp, "but got", res, "(input:", in, ")")
		}
	}
}
