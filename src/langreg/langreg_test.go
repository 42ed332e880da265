
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package langreg

import (
	"testing"
)

func TestRegistryBasics(t *testing.T) {
	reg := New()

	if len(reg.Names()) == 0 {
		t.Fatal("registry is empty")
	}

	if !reg.Valid("go") {
		t.Error("expected go to be a valid language")
	}

	if !reg.Valid(PlainText) {
		t.Error("expected plaintext to be a valid language")
	}

	if reg.Valid("no-such-language") {
		t.Error("unexpected language resolved")
	}
}

func TestNormalize(t *testing.T) {
	reg := New()

	testData := map[string]string{
		"Go":               "go",
		"python":           "python",
		"no-such-language": PlainText,
	}

	for in, exp := range testData {
		res := reg.Normalize(in)
		if res != exp {
			t.Error("expected", exp, "but got", res, "(input:", in, ")")
		}
	}
}

func TestInferFromFileName(t *testing.T) {
	reg := New()

	res := reg.Infer("package main\n\nfunc main() {}\n", "main.go")
	if res != "go" {
		t.Error("expected go but got", res)
	}
}

func TestInferFallback(t *testing.T) {
	reg := New()

	res := reg.Infer("just some words with no structure", "")
	if !reg.Valid(res) {
		t.Error("inferred language", res, "is not in the registry")
	}
}

func TestMimeType(t *testing.T) {
	reg := New()

	if mime := reg.MimeType("no-such-language"); mime != "application/octet-stream" {
		t.Error("expected application/octet-stream but got", mime)
	}

	if mime := reg.MimeType("go"); mime == "" {
		t.Error("expected non-empty MIME type for go")
	}
}
