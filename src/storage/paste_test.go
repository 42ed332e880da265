
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package storage

import (
	"path/filepath"
	"strings"
	"testing"
)

func testDB(t *testing.T) DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	if err := InitDB("sqlite", path); err != nil {
		t.Fatal(err)
	}

	db, err := NewPool("sqlite", path, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func isAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func TestPasteAddPublic(t *testing.T) {
	db := testDB(t)

	paste, err := db.PasteAdd(Paste{Language: "go", Content: "package main\n"}, false)
	if err != nil {
		t.Fatal(err)
	}

	if paste.SecretID != "" {
		t.Error("public paste got secret id", paste.SecretID)
	}
	if paste.ID == 0 {
		t.Error("paste id was not assigned")
	}
	if paste.CreateTime == 0 {
		t.Error("create time was not set")
	}
}

func TestPasteAddPrivate(t *testing.T) {
	db := testDB(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		paste, err := db.PasteAdd(Paste{Language: "plaintext", Content: "hi"}, true)
		if err != nil {
			t.Fatal(err)
		}

		if len(paste.SecretID) != 20 {
			t.Fatal("expected 20 char secret id but got", paste.SecretID)
		}
		if !isAlphanumeric(paste.SecretID) {
			t.Fatal("secret id is not alphanumeric:", paste.SecretID)
		}
		if seen[paste.SecretID] {
			t.Fatal("duplicate secret id:", paste.SecretID)
		}
		seen[paste.SecretID] = true
	}
}

func TestPasteGet(t *testing.T) {
	db := testDB(t)

	created, err := db.PasteAdd(Paste{Language: "plaintext", Content: "body"}, true)
	if err != nil {
		t.Fatal(err)
	}

	// Numeric lookup resolves the public id space even for private
	// pastes; visibility is the caller's concern.
	byID, err := db.PasteGet("1")
	if err != nil {
		t.Fatal(err)
	}
	if byID.ID != created.ID {
		t.Error("expected id", created.ID, "but got", byID.ID)
	}

	bySecret, err := db.PasteGet(created.SecretID)
	if err != nil {
		t.Fatal(err)
	}
	if bySecret.ID != created.ID {
		t.Error("expected id", created.ID, "but got", bySecret.ID)
	}

	if _, err := db.PasteGet("999"); err != ErrNotFound {
		t.Error("expected ErrNotFound but got", err)
	}
	if _, err := db.PasteGet("NoSuchSecretIdAnywhere"); err != ErrNotFound {
		t.Error("expected ErrNotFound but got", err)
	}
}

func TestPasteContentNormalized(t *testing.T) {
	db := testDB(t)

	paste, err := db.PasteAdd(Paste{
		Language: "plaintext",
		Content:  "line1\r\nline2\rline3\nline4",
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	got, err := db.PasteGet("1")
	if err != nil {
		t.Fatal(err)
	}

	if got.Content != "line1\nline2\nline3\nline4" {
		t.Error("content was not normalized:", []byte(got.Content))
	}
	if strings.Contains(got.Content, "\r") {
		t.Error("content still contains CR")
	}
	_ = paste
}

func TestPrivacyToggle(t *testing.T) {
	db := testDB(t)

	created, err := db.PasteAdd(Paste{Language: "plaintext", Content: "x"}, true)
	if err != nil {
		t.Fatal(err)
	}
	original := created.SecretID

	boolPtr := func(b bool) *bool { return &b }
	id := "1"

	// Re-enabling privacy without clearing must keep the id
	same, err := db.PasteUpdate(id, PasteUpdateFields{Private: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if same.SecretID != original {
		t.Error("secret id changed without being cleared")
	}

	// Toggling off clears the secret id
	public, err := db.PasteUpdate(id, PasteUpdateFields{Private: boolPtr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if public.SecretID != "" {
		t.Error("secret id not cleared:", public.SecretID)
	}

	// Toggling back on assigns a fresh one
	private, err := db.PasteUpdate(id, PasteUpdateFields{Private: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if private.SecretID == "" {
		t.Fatal("no secret id assigned")
	}
	if private.SecretID == original {
		t.Error("old secret id was reused")
	}
}

func TestPasteUpdateFields(t *testing.T) {
	db := testDB(t)

	_, err := db.PasteAdd(Paste{Language: "plaintext", Content: "old"}, false)
	if err != nil {
		t.Fatal(err)
	}

	content := "new\r\ncontent"
	language := "go"
	fileName := "main.go"

	updated, err := db.PasteUpdate("1", PasteUpdateFields{
		Content:  &content,
		Language: &language,
		FileName: &fileName,
	})
	if err != nil {
		t.Fatal(err)
	}

	if updated.Content != "new\ncontent" {
		t.Error("content not updated/normalized:", updated.Content)
	}
	if updated.Language != "go" {
		t.Error("language not updated:", updated.Language)
	}
	if updated.FileName != "main.go" {
		t.Error("file name not updated:", updated.FileName)
	}

	if _, err := db.PasteUpdate("42", PasteUpdateFields{}); err != ErrNotFound {
		t.Error("expected ErrNotFound but got", err)
	}
}

func TestPasteDelete(t *testing.T) {
	db := testDB(t)

	if _, err := db.PasteAdd(Paste{Language: "plaintext", Content: "x"}, false); err != nil {
		t.Fatal(err)
	}

	if err := db.PasteDelete("1"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.PasteGet("1"); err != ErrNotFound {
		t.Error("expected ErrNotFound but got", err)
	}
	if err := db.PasteDelete("1"); err != ErrNotFound {
		t.Error("expected ErrNotFound but got", err)
	}
}

func TestPasteListVisibility(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 3; i++ {
		if _, err := db.PasteAdd(Paste{Language: "plaintext", Content: "public"}, false); err != nil {
			t.Fatal(err)
		}
		if _, err := db.PasteAdd(Paste{Language: "plaintext", Content: "private"}, true); err != nil {
			t.Fatal(err)
		}
	}

	public, err := db.PasteList(false, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(public) != 3 {
		t.Fatal("expected 3 public pastes but got", len(public))
	}
	for _, item := range public {
		if item.SecretID != "" {
			t.Error("public listing leaked a private paste:", item.ID)
		}
	}

	all, err := db.PasteList(true, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 6 {
		t.Fatal("expected 6 pastes but got", len(all))
	}

	// Newest first
	for i := 1; i < len(all); i++ {
		if all[i-1].ID < all[i].ID {
			t.Fatal("listing is not newest first")
		}
	}

	count, err := db.PasteCount(false)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Error("expected public count 3 but got", count)
	}
}
