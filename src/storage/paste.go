
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/casjay-forks/ownbin/src/lineend"
)

type Paste struct {
	// Assigned by the store when creating
	ID int64 `json:"id"`
	// Present iff the paste is private
	SecretID string `json:"secretId,omitempty"`
	Language string `json:"language"`
	FileName string `json:"fileName,omitempty"`
	Content  string `json:"content"`
	// Unix seconds, UTC. Set once when creating.
	CreateTime int64 `json:"createTime"`
}

// Private reports whether the paste is addressable only by secret id.
func (paste Paste) Private() bool {
	return paste.SecretID != ""
}

// PasteUpdateFields holds a partial update. Nil fields are untouched.
type PasteUpdateFields struct {
	FileName *string
	Language *string
	Content  *string
	Private  *bool
}

// isNumericID reports whether identifier addresses the public id
// space. Non-numeric identifiers resolve against secret ids.
func isNumericID(identifier string) bool {
	if identifier == "" {
		return false
	}
	for i := 0; i < len(identifier); i++ {
		if identifier[i] < '0' || identifier[i] > '9' {
			return false
		}
	}
	return true
}

// forUpdate returns a row lock clause for engines that support one.
// SQLite serializes writing transactions on its own.
func (db DB) forUpdate() string {
	if db.driver == "sqlite" {
		return ""
	}
	return " FOR UPDATE"
}

// PasteAdd stores a new paste. Content line endings are normalized to
// LF. A private paste gets a fresh unique secret id; assignment and
// insert run in one transaction.
func (db DB) PasteAdd(paste Paste, private bool) (Paste, error) {
	paste.Content = lineend.UnknownToUnix(paste.Content)
	paste.CreateTime = time.Now().UTC().Unix()

	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	tx, err := db.pool.BeginTx(ctx, nil)
	if err != nil {
		return paste, err
	}
	defer tx.Rollback()

	if private {
		paste.SecretID, err = db.newSecretID(ctx, tx)
		if err != nil {
			return paste, err
		}
	}

	query := `INSERT INTO pastes (secret_id, language, file_name, content, create_time)
		VALUES (?, ?, ?, ?, ?)`
	args := []interface{}{
		nullable(paste.SecretID), paste.Language, paste.FileName, paste.Content, paste.CreateTime,
	}

	if db.driver == "pgx" {
		err = tx.QueryRowContext(ctx, db.rebind(query+` RETURNING id`), args...).Scan(&paste.ID)
		if err != nil {
			return paste, err
		}
	} else {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return paste, err
		}
		paste.ID, err = result.LastInsertId()
		if err != nil {
			return paste, err
		}
	}

	return paste, tx.Commit()
}

func scanPaste(row *sql.Row) (Paste, error) {
	var paste Paste
	var secretID sql.NullString

	err := row.Scan(&paste.ID, &secretID, &paste.Language, &paste.FileName,
		&paste.Content, &paste.CreateTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return paste, ErrNotFound
		}
		return paste, err
	}

	paste.SecretID = secretID.String
	return paste, nil
}

// PasteGet resolves identifier against the public id space when it is
// numeric, otherwise against the secret id space. Visibility of
// private pastes fetched by numeric id is enforced at the call site,
// not here.
func (db DB) PasteGet(identifier string) (Paste, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	const fields = `id, secret_id, language, file_name, content, create_time`

	var row *sql.Row
	if isNumericID(identifier) {
		row = db.pool.QueryRowContext(ctx,
			db.rebind(`SELECT `+fields+` FROM pastes WHERE id = ?`), identifier)
	} else {
		row = db.pool.QueryRowContext(ctx,
			db.rebind(`SELECT `+fields+` FROM pastes WHERE secret_id = ?`), identifier)
	}

	return scanPaste(row)
}

// PasteUpdate applies a partial update. Toggling privacy off clears
// the secret id; toggling it on assigns a fresh unique one only when
// none is present. Content updates are re-normalized.
func (db DB) PasteUpdate(identifier string, fields PasteUpdateFields) (Paste, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	tx, err := db.pool.BeginTx(ctx, nil)
	if err != nil {
		return Paste{}, err
	}
	defer tx.Rollback()

	const query = `SELECT id, secret_id, language, file_name, content, create_time
		FROM pastes WHERE `

	var row *sql.Row
	if isNumericID(identifier) {
		row = tx.QueryRowContext(ctx, db.rebind(query+`id = ?`+db.forUpdate()), identifier)
	} else {
		row = tx.QueryRowContext(ctx, db.rebind(query+`secret_id = ?`+db.forUpdate()), identifier)
	}

	paste, err := scanPaste(row)
	if err != nil {
		return paste, err
	}

	if fields.FileName != nil {
		paste.FileName = *fields.FileName
	}
	if fields.Language != nil {
		paste.Language = *fields.Language
	}
	if fields.Content != nil {
		paste.Content = lineend.UnknownToUnix(*fields.Content)
	}
	if fields.Private != nil {
		if !*fields.Private {
			paste.SecretID = ""
		} else if paste.SecretID == "" {
			paste.SecretID, err = db.newSecretID(ctx, tx)
			if err != nil {
				return paste, err
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		db.rebind(`UPDATE pastes SET secret_id = ?, language = ?, file_name = ?, content = ?
			WHERE id = ?`),
		nullable(paste.SecretID), paste.Language, paste.FileName, paste.Content, paste.ID,
	)
	if err != nil {
		return paste, err
	}

	return paste, tx.Commit()
}

func (db DB) PasteDelete(identifier string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	var result sql.Result
	var err error
	if isNumericID(identifier) {
		result, err = db.pool.ExecContext(ctx,
			db.rebind(`DELETE FROM pastes WHERE id = ?`), identifier)
	} else {
		result, err = db.pool.ExecContext(ctx,
			db.rebind(`DELETE FROM pastes WHERE secret_id = ?`), identifier)
	}
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type PasteListItem struct {
	ID             int64  `json:"id"`
	SecretID       string `json:"secretId,omitempty"`
	Language       string `json:"language"`
	FileName       string `json:"fileName,omitempty"`
	ContentPreview string `json:"contentPreview"`
	CreateTime     int64  `json:"createTime"`
}

// contentPreview returns the first lines of content for listings.
func contentPreview(content string) string {
	const previewLines = 5

	lines := strings.Split(content, "\n")
	if len(lines) > previewLines {
		lines = lines[:previewLines]
	}
	return strings.Join(lines, "\n")
}

// PasteList returns pastes newest first. When includePrivate is false,
// only pastes without a secret id are listed.
func (db DB) PasteList(includePrivate bool, limit int, offset int) ([]PasteListItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultListTimeout)
	defer cancel()

	query := `SELECT id, secret_id, language, file_name, content, create_time FROM pastes`
	if !includePrivate {
		query += ` WHERE secret_id IS NULL`
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := db.pool.QueryContext(ctx, db.rebind(query), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pastes []PasteListItem
	for rows.Next() {
		var item PasteListItem
		var secretID sql.NullString
		var content string

		err := rows.Scan(&item.ID, &secretID, &item.Language, &item.FileName,
			&content, &item.CreateTime)
		if err != nil {
			return nil, err
		}

		item.SecretID = secretID.String
		item.ContentPreview = contentPreview(content)
		pastes = append(pastes, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return pastes, nil
}

func (db DB) PasteCount(includePrivate bool) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	query := `SELECT COUNT(*) FROM pastes`
	if !includePrivate {
		query += ` WHERE secret_id IS NULL`
	}

	var count int
	err := db.pool.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}
