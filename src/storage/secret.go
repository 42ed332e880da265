
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
)

// Secret paste identifiers: 20 chars from a 62 char alphabet. Long
// enough that collisions are astronomically unlikely, but assignment
// still re-draws until the value is unused.
const (
	secretIDLength  = 20
	secretIDCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func genSecretID() (string, error) {
	b := make([]byte, secretIDLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = secretIDCharset[int(b[i])%len(secretIDCharset)]
	}
	return string(b), nil
}

// newSecretID draws secret ids until one not used by any paste is
// found. Runs inside the caller's transaction so two concurrent
// private creations cannot end up with the same id.
func (db DB) newSecretID(ctx context.Context, tx *sql.Tx) (string, error) {
	for {
		id, err := genSecretID()
		if err != nil {
			return "", err
		}

		var count int
		err = tx.QueryRowContext(ctx,
			db.rebind(`SELECT COUNT(*) FROM pastes WHERE secret_id = ?`),
			id,
		).Scan(&count)
		if err != nil {
			return "", err
		}

		if count == 0 {
			return id, nil
		}
	}
}
