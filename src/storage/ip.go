
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package storage

import (
	"context"
	"database/sql"
	"time"
)

// ClientRecord tracks failed authentication attempts per client
// address. A record is deleted on successful authentication; a
// BlockedTime of 0 means not blocked.
type ClientRecord struct {
	IP    string
	Hits  int
	Nonce string
	// Unix seconds, UTC
	BlockedTime int64
}

// Blocked reports whether the record carries an active block mark.
func (record ClientRecord) Blocked() bool {
	return record.BlockedTime != 0
}

// IPGet returns the record for ip, creating an empty one if absent.
func (db DB) IPGet(ip string) (ClientRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	record, err := db.ipSelect(ctx, ip)
	if err == nil {
		return record, nil
	}
	if err != ErrNotFound {
		return record, err
	}

	// Lazily create. A concurrent insert for the same address loses
	// against the primary key, so re-select instead of failing.
	_, _ = db.pool.ExecContext(ctx,
		db.rebind(`INSERT INTO ips (ip, hits, nonce, blocked_time) VALUES (?, 0, '', 0)`),
		ip,
	)

	return db.ipSelect(ctx, ip)
}

func (db DB) ipSelect(ctx context.Context, ip string) (ClientRecord, error) {
	var record ClientRecord

	row := db.pool.QueryRowContext(ctx,
		db.rebind(`SELECT ip, hits, nonce, blocked_time FROM ips WHERE ip = ?`), ip)

	err := row.Scan(&record.IP, &record.Hits, &record.Nonce, &record.BlockedTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return record, ErrNotFound
		}
		return record, err
	}

	return record, nil
}

// IPSetNonce stores a freshly issued challenge token on the record.
func (db DB) IPSetNonce(ip string, nonce string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	_, err := db.pool.ExecContext(ctx,
		db.rebind(`UPDATE ips SET nonce = ? WHERE ip = ?`), nonce, ip)
	return err
}

// IPRecordFailure increments the failure count for ip and sets the
// block mark once the count reaches maxHits. Returns whether this
// failure newly crossed the threshold. Runs in one transaction so
// concurrent failures from the same address cannot lose updates.
func (db DB) IPRecordFailure(ip string, maxHits int) (newlyBlocked bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	tx, err := db.pool.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var hits int
	var blockedTime int64
	err = tx.QueryRowContext(ctx,
		db.rebind(`SELECT hits, blocked_time FROM ips WHERE ip = ?`+db.forUpdate()),
		ip,
	).Scan(&hits, &blockedTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, ErrNotFound
		}
		return false, err
	}

	hits++
	if hits >= maxHits && blockedTime == 0 {
		blockedTime = time.Now().UTC().Unix()
		newlyBlocked = true
	}

	_, err = tx.ExecContext(ctx,
		db.rebind(`UPDATE ips SET hits = ?, blocked_time = ? WHERE ip = ?`),
		hits, blockedTime, ip,
	)
	if err != nil {
		return false, err
	}

	return newlyBlocked, tx.Commit()
}

// IPRecordSuccess deletes the record: a client that just authenticated
// keeps no failure history.
func (db DB) IPRecordSuccess(ip string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	_, err := db.pool.ExecContext(ctx, db.rebind(`DELETE FROM ips WHERE ip = ?`), ip)
	return err
}

// IPClearExpired clears the block mark and resets the failure count
// when the block timeout has elapsed. Returns whether ip is still
// blocked afterwards. Always called before evaluating block status.
func (db DB) IPClearExpired(ip string, timeout time.Duration) (stillBlocked bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	tx, err := db.pool.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var blockedTime int64
	err = tx.QueryRowContext(ctx,
		db.rebind(`SELECT blocked_time FROM ips WHERE ip = ?`+db.forUpdate()),
		ip,
	).Scan(&blockedTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	if blockedTime == 0 {
		return false, tx.Commit()
	}

	if time.Now().UTC().Unix()-blockedTime <= int64(timeout.Seconds()) {
		return true, tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		db.rebind(`UPDATE ips SET hits = 0, blocked_time = 0 WHERE ip = ?`), ip)
	if err != nil {
		return false, err
	}

	return false, tx.Commit()
}
