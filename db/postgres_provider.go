package db

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresProvider stores the treasury key space in a single key/value table
type PostgresProvider struct {
	db    *sql.DB
	table string
}

// NewPostgresProvider connects to databaseURL, retrying a few times while the
// server comes up, and creates the key/value table when missing.
func NewPostgresProvider(databaseURL, table string) (*PostgresProvider, error) {
	if table == "" {
		table = "treasury_kv"
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %s", table)
	}

	const maxRetries = 5
	const retryDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			logx.Warn("POSTGRES", "retrying database connection, attempt ", attempt+1, ": ", lastErr)
			time.Sleep(retryDelay)
		}

		conn, err := sql.Open("postgres", databaseURL)
		if err != nil {
			lastErr = err
			continue
		}
		if err := conn.Ping(); err != nil {
			_ = conn.Close()
			lastErr = err
			continue
		}

		p := &PostgresProvider{db: conn, table: table}
		if err := p.createTable(); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return p, nil
	}

	return nil, errors.Wrapf(lastErr, "failed to connect to postgres after %d attempts", maxRetries)
}

func (p *PostgresProvider) createTable() error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key   BYTEA PRIMARY KEY,
		value BYTEA NOT NULL
	)`, p.table)
	_, err := p.db.Exec(query)
	return errors.Wrap(err, "failed to create key/value table")
}

func (p *PostgresProvider) Get(key []byte) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow(fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, p.table), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "postgres get")
	}
	return value, nil
}

func (p *PostgresProvider) GetBatch(keys [][]byte) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		value, err := p.Get(key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			result[string(key)] = value
		}
	}
	return result, nil
}

func (p *PostgresProvider) upsertQuery() string {
	return fmt.Sprintf(`INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, p.table)
}

func (p *PostgresProvider) deleteQuery() string {
	return fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, p.table)
}

func (p *PostgresProvider) Put(key, value []byte) error {
	_, err := p.db.Exec(p.upsertQuery(), key, value)
	return errors.Wrap(err, "postgres put")
}

func (p *PostgresProvider) Delete(key []byte) error {
	_, err := p.db.Exec(p.deleteQuery(), key)
	return errors.Wrap(err, "postgres delete")
}

func (p *PostgresProvider) Has(key []byte) (bool, error) {
	value, err := p.Get(key)
	return value != nil, err
}

func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

func (p *PostgresProvider) Batch() DatabaseBatch {
	return &PostgresBatch{provider: p}
}

func (p *PostgresProvider) IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error {
	query := fmt.Sprintf(`SELECT key, value FROM %s
		WHERE substring(key from 1 for $2) = $1
		ORDER BY key`, p.table)
	rows, err := p.db.Query(query, prefix, len(prefix))
	if err != nil {
		return errors.Wrap(err, "postgres prefix scan")
	}
	defer rows.Close()

	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return errors.Wrap(err, "postgres scan row")
		}
		if !callback(key, value) {
			break
		}
	}
	return rows.Err()
}

type pgOp struct {
	key    []byte
	value  []byte
	delete bool
}

// PostgresBatch applies its operations inside one SQL transaction
type PostgresBatch struct {
	provider *PostgresProvider
	ops      []pgOp
}

func (b *PostgresBatch) Put(key, value []byte) {
	b.ops = append(b.ops, pgOp{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
}

func (b *PostgresBatch) Delete(key []byte) {
	b.ops = append(b.ops, pgOp{key: append([]byte(nil), key...), delete: true})
}

func (b *PostgresBatch) Write() error {
	tx, err := b.provider.db.Begin()
	if err != nil {
		return errors.Wrap(err, "postgres begin")
	}

	upsert, del := b.provider.upsertQuery(), b.provider.deleteQuery()
	for _, op := range b.ops {
		if op.delete {
			_, err = tx.Exec(del, op.key)
		} else {
			_, err = tx.Exec(upsert, op.key, op.value)
		}
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "postgres batch write")
		}
	}
	return errors.Wrap(tx.Commit(), "postgres commit")
}

func (b *PostgresBatch) Reset() {
	b.ops = nil
}

func (b *PostgresBatch) Close() error {
	b.ops = nil
	return nil
}
