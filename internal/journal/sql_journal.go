package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver, registered as "sqlite"

	"github.com/kyleseneker/matomo-contract/internal/logging"
)

var schemas = map[string][]string{
	"postgres": {
		`CREATE TABLE IF NOT EXISTS tracker_calls (
			seq BIGSERIAL PRIMARY KEY,
			id UUID NOT NULL UNIQUE,
			method VARCHAR(100) NOT NULL,
			args TEXT NOT NULL,
			result TEXT,
			recorded_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tracker_calls_method_seq ON tracker_calls (method, seq DESC)`,
	},
	"sqlite": {
		`CREATE TABLE IF NOT EXISTS tracker_calls (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			method TEXT NOT NULL,
			args TEXT NOT NULL,
			result TEXT,
			recorded_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tracker_calls_method_seq ON tracker_calls (method, seq DESC)`,
	},
}

// SQLJournal persists calls to a SQL database.
type SQLJournal struct {
	db     *sql.DB
	driver string
	logger logging.Logger
}

// NewSQLJournal opens dsn with driver ("postgres" or "sqlite") and creates
// the calls table if needed.
func NewSQLJournal(driver, dsn string) (*SQLJournal, error) {
	logger := logging.Get().Named("sql_journal")

	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQL database: %w", err)
	}
	if driver == "sqlite" {
		// Every pooled connection to ":memory:" would otherwise see its own database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQL database: %w", err)
	}

	j := &SQLJournal{db: db, driver: driver, logger: logger}

	for _, stmt := range schema {
		if _, err := j.db.Exec(stmt); err != nil {
			j.db.Close()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}
	}

	j.logger.Debug("SQL journal initialized.", "driver", driver)
	return j, nil
}

// rebind turns '?' placeholders into '$n' for postgres.
func (j *SQLJournal) rebind(query string) string {
	if j.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (j *SQLJournal) Append(call Call) error {
	args, err := json.Marshal(call.Args)
	if err != nil {
		return fmt.Errorf("failed to marshal call arguments: %w", err)
	}
	var result sql.NullString
	if call.Result != nil {
		data, err := json.Marshal(call.Result)
		if err != nil {
			return fmt.Errorf("failed to marshal call result: %w", err)
		}
		result = sql.NullString{String: string(data), Valid: true}
	}

	query := j.rebind(`INSERT INTO tracker_calls (id, method, args, result, recorded_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := j.db.Exec(query, call.ID.String(), call.Method, string(args), result, call.Timestamp.UnixNano()); err != nil {
		return fmt.Errorf("failed to insert call into database: %w", err)
	}
	j.logger.Debug("Recorded call", "method", call.Method, "id", call.ID)
	return nil
}

func (j *SQLJournal) Calls() ([]Call, error) {
	rows, err := j.db.Query(`SELECT id, method, args, result, recorded_at FROM tracker_calls ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query calls: %w", err)
	}
	defer rows.Close()

	calls := []Call{}
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calls: %w", err)
	}
	return calls, nil
}

func (j *SQLJournal) LastCall(method string) (Call, bool) {
	query := j.rebind(`SELECT id, method, args, result, recorded_at FROM tracker_calls WHERE method = ? ORDER BY seq DESC LIMIT 1`)
	call, err := scanCall(j.db.QueryRow(query, method))
	if err != nil {
		if err != sql.ErrNoRows {
			j.logger.Warn("Error querying last call", "method", method, "error", err)
		}
		return Call{}, false
	}
	return call, true
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCall(s scanner) (Call, error) {
	var (
		id, method, args string
		result           sql.NullString
		recordedAt       int64
	)
	if err := s.Scan(&id, &method, &args, &result, &recordedAt); err != nil {
		if err == sql.ErrNoRows {
			return Call{}, err
		}
		return Call{}, fmt.Errorf("failed to scan call: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Call{}, fmt.Errorf("invalid call id %q: %w", id, err)
	}
	call := Call{
		ID:        parsed,
		Method:    method,
		Timestamp: time.Unix(0, recordedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(args), &call.Args); err != nil {
		return Call{}, fmt.Errorf("failed to unmarshal arguments of call %s: %w", id, err)
	}
	if result.Valid {
		if err := json.Unmarshal([]byte(result.String), &call.Result); err != nil {
			return Call{}, fmt.Errorf("failed to unmarshal result of call %s: %w", id, err)
		}
	}
	return call, nil
}

// Close closes the database connection.
func (j *SQLJournal) Close() error {
	if j.db != nil {
		j.logger.Debug("Closing SQL journal database connection...")
		return j.db.Close()
	}
	return nil
}
