package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dealflow-crm/dealflow/internal/classify"
)

// Record is one stored classification result.
type Record struct {
	ID           int64
	EmailID      string
	Subject      string
	FromName     string
	FromAddress  string
	FirmID       string
	FirmName     string
	Category     string
	Confidence   float64
	CompanyName  string
	DealValue    sql.NullFloat64
	DealStage    string
	InvestorName string
	Sentiment    string
	Priority     string
	ReceivedAt   time.Time
	CreatedAt    time.Time
}

// NewRecord builds a Record from a categorized email. Firm fields are left
// empty; callers annotate them when a known firm matched.
func NewRecord(email classify.CategorizedEmail) *Record {
	r := &Record{
		EmailID:      email.ID,
		Subject:      email.Subject,
		FromName:     email.From.Name,
		FromAddress:  email.From.Address,
		Category:     string(email.Category),
		Confidence:   email.Confidence,
		CompanyName:  email.Extracted.CompanyName,
		DealStage:    string(email.Extracted.DealStage),
		InvestorName: email.Extracted.InvestorName,
		Sentiment:    string(email.Extracted.Sentiment),
		Priority:     string(email.Extracted.Priority),
		ReceivedAt:   email.ReceivedAt,
	}
	if email.Extracted.DealValue != nil {
		r.DealValue = sql.NullFloat64{Float64: *email.Extracted.DealValue, Valid: true}
	}
	return r
}

type Store struct {
	db *sql.DB
}

// scanRecord handles nullable columns when scanning a row
func scanRecord(scanner interface{ Scan(...any) error }) (*Record, error) {
	var r Record
	var receivedAt, createdAt sql.NullTime
	var firmID, firmName, company, stage, investor sql.NullString

	err := scanner.Scan(&r.ID, &r.EmailID, &r.Subject, &r.FromName, &r.FromAddress,
		&firmID, &firmName, &r.Category, &r.Confidence,
		&company, &r.DealValue, &stage, &investor,
		&r.Sentiment, &r.Priority, &receivedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	r.FirmID = firmID.String
	r.FirmName = firmName.String
	r.CompanyName = company.String
	r.DealStage = stage.String
	r.InvestorName = investor.String
	r.ReceivedAt = receivedAt.Time
	r.CreatedAt = createdAt.Time
	return &r, nil
}

const recordColumns = `id, email_id, subject, from_name, from_address,
	firm_id, firm_name, category, confidence,
	company_name, deal_value, deal_stage, investor_name,
	sentiment, priority, received_at, created_at`

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	// Columns added after the initial schema; errors on already-migrated
	// databases are expected and ignored
	s.db.Exec(`ALTER TABLE classified_emails ADD COLUMN firm_id TEXT`)
	s.db.Exec(`ALTER TABLE classified_emails ADD COLUMN firm_name TEXT`)

	query := `
	CREATE TABLE IF NOT EXISTS classified_emails (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		from_name TEXT,
		from_address TEXT NOT NULL,
		firm_id TEXT,
		firm_name TEXT,
		category TEXT NOT NULL,
		confidence REAL NOT NULL,
		company_name TEXT,
		deal_value REAL,
		deal_stage TEXT,
		investor_name TEXT,
		sentiment TEXT NOT NULL,
		priority TEXT NOT NULL,
		received_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_email_id ON classified_emails(email_id);
	CREATE INDEX IF NOT EXISTS idx_category ON classified_emails(category);
	CREATE INDEX IF NOT EXISTS idx_priority ON classified_emails(priority);
	CREATE INDEX IF NOT EXISTS idx_received_at ON classified_emails(received_at);
	`

	_, err := s.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// Add inserts a record. Re-syncing the same message is a no-op thanks to the
// unique index on email_id; Add reports whether the record was new.
func (s *Store) Add(record *Record) (bool, error) {
	query := `
	INSERT OR IGNORE INTO classified_emails
		(email_id, subject, from_name, from_address, firm_id, firm_name,
		 category, confidence, company_name, deal_value, deal_stage,
		 investor_name, sentiment, priority, received_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		record.EmailID,
		record.Subject,
		record.FromName,
		record.FromAddress,
		record.FirmID,
		record.FirmName,
		record.Category,
		record.Confidence,
		record.CompanyName,
		record.DealValue,
		record.DealStage,
		record.InvestorName,
		record.Sentiment,
		record.Priority,
		record.ReceivedAt,
		time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	return true, nil
}

func (s *Store) GetByEmailID(emailID string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM classified_emails WHERE email_id = ?`

	record, err := scanRecord(s.db.QueryRow(query, emailID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return record, nil
}

func (s *Store) GetRecent(limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + `
	FROM classified_emails ORDER BY received_at DESC LIMIT ?`

	return s.queryRecords(query, limit)
}

func (s *Store) GetByCategory(category string, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + `
	FROM classified_emails WHERE category = ? ORDER BY received_at DESC LIMIT ?`

	return s.queryRecords(query, category, limit)
}

// GetDeals returns deal records above the confidence floor, newest first.
func (s *Store) GetDeals(minConfidence float64, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + `
	FROM classified_emails WHERE category = 'deal' AND confidence > ?
	ORDER BY received_at DESC LIMIT ?`

	return s.queryRecords(query, minConfidence, limit)
}

func (s *Store) queryRecords(query string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Stats aggregates the stored classifications. ConfidenceBuckets counts
// records in [0,0.2), [0.2,0.4), [0.4,0.6), [0.6,0.8), [0.8,1.0].
type Stats struct {
	Total             int
	ByCategory        map[string]int
	HighPriority      int
	AvgConfidence     float64
	TotalValue        float64
	ConfidenceBuckets [5]int
}

func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{ByCategory: make(map[string]int)}

	query := `SELECT COUNT(*),
		SUM(CASE WHEN priority='high' THEN 1 ELSE 0 END),
		COALESCE(AVG(confidence), 0),
		COALESCE(SUM(deal_value), 0)
	FROM classified_emails`

	var high sql.NullInt64
	err := s.db.QueryRow(query).Scan(&stats.Total, &high, &stats.AvgConfidence, &stats.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	stats.HighPriority = int(high.Int64)

	rows, err := s.db.Query(`SELECT category, COUNT(*) FROM classified_emails GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to get category stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category stats: %w", err)
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	buckets, err := s.db.Query(`SELECT MIN(CAST(confidence * 5 AS INTEGER), 4), COUNT(*)
	FROM classified_emails GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to get confidence buckets: %w", err)
	}
	defer buckets.Close()

	for buckets.Next() {
		var bucket, count int
		if err := buckets.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("failed to scan confidence buckets: %w", err)
		}
		if bucket >= 0 && bucket < len(stats.ConfidenceBuckets) {
			stats.ConfidenceBuckets[bucket] = count
		}
	}
	return stats, buckets.Err()
}

func (s *Store) Close() error { return s.db.Close() }

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dealflow.db"
	}
	return filepath.Join(home, ".dealflow", "history.db")
}
