package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Storage handles all database operations
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance, opening/creating the DB and
// initializing the schema
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// initSchema creates tables and indices if they don't exist
func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leads (
		lead_id INTEGER PRIMARY KEY AUTOINCREMENT,
		website TEXT UNIQUE NOT NULL,
		company_name TEXT,
		description TEXT,
		emails TEXT,
		phones TEXT,
		addresses TEXT,
		social_media TEXT,
		business_info TEXT,
		score_overall INTEGER DEFAULT 0,
		score_relevance INTEGER DEFAULT 0,
		score_credibility INTEGER DEFAULT 0,
		score_contact INTEGER DEFAULT 0,
		score_content INTEGER DEFAULT 0,
		score_technical INTEGER DEFAULT 0,
		search_rank INTEGER DEFAULT 0,
		crawl_error TEXT,
		crawled_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_leads_website ON leads(website);
	CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(score_overall);
	`

	_, err := s.db.Exec(schema)
	return err
}

// UpsertLead inserts a lead or replaces the stored record when the website
// was crawled before. Returns the lead_id of the inserted/existing row.
func (s *Storage) UpsertLead(lead *Lead) (int, error) {
	emails, phones, addresses, social, business, err := encodeCollections(lead)
	if err != nil {
		return 0, err
	}

	_, err = s.db.Exec(`
		INSERT INTO leads (
			website, company_name, description, emails, phones, addresses,
			social_media, business_info,
			score_overall, score_relevance, score_credibility,
			score_contact, score_content, score_technical,
			search_rank, crawl_error, crawled_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(website) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			description = EXCLUDED.description,
			emails = EXCLUDED.emails,
			phones = EXCLUDED.phones,
			addresses = EXCLUDED.addresses,
			social_media = EXCLUDED.social_media,
			business_info = EXCLUDED.business_info,
			score_overall = EXCLUDED.score_overall,
			score_relevance = EXCLUDED.score_relevance,
			score_credibility = EXCLUDED.score_credibility,
			score_contact = EXCLUDED.score_contact,
			score_content = EXCLUDED.score_content,
			score_technical = EXCLUDED.score_technical,
			search_rank = EXCLUDED.search_rank,
			crawl_error = EXCLUDED.crawl_error,
			crawled_at = EXCLUDED.crawled_at
	`, lead.Website, lead.CompanyName, lead.Description, emails, phones, addresses,
		social, business,
		lead.Overall, lead.Relevance, lead.Credibility,
		lead.Contact, lead.Content, lead.Technical,
		lead.SearchRank, lead.CrawlError, lead.CrawledAt)

	if err != nil {
		return 0, fmt.Errorf("failed to upsert lead: %w", err)
	}

	var leadID int
	err = s.db.QueryRow("SELECT lead_id FROM leads WHERE website = ?", lead.Website).Scan(&leadID)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve lead_id: %w", err)
	}

	return leadID, nil
}

// GetLead retrieves a lead by website URL, returns nil if not found
func (s *Storage) GetLead(website string) (*Lead, error) {
	row := s.db.QueryRow(selectLeadColumns+" WHERE website = ?", website)

	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return lead, nil
}

// ListTopLeads returns up to limit leads ordered by overall score
// descending. Failed crawls sort last by construction (score 0).
func (s *Storage) ListTopLeads(limit int) ([]*Lead, error) {
	rows, err := s.db.Query(selectLeadColumns+`
		ORDER BY score_overall DESC, created_at ASC
		LIMIT ?
	`, limit)

	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leads: %w", err)
	}

	return leads, nil
}

// CountLeads returns the number of stored leads
func (s *Storage) CountLeads() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM leads").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

const selectLeadColumns = `
	SELECT lead_id, website, company_name, description, emails, phones,
		addresses, social_media, business_info,
		score_overall, score_relevance, score_credibility,
		score_contact, score_content, score_technical,
		search_rank, crawl_error, crawled_at, created_at
	FROM leads`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*Lead, error) {
	var lead Lead
	var emails, phones, addresses, social, business string

	err := row.Scan(&lead.LeadID, &lead.Website, &lead.CompanyName, &lead.Description,
		&emails, &phones, &addresses, &social, &business,
		&lead.Overall, &lead.Relevance, &lead.Credibility,
		&lead.Contact, &lead.Content, &lead.Technical,
		&lead.SearchRank, &lead.CrawlError, &lead.CrawledAt, &lead.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := decodeJSON(emails, &lead.Emails); err != nil {
		return nil, err
	}
	if err := decodeJSON(phones, &lead.Phones); err != nil {
		return nil, err
	}
	if err := decodeJSON(addresses, &lead.Addresses); err != nil {
		return nil, err
	}
	if err := decodeJSON(social, &lead.SocialMedia); err != nil {
		return nil, err
	}
	if err := decodeJSON(business, &lead.BusinessInfo); err != nil {
		return nil, err
	}

	return &lead, nil
}

func encodeCollections(lead *Lead) (emails, phones, addresses, social, business string, err error) {
	if emails, err = encodeJSON(lead.Emails); err != nil {
		return
	}
	if phones, err = encodeJSON(lead.Phones); err != nil {
		return
	}
	if addresses, err = encodeJSON(lead.Addresses); err != nil {
		return
	}
	if social, err = encodeJSON(lead.SocialMedia); err != nil {
		return
	}
	business, err = encodeJSON(lead.BusinessInfo)
	return
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode lead field: %w", err)
	}
	return string(data), nil
}

func decodeJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("failed to decode lead field: %w", err)
	}
	return nil
}
