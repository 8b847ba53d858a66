package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration

	"github.com/sndercer/compressor-ai-diagnosis/models"
	"github.com/sndercer/compressor-ai-diagnosis/utils"
)

type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	// Create the directory if it doesn't exist (cross-platform)
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000" // 5 seconds
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	err = createTables(db)
	if err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

// createTables creates the required tables if they don't exist
func createTables(db *sql.DB) error {
	createCustomersTable := `
    CREATE TABLE IF NOT EXISTS customers (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        phone TEXT,
        equipment TEXT,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    `

	createDiagnosesTable := `
    CREATE TABLE IF NOT EXISTS diagnoses (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        device_id TEXT,
        customer_id INTEGER,
        kind TEXT NOT NULL,
        label TEXT,
        display_name TEXT,
        confidence REAL NOT NULL DEFAULT 0,
        provenance TEXT NOT NULL,
        urgency TEXT,
        total_score INTEGER NOT NULL DEFAULT 0,
        recommended_action TEXT,
        breakdown TEXT,
        recording_path TEXT,
        notes TEXT,
        FOREIGN KEY (customer_id) REFERENCES customers(id)
    );
    CREATE INDEX IF NOT EXISTS idx_diagnoses_timestamp ON diagnoses(timestamp);
    CREATE INDEX IF NOT EXISTS idx_diagnoses_device ON diagnoses(device_id);
    `

	_, err := db.Exec(createCustomersTable)
	if err != nil {
		return fmt.Errorf("error creating customers table: %s", err)
	}

	_, err = db.Exec(createDiagnosesTable)
	if err != nil {
		return fmt.Errorf("error creating diagnoses table: %s", err)
	}

	return nil
}

func (db *SQLiteClient) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// StoreDiagnosis stores a diagnosis record in the database
func (db *SQLiteClient) StoreDiagnosis(record *models.DiagnosisRecord) (int64, error) {
	var breakdownJSON *string
	if len(record.Breakdown) > 0 {
		s := string(record.Breakdown)
		breakdownJSON = &s
	}

	result, err := db.db.Exec(`
		INSERT INTO diagnoses (
			timestamp, device_id, customer_id, kind, label, display_name,
			confidence, provenance, urgency, total_score, recommended_action,
			breakdown, recording_path, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp,
		record.DeviceID,
		record.CustomerID,
		record.Kind,
		record.Label,
		record.DisplayName,
		record.Confidence,
		record.Provenance,
		record.UrgencyName,
		record.TotalScore,
		record.RecommendedAction,
		breakdownJSON,
		record.RecordingPath,
		record.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("error storing diagnosis: %s", err)
	}
	return result.LastInsertId()
}

func scanDiagnosisRows(rows *sql.Rows) ([]models.DiagnosisRecord, error) {
	var records []models.DiagnosisRecord
	for rows.Next() {
		var r models.DiagnosisRecord
		var label, displayName, urgency, action, recordingPath, notes, deviceID sql.NullString
		var breakdownJSON sql.NullString

		err := rows.Scan(
			&r.ID,
			&r.Timestamp,
			&deviceID,
			&r.CustomerID,
			&r.Kind,
			&label,
			&displayName,
			&r.Confidence,
			&r.Provenance,
			&urgency,
			&r.TotalScore,
			&action,
			&breakdownJSON,
			&recordingPath,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning diagnosis: %s", err)
		}

		r.DeviceID = deviceID.String
		r.Label = label.String
		r.DisplayName = displayName.String
		r.UrgencyName = urgency.String
		r.RecommendedAction = action.String
		r.RecordingPath = recordingPath.String
		r.Notes = notes.String
		if breakdownJSON.Valid {
			r.Breakdown = json.RawMessage(breakdownJSON.String)
		}

		records = append(records, r)
	}
	return records, rows.Err()
}

const diagnosisColumns = `id, timestamp, device_id, customer_id, kind, label, display_name,
	       confidence, provenance, urgency, total_score, recommended_action,
	       breakdown, recording_path, notes`

// GetDiagnoses retrieves the most recent diagnoses, newest first.
func (db *SQLiteClient) GetDiagnoses(limit int) ([]models.DiagnosisRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.db.Query(`
		SELECT `+diagnosisColumns+`
		FROM diagnoses
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying diagnoses: %s", err)
	}
	defer rows.Close()

	return scanDiagnosisRows(rows)
}

// GetDiagnosesByDevice retrieves diagnoses for one device, newest first.
func (db *SQLiteClient) GetDiagnosesByDevice(deviceID string, limit int) ([]models.DiagnosisRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.db.Query(`
		SELECT `+diagnosisColumns+`
		FROM diagnoses
		WHERE device_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying diagnoses by device: %s", err)
	}
	defer rows.Close()

	return scanDiagnosisRows(rows)
}

// TotalDiagnoses counts stored diagnosis records.
func (db *SQLiteClient) TotalDiagnoses() (int, error) {
	var count int
	err := db.db.QueryRow("SELECT COUNT(*) FROM diagnoses").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting diagnoses: %s", err)
	}
	return count, nil
}

// RegisterCustomer inserts a customer and returns the assigned id.
func (db *SQLiteClient) RegisterCustomer(name, phone, equipment string) (int64, error) {
	result, err := db.db.Exec(
		"INSERT INTO customers (name, phone, equipment) VALUES (?, ?, ?)",
		name, phone, equipment,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to register customer: %v", err)
	}
	return result.LastInsertId()
}

// GetCustomer retrieves a customer by id.
func (db *SQLiteClient) GetCustomer(id int64) (models.Customer, bool, error) {
	row := db.db.QueryRow(
		"SELECT id, name, phone, equipment, created_at FROM customers WHERE id = ?", id)

	var c models.Customer
	var phone, equipment sql.NullString
	err := row.Scan(&c.ID, &c.Name, &phone, &equipment, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Customer{}, false, nil
		}
		return models.Customer{}, false, fmt.Errorf("failed to retrieve customer: %s", err)
	}
	c.Phone = phone.String
	c.Equipment = equipment.String

	return c, true, nil
}

// ListCustomers retrieves all customers ordered by creation time.
func (db *SQLiteClient) ListCustomers() ([]models.Customer, error) {
	rows, err := db.db.Query(
		"SELECT id, name, phone, equipment, created_at FROM customers ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("error querying customers: %s", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		var phone, equipment sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &phone, &equipment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning customer: %s", err)
		}
		c.Phone = phone.String
		c.Equipment = equipment.String
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// DeleteCustomer deletes a customer by id.
func (db *SQLiteClient) DeleteCustomer(id int64) error {
	_, err := db.db.Exec("DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %v", err)
	}
	return nil
}
