// Package devapi is a local stand-in for the ScamShield backend. It serves
// the same REST contract the hosted platform exposes, backed by SQLite, so
// the TUI and client library can be exercised without network access to the
// real service.
package devapi

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateVote   = errors.New("already verified by this wallet")
	ErrOwnReport       = errors.New("cannot verify your own report")
	ErrReportSettled   = errors.New("report is no longer pending")
	ErrDuplicateReport = errors.New("scammer already reported by this wallet")
)

// Store persists reports, evidence, verifications, and merchants.
type Store struct {
	conn *sql.DB
	path string
}

// OpenStore opens the SQLite database at path with WAL mode and applies
// pending migrations.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory %q: %w", dir, err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.runMigrations(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	slog.Info("closing dev api database", "path", s.path)
	return s.conn.Close()
}

func (s *Store) runMigrations() error {
	if _, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d", &version); err != nil {
			slog.Warn("skipping migration with unparseable version", "file", entry.Name())
			continue
		}

		var count int
		if err := s.conn.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
			return fmt.Errorf("check migration status for version %d: %w", version, err)
		}
		if count > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		slog.Info("applying migration", "version", version, "file", entry.Name())

		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", entry.Name(), err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}
	return nil
}

// ReportFilter narrows ListReports.
type ReportFilter struct {
	Status   string
	ScamType string
	Risk     string
	Search   string
	Address  string // matches reporter or scammer
	Reporter string
	Page     int
	PageSize int
}

const reportColumns = `id, title, description, scam_type, status, risk_level,
	reporter_address, scammer_address, contact_info, additional_details,
	transaction_hash, transaction_amount, sui_object_id, stake_amount,
	verification_count, rejection_count, created_at, verification_deadline`

// CreateReport inserts a report plus its evidence rows. A wallet may report
// a given scammer address only once.
func (s *Store) CreateReport(report *models.Report, evidence []models.Evidence) error {
	var dup int
	err := s.conn.QueryRow(
		`SELECT COUNT(*) FROM reports WHERE reporter_address = ? AND scammer_address = ?`,
		report.ReporterAddress, report.ScammerAddress,
	).Scan(&dup)
	if err != nil {
		return fmt.Errorf("check duplicate report: %w", err)
	}
	if dup > 0 {
		return ErrDuplicateReport
	}

	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	report.Status = models.StatusPending
	report.VerificationDeadline = report.CreatedAt.Add(config.VerificationWindow)
	if !report.RiskLevel.Known() {
		report.RiskLevel = assessRisk(report.ScamType, report.TransactionAmount)
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Title, report.Description, string(report.ScamType),
		string(report.Status), string(report.RiskLevel),
		report.ReporterAddress, report.ScammerAddress,
		report.ContactInfo, report.AdditionalDetails,
		report.TransactionHash, report.TransactionAmount,
		report.SuiObjectID, report.StakeAmount,
		report.VerificationCount, report.RejectionCount,
		report.CreatedAt.Format(time.RFC3339),
		report.VerificationDeadline.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	for i := range evidence {
		ev := &evidence[i]
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if ev.CreatedAt.IsZero() {
			ev.CreatedAt = report.CreatedAt
		}
		if ev.Type == "" {
			ev.Type = "file"
		}
		_, err = tx.Exec(`INSERT INTO evidence
			(id, report_id, type, description, file_name, link, hash, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.ID, report.ID, ev.Type, ev.Description, ev.FileName, ev.Link, ev.Hash,
			ev.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert evidence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}
	report.Evidence = evidence
	return nil
}

// GetReport fetches one report with its evidence and verifications.
func (s *Store) GetReport(id string) (*models.Report, error) {
	row := s.conn.QueryRow(`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}

	if report.Evidence, err = s.evidenceFor(id); err != nil {
		return nil, err
	}
	if report.Verifications, err = s.verificationsFor(id); err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports returns one page plus the total row count for the filter.
func (s *Store) ListReports(f ReportFilter) ([]models.Report, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM reports`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = config.ReportsPageSize
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	query := `SELECT ` + reportColumns + ` FROM reports` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	return reports, total, rows.Err()
}

func buildWhere(f ReportFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.ScamType != "" {
		conds = append(conds, "scam_type = ?")
		args = append(args, f.ScamType)
	}
	if f.Risk != "" {
		conds = append(conds, "risk_level = ?")
		args = append(args, f.Risk)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds, `(lower(title) LIKE ? OR lower(description) LIKE ?
			OR lower(reporter_address) LIKE ? OR lower(scammer_address) LIKE ?
			OR lower(scam_type) LIKE ? OR lower(transaction_hash) LIKE ?)`)
		args = append(args, like, like, like, like, like, like)
	}
	if f.Address != "" {
		conds = append(conds, "(reporter_address = ? OR scammer_address = ?)")
		args = append(args, f.Address, f.Address)
	}
	if f.Reporter != "" {
		conds = append(conds, "reporter_address = ?")
		args = append(args, f.Reporter)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*models.Report, error) {
	var r models.Report
	var scamType, status, risk, createdAt, deadline string
	err := row.Scan(
		&r.ID, &r.Title, &r.Description, &scamType, &status, &risk,
		&r.ReporterAddress, &r.ScammerAddress, &r.ContactInfo, &r.AdditionalDetails,
		&r.TransactionHash, &r.TransactionAmount, &r.SuiObjectID, &r.StakeAmount,
		&r.VerificationCount, &r.RejectionCount, &createdAt, &deadline,
	)
	if err != nil {
		return nil, err
	}
	r.ScamType = models.ScamType(scamType)
	r.Status = models.ReportStatus(status)
	r.RiskLevel = models.RiskLevel(risk)
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if r.VerificationDeadline, err = time.Parse(time.RFC3339, deadline); err != nil {
		return nil, fmt.Errorf("parse verification_deadline: %w", err)
	}
	return &r, nil
}

func (s *Store) evidenceFor(reportID string) ([]models.Evidence, error) {
	rows, err := s.conn.Query(`SELECT id, type, description, file_name, link, hash, created_at
		FROM evidence WHERE report_id = ? ORDER BY created_at`, reportID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()

	var out []models.Evidence
	for rows.Next() {
		var ev models.Evidence
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.Description, &ev.FileName, &ev.Link, &ev.Hash, &createdAt); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		if ev.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse evidence created_at: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) verificationsFor(reportID string) ([]models.Verification, error) {
	rows, err := s.conn.Query(`SELECT id, verifier, verified, comment, transaction_hash, created_at
		FROM verifications WHERE report_id = ? ORDER BY created_at`, reportID)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	var out []models.Verification
	for rows.Next() {
		var v models.Verification
		var verified int
		var createdAt string
		if err := rows.Scan(&v.ID, &v.Verifier, &verified, &v.Comment, &v.TransactionHash, &createdAt); err != nil {
			return nil, fmt.Errorf("scan verification: %w", err)
		}
		v.Verified = verified != 0
		if v.Timestamp, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse verification created_at: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// AddVerification records one wallet's vote on a report and settles the
// report once enough votes accumulate. Reporters cannot vote on their own
// reports and each wallet votes at most once per report.
func (s *Store) AddVerification(reportID, verifier string, verified bool, comment, txHash string) (*models.Report, error) {
	report, err := s.GetReport(reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.StatusPending {
		return nil, ErrReportSettled
	}
	if strings.EqualFold(report.ReporterAddress, verifier) {
		return nil, ErrOwnReport
	}
	for _, v := range report.Verifications {
		if strings.EqualFold(v.Verifier, verifier) {
			return nil, ErrDuplicateVote
		}
	}

	now := time.Now().UTC()
	tx, err := s.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	verifiedInt := 0
	if verified {
		verifiedInt = 1
	}
	_, err = tx.Exec(`INSERT INTO verifications
		(id, report_id, verifier, verified, comment, transaction_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), reportID, verifier, verifiedInt, comment, txHash,
		now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}

	counter := "rejection_count"
	if verified {
		counter = "verification_count"
	}
	if _, err := tx.Exec(`UPDATE reports SET `+counter+` = `+counter+` + 1 WHERE id = ?`, reportID); err != nil {
		return nil, fmt.Errorf("bump %s: %w", counter, err)
	}

	// Settle the report once the threshold is reached either way.
	_, err = tx.Exec(`UPDATE reports SET status = CASE
			WHEN verification_count >= ? THEN 'verified'
			WHEN rejection_count >= ? THEN 'rejected'
			ELSE status END
		WHERE id = ?`,
		config.VerificationThreshold, config.VerificationThreshold, reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("settle report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit verification: %w", err)
	}
	return s.GetReport(reportID)
}

// PendingVerifications lists pending reports the wallet can still vote on:
// not its own reports, no prior vote, deadline not passed.
func (s *Store) PendingVerifications(wallet string, now time.Time) ([]models.Report, error) {
	rows, err := s.conn.Query(`SELECT `+reportColumns+` FROM reports
		WHERE status = 'pending'
		  AND reporter_address != ?
		  AND verification_deadline > ?
		  AND id NOT IN (SELECT report_id FROM verifications WHERE verifier = ?)
		ORDER BY created_at DESC`,
		wallet, now.Format(time.RFC3339), wallet)
	if err != nil {
		return nil, fmt.Errorf("list pending verifications: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

// Stats aggregates the dashboard numbers.
func (s *Store) Stats() (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.conn.QueryRow(`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'verified'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM reports`).Scan(
		&stats.TotalReports, &stats.VerifiedReports,
		&stats.PendingReports, &stats.RejectedReports,
	)
	if err != nil {
		return nil, fmt.Errorf("report counts: %w", err)
	}

	if err := s.conn.QueryRow(`SELECT COUNT(DISTINCT verifier) FROM verifications`).Scan(&stats.ActiveVerifiers); err != nil {
		return nil, fmt.Errorf("verifier count: %w", err)
	}
	if err := s.conn.QueryRow(`SELECT COUNT(DISTINCT reporter_address) FROM reports`).Scan(&stats.ProtectedWallets); err != nil {
		return nil, fmt.Errorf("reporter count: %w", err)
	}

	var prevented float64
	if err := s.conn.QueryRow(`SELECT COALESCE(SUM(transaction_amount), 0)
		FROM reports WHERE status = 'verified'`).Scan(&prevented); err != nil {
		return nil, fmt.Errorf("prevented value: %w", err)
	}
	stats.PreventedValue = fmt.Sprintf("%.2f SUI", prevented)
	return &stats, nil
}

// CheckScammer summarizes verified reports against an address.
func (s *Store) CheckScammer(address string) (*models.ScammerCheck, error) {
	check := &models.ScammerCheck{Address: address}
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM reports
		WHERE scammer_address = ? AND status = 'verified'`, address).Scan(&check.ReportCount)
	if err != nil {
		return nil, fmt.Errorf("count scammer reports: %w", err)
	}
	check.Reported = check.ReportCount > 0
	if check.Reported {
		var risk string
		err := s.conn.QueryRow(`SELECT risk_level FROM reports
			WHERE scammer_address = ? AND status = 'verified'
			ORDER BY
				CASE risk_level
					WHEN 'critical' THEN 4
					WHEN 'high' THEN 3
					WHEN 'medium' THEN 2
					WHEN 'low' THEN 1
					ELSE 0
				END DESC
			LIMIT 1`, address).Scan(&risk)
		if err != nil {
			return nil, fmt.Errorf("max scammer risk: %w", err)
		}
		check.RiskLevel = models.RiskLevel(risk)
	}
	return check, nil
}

// Merchants lists registered merchants. API keys are not included.
func (s *Store) Merchants() ([]models.Merchant, error) {
	rows, err := s.conn.Query(`SELECT id, name, created_at FROM merchants ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	defer rows.Close()

	var out []models.Merchant
	for rows.Next() {
		var m models.Merchant
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan merchant: %w", err)
		}
		if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse merchant created_at: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateMerchant registers a merchant.
func (s *Store) CreateMerchant(name string) (*models.Merchant, error) {
	m := &models.Merchant{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.conn.Exec(`INSERT INTO merchants (id, name, api_key, created_at)
		VALUES (?, ?, '', ?)`, m.ID, m.Name, m.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert merchant: %w", err)
	}
	return m, nil
}

// RotateAPIKey issues a fresh API key for the merchant and returns it.
func (s *Store) RotateAPIKey(merchantID string) (string, error) {
	key := "sk_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	res, err := s.conn.Exec(`UPDATE merchants SET api_key = ? WHERE id = ?`, key, merchantID)
	if err != nil {
		return "", fmt.Errorf("rotate api key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("rotate api key: %w", err)
	}
	if n == 0 {
		return "", ErrNotFound
	}
	return key, nil
}

// assessRisk assigns a risk level from the scam type and reported loss.
func assessRisk(scamType models.ScamType, amount float64) models.RiskLevel {
	base := models.RiskMedium
	switch scamType {
	case models.ScamWalletDrain, models.ScamMaliciousContract:
		base = models.RiskHigh
	case models.ScamOther:
		base = models.RiskLow
	}
	switch {
	case amount >= 10000:
		return models.RiskCritical
	case amount >= 1000 && base != models.RiskHigh:
		return models.RiskHigh
	}
	return base
}
