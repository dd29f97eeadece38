package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sitegrade/database"
	"sitegrade/domain/audit"
	"sitegrade/domain/contracts"
)

// signalColumns maps a signal key onto its column-group prefix. Every
// per-signal write is scoped to one of these groups.
var signalColumns = map[audit.SignalKey]string{
	audit.SignalStructural:    "w3c",
	audit.SignalPerformance:   "psi",
	audit.SignalAccessibility: "accessibility",
	audit.SignalCrawlability:  "ai",
}

const auditSelectColumns = `
	id, company_name, website_url,
	w3c_status, w3c_score, w3c_grade, w3c_last_error, w3c_fetched_at,
	w3c_issue_count, w3c_audit_url,
	psi_status, psi_score, psi_grade, psi_last_error, psi_fetched_at,
	psi_audit_url,
	accessibility_status, accessibility_score, accessibility_grade,
	accessibility_last_error, accessibility_fetched_at, accessibility_audit_url,
	ai_status, ai_score, ai_grade, ai_last_error, ai_fetched_at, ai_details,
	design_score, design_grade, overall_score, overall_grade,
	is_deleted, created_at`

// SqlAuditRepository implements contracts.AuditRepository against the
// denormalized audits table.
type SqlAuditRepository struct {
	*BaseRepository
}

// NewAuditRepository creates an audit repository with read/write separation.
func NewAuditRepository(db *database.Database) *SqlAuditRepository {
	return &SqlAuditRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *SqlAuditRepository) Create(ctx context.Context, a *audit.Audit) error {
	_, err := r.WriteDB().ExecContext(ctx, `
		INSERT INTO audits (id, company_name, website_url, created_at)
		VALUES (?, ?, ?, ?)`,
		a.ID, a.CompanyName, a.WebsiteURL, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit: %w", err)
	}
	return nil
}

func (r *SqlAuditRepository) GetByID(ctx context.Context, id string) (*audit.Audit, error) {
	row := r.ReadDB().QueryRowContext(ctx,
		"SELECT"+auditSelectColumns+" FROM audits WHERE id = ?", id)

	a, err := r.scanAudit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrAuditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit %s: %w", id, err)
	}
	return a, nil
}

func (r *SqlAuditRepository) List(ctx context.Context, includeDeleted bool) ([]*audit.Audit, error) {
	query := "SELECT" + auditSelectColumns + " FROM audits"
	if !includeDeleted {
		query += " WHERE is_deleted = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.ReadDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	return r.collectAudits(rows)
}

func (r *SqlAuditRepository) ListScoredSince(ctx context.Context, since time.Time) ([]*audit.Audit, error) {
	rows, err := r.ReadDB().QueryContext(ctx,
		"SELECT"+auditSelectColumns+" FROM audits WHERE is_deleted = 0 AND created_at >= ? ORDER BY created_at DESC",
		since)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits since %s: %w", since.Format(time.RFC3339), err)
	}
	defer rows.Close()

	return r.collectAudits(rows)
}

func (r *SqlAuditRepository) SoftDelete(ctx context.Context, id string) error {
	return r.exec(ctx, id, "UPDATE audits SET is_deleted = 1 WHERE id = ?", id)
}

func (r *SqlAuditRepository) HardDelete(ctx context.Context, id string) error {
	return r.exec(ctx, id, "DELETE FROM audits WHERE id = ?", id)
}

func (r *SqlAuditRepository) SetSignalFetching(ctx context.Context, id string, key audit.SignalKey) error {
	prefix, ok := signalColumns[key]
	if !ok {
		return fmt.Errorf("unknown signal key: %q", key)
	}
	query := fmt.Sprintf(`
		UPDATE audits
		SET %[1]s_status = ?, %[1]s_last_error = NULL, %[1]s_fetched_at = NULL
		WHERE id = ?`, prefix)
	return r.exec(ctx, id, query, string(audit.SignalStatusFetching), id)
}

func (r *SqlAuditRepository) SetSignalSuccess(ctx context.Context, id string, key audit.SignalKey, result contracts.SignalSuccess) error {
	prefix, ok := signalColumns[key]
	if !ok {
		return fmt.Errorf("unknown signal key: %q", key)
	}

	query := fmt.Sprintf(`
		UPDATE audits
		SET %[1]s_status = ?, %[1]s_score = ?, %[1]s_grade = ?,
		    %[1]s_last_error = NULL, %[1]s_fetched_at = ?`, prefix)
	args := []any{string(audit.SignalStatusSuccess), result.Score, result.Grade, result.FetchedAt}

	switch key {
	case audit.SignalStructural:
		query += ", w3c_issue_count = ?, w3c_audit_url = ?"
		args = append(args, r.ToNullInt64(result.IssueCount), r.ToNullString(result.AuditURL))
	case audit.SignalPerformance:
		query += ", psi_audit_url = ?"
		args = append(args, r.ToNullString(result.AuditURL))
	case audit.SignalAccessibility:
		query += ", accessibility_audit_url = ?"
		args = append(args, r.ToNullString(result.AuditURL))
	case audit.SignalCrawlability:
		query += ", ai_details = ?"
		args = append(args, r.ToNullString(string(result.Details)))
	}

	query += " WHERE id = ?"
	args = append(args, id)
	return r.exec(ctx, id, query, args...)
}

func (r *SqlAuditRepository) SetSignalError(ctx context.Context, id string, key audit.SignalKey, message string) error {
	prefix, ok := signalColumns[key]
	if !ok {
		return fmt.Errorf("unknown signal key: %q", key)
	}
	query := fmt.Sprintf(`
		UPDATE audits SET %[1]s_status = ?, %[1]s_last_error = ? WHERE id = ?`, prefix)
	return r.exec(ctx, id, query, string(audit.SignalStatusError), message, id)
}

func (r *SqlAuditRepository) SetDesignScore(ctx context.Context, id string, score float64, grade string) error {
	return r.exec(ctx, id,
		"UPDATE audits SET design_score = ?, design_grade = ? WHERE id = ?",
		score, grade, id)
}

func (r *SqlAuditRepository) SetOverall(ctx context.Context, id string, score float64, grade string) error {
	return r.exec(ctx, id,
		"UPDATE audits SET overall_score = ?, overall_grade = ? WHERE id = ?",
		score, grade, id)
}

// exec runs a single-row write and maps a zero-row update to ErrAuditNotFound.
func (r *SqlAuditRepository) exec(ctx context.Context, id, query string, args ...any) error {
	res, err := r.WriteDB().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update audit %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update audit %s: %w", id, err)
	}
	if affected == 0 {
		return contracts.ErrAuditNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SqlAuditRepository) scanAudit(row rowScanner) (*audit.Audit, error) {
	var (
		a audit.Audit

		w3cStatus, psiStatus, accStatus, aiStatus     string
		w3cScore, psiScore, accScore, aiScore         sql.NullFloat64
		w3cGrade, psiGrade, accGrade, aiGrade         sql.NullString
		w3cErr, psiErr, accErr, aiErr                 sql.NullString
		w3cFetched, psiFetched, accFetched, aiFetched sql.NullTime

		issueCount                sql.NullInt64
		w3cURL, psiURL, accURL    sql.NullString
		aiDetails                 sql.NullString
		designScore, overallScore sql.NullFloat64
		designGrade, overallGrade sql.NullString
	)

	err := row.Scan(
		&a.ID, &a.CompanyName, &a.WebsiteURL,
		&w3cStatus, &w3cScore, &w3cGrade, &w3cErr, &w3cFetched,
		&issueCount, &w3cURL,
		&psiStatus, &psiScore, &psiGrade, &psiErr, &psiFetched,
		&psiURL,
		&accStatus, &accScore, &accGrade, &accErr, &accFetched, &accURL,
		&aiStatus, &aiScore, &aiGrade, &aiErr, &aiFetched, &aiDetails,
		&designScore, &designGrade, &overallScore, &overallGrade,
		&a.IsDeleted, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.W3C = r.scanSignal(w3cStatus, w3cScore, w3cGrade, w3cErr, w3cFetched)
	a.W3CIssueCount = r.FromNullInt64(issueCount)
	a.W3CAuditURL = r.FromNullString(w3cURL)

	a.PSI = r.scanSignal(psiStatus, psiScore, psiGrade, psiErr, psiFetched)
	a.PSIAuditURL = r.FromNullString(psiURL)

	a.Accessibility = r.scanSignal(accStatus, accScore, accGrade, accErr, accFetched)
	a.AccessibilityAuditURL = r.FromNullString(accURL)

	a.Crawlability = r.scanSignal(aiStatus, aiScore, aiGrade, aiErr, aiFetched)
	if aiDetails.Valid {
		a.CrawlabilityDetails = []byte(aiDetails.String)
	}

	a.DesignScore = r.FromNullFloat64(designScore)
	a.DesignGrade = r.FromNullString(designGrade)
	a.OverallScore = r.FromNullFloat64(overallScore)
	a.OverallGrade = r.FromNullString(overallGrade)

	return &a, nil
}

func (r *SqlAuditRepository) scanSignal(
	status string,
	score sql.NullFloat64,
	grade, lastError sql.NullString,
	fetchedAt sql.NullTime,
) audit.Signal {
	return audit.Signal{
		Status:    audit.SignalStatus(status),
		Score:     r.FromNullFloat64(score),
		Grade:     r.FromNullString(grade),
		LastError: r.FromNullString(lastError),
		FetchedAt: r.FromNullTime(fetchedAt),
	}
}

func (r *SqlAuditRepository) collectAudits(rows *sql.Rows) ([]*audit.Audit, error) {
	var audits []*audit.Audit
	for rows.Next() {
		a, err := r.scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		audits = append(audits, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit rows: %w", err)
	}
	return audits, nil
}
