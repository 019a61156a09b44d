package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joeyedi1/eclandingpage/internal/domain"
)

const leadColumns = `id, name, mobile, email, preferred_unit, request,
	consent_contact, consent_marketing, remote_addr, outcomes, submitted_at`

type pgLeadRepository struct {
	pool *pgxpool.Pool
}

// NewPgLeadRepository returns a LeadRepository backed by PostgreSQL.
func NewPgLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &pgLeadRepository{pool: pool}
}

func (r *pgLeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	outcomes, err := marshalOutcomes(l.Outcomes)
	if err != nil {
		return err
	}
	s := l.Submission
	_, err = r.pool.Exec(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		l.ID, s.Name, s.Mobile, s.Email, s.PreferredUnit, s.Request,
		s.ConsentContact, s.ConsentMarketing, l.RemoteAddr, outcomes, l.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *pgLeadRepository) RecordOutcomes(ctx context.Context, id string, outcomes []domain.DispatchOutcome) error {
	data, err := marshalOutcomes(outcomes)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE leads SET outcomes = $1 WHERE id = $2`, data, id)
	if err != nil {
		return fmt.Errorf("record outcomes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgLeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	l, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return l, err
}

func (r *pgLeadRepository) List(ctx context.Context, f domain.ListFilter) ([]*domain.Lead, int, error) {
	where, args := buildListWhere(f)
	offset := (f.Page - 1) * f.Limit

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	args = append(args, f.Limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM leads%s
		ORDER BY submitted_at DESC
		LIMIT $%d OFFSET $%d`, leadColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, l)
	}
	return leads, total, rows.Err()
}

// ---- helpers ----

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var (
		l        domain.Lead
		outcomes []byte
	)
	s := &l.Submission
	err := row.Scan(
		&l.ID, &s.Name, &s.Mobile, &s.Email, &s.PreferredUnit, &s.Request,
		&s.ConsentContact, &s.ConsentMarketing, &l.RemoteAddr, &outcomes, &l.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(outcomes, &l.Outcomes); err != nil {
		return nil, fmt.Errorf("decode outcomes for lead %s: %w", l.ID, err)
	}
	return &l, nil
}

func marshalOutcomes(outcomes []domain.DispatchOutcome) ([]byte, error) {
	if outcomes == nil {
		outcomes = []domain.DispatchOutcome{}
	}
	data, err := json.Marshal(outcomes)
	if err != nil {
		return nil, fmt.Errorf("encode outcomes: %w", err)
	}
	return data, nil
}

// buildListWhere builds a parameterised WHERE clause from a ListFilter.
func buildListWhere(f domain.ListFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, val any) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if f.From != nil {
		add("submitted_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("submitted_at <= $%d", *f.To)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
