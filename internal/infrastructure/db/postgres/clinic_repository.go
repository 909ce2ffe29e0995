package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cdms/clinic-system/internal/core/domain"
)

const clinicColumns = `id, name, email, description, address, phone, is_independent, created_at`

// ClinicRepository is the PostgreSQL implementation of ports.ClinicRepository.
// Uniqueness is left to the clinics_name_key and clinics_email_key constraints.
type ClinicRepository struct {
	pool *pgxpool.Pool
}

func NewClinicRepository(pool *pgxpool.Pool) *ClinicRepository {
	return &ClinicRepository{pool: pool}
}

func scanClinic(row pgx.Row) (*domain.Clinic, error) {
	var c domain.Clinic
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Description, &c.Address, &c.Phone, &c.IsIndependent, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// clinicConstraintError maps unique violations to the domain errors.
func clinicConstraintError(err error) error {
	switch uniqueConstraint(err) {
	case "clinics_name_key":
		return domain.ErrClinicNameTaken
	case "clinics_email_key":
		return domain.ErrClinicEmailTaken
	}
	return nil
}

func (r *ClinicRepository) Create(ctx context.Context, clinic *domain.Clinic) error {
	const query = `INSERT INTO clinics (` + clinicColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		clinic.ID, clinic.Name, clinic.Email, clinic.Description,
		clinic.Address, clinic.Phone, clinic.IsIndependent, clinic.CreatedAt,
	)
	if err != nil {
		if mapped := clinicConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert clinic: %w", err)
	}
	return nil
}

func (r *ClinicRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Clinic, error) {
	c, err := scanClinic(r.pool.QueryRow(ctx, `SELECT `+clinicColumns+` FROM clinics WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrClinicNotFound
		}
		return nil, fmt.Errorf("find clinic: %w", err)
	}
	return c, nil
}

func (r *ClinicRepository) List(ctx context.Context) ([]*domain.Clinic, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clinicColumns+` FROM clinics ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()

	clinics := []*domain.Clinic{}
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		clinics = append(clinics, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clinics: %w", err)
	}
	return clinics, nil
}

func (r *ClinicRepository) Update(ctx context.Context, clinic *domain.Clinic) error {
	const query = `UPDATE clinics
SET name = $2, email = $3, description = $4, address = $5, phone = $6, is_independent = $7
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		clinic.ID, clinic.Name, clinic.Email, clinic.Description,
		clinic.Address, clinic.Phone, clinic.IsIndependent,
	)
	if err != nil {
		if mapped := clinicConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update clinic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClinicNotFound
	}
	return nil
}

// Delete removes the clinic; members keep their accounts with clinic_id set
// to NULL by the foreign key.
func (r *ClinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete clinic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClinicNotFound
	}
	return nil
}
