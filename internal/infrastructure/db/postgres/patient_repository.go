package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cdms/clinic-system/internal/core/domain"
)

const patientColumns = `id, doctor_id, full_name, gender, phone, date_of_birth, address, ssn, created_at`

// PatientRepository is the PostgreSQL implementation of ports.PatientRepository.
type PatientRepository struct {
	pool *pgxpool.Pool
}

func NewPatientRepository(pool *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{pool: pool}
}

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	var (
		p      domain.Patient
		gender string
	)
	if err := row.Scan(&p.ID, &p.DoctorID, &p.FullName, &gender, &p.Phone, &p.DateOfBirth, &p.Address, &p.SSN, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Gender = domain.Gender(gender)
	return &p, nil
}

func (r *PatientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	const query = `INSERT INTO patients (` + patientColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := r.pool.Exec(ctx, query,
		patient.ID, patient.DoctorID, patient.FullName, string(patient.Gender), patient.Phone,
		patient.DateOfBirth, patient.Address, patient.SSN, patient.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return p, nil
}

func (r *PatientRepository) ListByDoctors(ctx context.Context, doctorIDs []uuid.UUID, filter domain.PatientFilter) ([]*domain.Patient, error) {
	if len(doctorIDs) == 0 {
		return []*domain.Patient{}, nil
	}

	query, args := listByDoctorsQuery(doctorIDs, filter)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	patients := []*domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return patients, nil
}

// listByDoctorsQuery builds the filtered listing. Gender matches exactly;
// phone and name match case-insensitive substrings.
func listByDoctorsQuery(doctorIDs []uuid.UUID, filter domain.PatientFilter) (string, []any) {
	ids := make([]string, len(doctorIDs))
	for i, id := range doctorIDs {
		ids[i] = id.String()
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + patientColumns + ` FROM patients WHERE doctor_id = ANY($1::uuid[])`)
	args := []any{ids}

	if filter.Gender != "" {
		args = append(args, filter.Gender)
		fmt.Fprintf(&b, ` AND gender = $%d`, len(args))
	}
	if filter.Phone != "" {
		args = append(args, containsPattern(filter.Phone))
		fmt.Fprintf(&b, ` AND phone ILIKE $%d ESCAPE '\'`, len(args))
	}
	if filter.FullName != "" {
		args = append(args, containsPattern(filter.FullName))
		fmt.Fprintf(&b, ` AND full_name ILIKE $%d ESCAPE '\'`, len(args))
	}
	b.WriteString(` ORDER BY created_at, id`)
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns s into a LIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *PatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	const query = `UPDATE patients
SET full_name = $2, gender = $3, phone = $4, date_of_birth = $5, address = $6, ssn = $7
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		patient.ID, patient.FullName, string(patient.Gender), patient.Phone,
		patient.DateOfBirth, patient.Address, patient.SSN,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}
