package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arklim/contacts-service/internal/core/domain"
	"github.com/arklim/contacts-service/internal/core/port"
	"github.com/arklim/contacts-service/internal/repository"
)

const uniqueViolationCode = "23505"

var contactColumns = []string{
	"id",
	"user_name",
	"name",
	"email",
	"type",
	"dob",
	"phone",
	"password_hash",
	"created_at",
}

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContactRepository implements port.ContactRepository using PostgreSQL.
// Uniqueness of user_name and email rides on the table's unique indexes;
// violations are mapped to repository.ErrConflict here so the service layer
// never sees driver errors.
type ContactRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewContactRepository wires a contact repository backed by any executor that
// satisfies pgExecutor, typically a *pgxpool.Pool.
func NewContactRepository(exec pgExecutor) *ContactRepository {
	return &ContactRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Persist inserts a new contact row with a fresh uuid.
func (r *ContactRepository) Persist(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	if contact.ID != "" {
		return nil, fmt.Errorf("persist contact: id must not be set")
	}

	contact.ID = uuid.NewString()

	stmt, args, err := r.builder.Insert("contacts").
		Columns(contactColumns...).
		Values(
			contact.ID,
			contact.UserName,
			contact.Name,
			contact.Email,
			contact.Type,
			contact.DOB,
			contact.Phone,
			contact.PasswordHash,
			contact.CreatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert contact sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	stored := contact
	return &stored, nil
}

// Get retrieves a contact by identifier.
func (r *ContactRepository) Get(ctx context.Context, id string) (*domain.Contact, error) {
	return r.getWhere(ctx, squirrel.Eq{"id": id})
}

// GetByUserName retrieves a contact by its unique userName.
func (r *ContactRepository) GetByUserName(ctx context.Context, userName string) (*domain.Contact, error) {
	return r.getWhere(ctx, squirrel.Eq{"user_name": userName})
}

// GetByEmail retrieves a contact by its unique email. Emails are stored
// lowercased, so the comparison folds the argument the same way.
func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	return r.getWhere(ctx, squirrel.Expr("email = LOWER(?)", email))
}

func (r *ContactRepository) getWhere(ctx context.Context, pred any) (*domain.Contact, error) {
	stmt, args, err := r.builder.
		Select(contactColumns...).
		From("contacts").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select contact sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var contact domain.Contact
	if err := row.Scan(
		&contact.ID,
		&contact.UserName,
		&contact.Name,
		&contact.Email,
		&contact.Type,
		&contact.DOB,
		&contact.Phone,
		&contact.PasswordHash,
		&contact.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}

	return &contact, nil
}

// Find returns all contacts ordered by creation time.
func (r *ContactRepository) Find(ctx context.Context) ([]domain.Contact, error) {
	stmt, args, err := r.builder.
		Select(contactColumns...).
		From("contacts").
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list contacts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		var contact domain.Contact
		if err := rows.Scan(
			&contact.ID,
			&contact.UserName,
			&contact.Name,
			&contact.Email,
			&contact.Type,
			&contact.DOB,
			&contact.Phone,
			&contact.PasswordHash,
			&contact.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, nil
}

// Merge overwrites the stored fields of an existing contact.
func (r *ContactRepository) Merge(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	if contact.ID == "" {
		return nil, fmt.Errorf("merge contact: id is required")
	}

	stmt, args, err := r.builder.Update("contacts").
		Set("user_name", contact.UserName).
		Set("name", contact.Name).
		Set("email", contact.Email).
		Set("type", contact.Type).
		Set("dob", contact.DOB).
		Set("phone", contact.Phone).
		Set("password_hash", contact.PasswordHash).
		Where(squirrel.Eq{"id": contact.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update contact sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}

	stored := contact
	return &stored, nil
}

// Remove deletes the contact row. Removing a nonexistent id is a no-op.
func (r *ContactRepository) Remove(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("contacts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete contact sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	return nil
}

var _ port.ContactRepository = (*ContactRepository)(nil)
