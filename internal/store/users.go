// internal/store/users.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, first_name, last_name, role, is_staff, is_superuser, created_at`

func (s *UserStore) scan(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var firstName, lastName sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &firstName, &lastName,
		&u.Role, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, username, email string, role models.Role) (*models.User, error) {
	u := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, role, is_staff, is_superuser, created_at)
		VALUES ($1, $2, $3, $4, false, false, $5)`,
		u.ID, u.Username, u.Email, u.Role, u.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
			return nil, errors.NewConflictError("Ce nom d'utilisateur existe déjà")
		}
		return nil, errors.NewInternalError(fmt.Errorf("insert user: %w", err))
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := s.scan(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Utilisateur", id)
	}
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("get user: %w", err))
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := s.scan(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Utilisateur", username)
	}
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("get user by username: %w", err))
	}
	return u, nil
}

// SetRole rewrites the single role field. Granting Admin also grants the
// staff and superuser flags; any other role revokes them.
func (s *UserStore) SetRole(ctx context.Context, id string, role models.Role) error {
	isAdmin := role == models.RoleAdmin
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET role = $2, is_staff = $3, is_superuser = $3 WHERE id = $1`,
		id, role, isAdmin)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("set user role: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("Utilisateur", id)
	}
	return nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("list users: %w", err))
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := s.scan(rows)
		if err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("scan user: %w", err))
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}
