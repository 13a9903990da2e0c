// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/classbridge/identity-api/internal/core"
)

type Counts struct {
	TotalUsers int `db:"total_users"`
	Students   int `db:"students_count"`
	Teachers   int `db:"teachers_count"`
	Admins     int `db:"admins_count"`
}

type Repository interface {
	CreateWithRole(
		ctx context.Context,
		u *User,
		roleName string,
		assignedByID *string,
	) error
	GrantRole(
		ctx context.Context,
		userID, roleName string,
		assignedByID *string,
	) (bool, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	RolesForUser(ctx context.Context, userID string) ([]string, error)
	ListByRole(ctx context.Context, roleName string) ([]User, error)
	Counts(ctx context.Context) (*Counts, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *core.Database) Repository {
	return &repository{db: db.DB}
}

// CreateWithRole inserts the user, assigns the named role and creates
// the matching role profile in a single transaction. A failure at any
// step leaves no partial records behind.
func (r *repository) CreateWithRole(
	ctx context.Context,
	u *User,
	roleName string,
	assignedByID *string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO users (id, email, password_hash, first_name, last_name)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`

		err := tx.GetContext(ctx, u, query,
			u.ID,
			u.Email,
			u.PasswordHash,
			u.FirstName,
			u.LastName,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
			}
			return fmt.Errorf("create user: %w", err)
		}

		if _, err := grantRoleTx(ctx, tx, u.ID, roleName, assignedByID); err != nil {
			return err
		}

		return loadAssociations(ctx, tx, u)
	})
}

// GrantRole assigns the named role to an existing user and creates the
// role profile if one is missing. It reports false with a nil error
// when the user already holds the role.
func (r *repository) GrantRole(
	ctx context.Context,
	userID, roleName string,
	assignedByID *string,
) (bool, error) {
	var granted bool

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists bool
		check := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
		if err := tx.GetContext(ctx, &exists, check, userID); err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if !exists {
			return fmt.Errorf("grant role: %w", core.ErrNotFound)
		}

		var err error
		granted, err = grantRoleTx(ctx, tx, userID, roleName, assignedByID)
		return err
	})
	if err != nil {
		return false, err
	}

	return granted, nil
}

func grantRoleTx(
	ctx context.Context,
	tx *sqlx.Tx,
	userID, roleName string,
	assignedByID *string,
) (bool, error) {
	var roleID string
	err := tx.GetContext(ctx, &roleID,
		`SELECT id FROM roles WHERE name = $1`, roleName)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf(
			"resolve role %q: %w", roleName, core.ErrRoleCatalogMissing)
	}
	if err != nil {
		return false, fmt.Errorf("resolve role %q: %w", roleName, err)
	}

	insert := `
		INSERT INTO user_roles (id, user_id, role_id, assigned_by_id)
		VALUES ($1, $2, $3, $4)`

	_, err = tx.ExecContext(ctx, insert,
		uuid.NewString(), userID, roleID, assignedByID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("assign role: %w", err)
	}

	if err := createProfileTx(ctx, tx, userID, roleName); err != nil {
		return false, err
	}

	return true, nil
}

func createProfileTx(
	ctx context.Context,
	tx *sqlx.Tx,
	userID, roleName string,
) error {
	var query string
	args := []any{uuid.NewString(), userID}

	switch roleName {
	case RoleStudent:
		query = `
			INSERT INTO student_profiles (id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING`
	case RoleTeacher:
		query = `
			INSERT INTO teacher_profiles (id, user_id, status)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO NOTHING`
		args = append(args, TeacherStatusApproved)
	case RoleAdmin:
		query = `
			INSERT INTO admin_profiles (id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING`
	default:
		return fmt.Errorf(
			"create profile for role %q: %w",
			roleName,
			core.ErrRoleCatalogMissing,
		)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create %s profile: %w", roleName, err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name,
		       created_at, updated_at
		FROM users
		WHERE id = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := loadAssociations(ctx, r.db, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name,
		       created_at, updated_at
		FROM users
		WHERE email = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := loadAssociations(ctx, r.db, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) RolesForUser(
	ctx context.Context,
	userID string,
) ([]string, error) {
	query := `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.name`

	var roles []string
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("roles for user: %w", err)
	}

	// An empty result is ambiguous: the user may hold no grants or may
	// not exist at all. Callers need the distinction to answer 401 vs
	// 403, so check existence before reporting an empty grant set.
	if len(roles) == 0 {
		var exists bool
		check := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
		if err := r.db.GetContext(ctx, &exists, check, userID); err != nil {
			return nil, fmt.Errorf("roles for user: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("roles for user: %w", core.ErrNotFound)
		}
	}

	return roles, nil
}

func (r *repository) ListByRole(
	ctx context.Context,
	roleName string,
) ([]User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name,
		       u.created_at, u.updated_at
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles r ON r.id = ur.role_id
		WHERE r.name = $1
		ORDER BY u.created_at DESC`

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, roleName); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}

	for i := range users {
		if err := loadAssociations(ctx, r.db, &users[i]); err != nil {
			return nil, err
		}
	}

	return users, nil
}

func (r *repository) Counts(ctx context.Context) (*Counts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM user_roles ur
				JOIN roles r ON r.id = ur.role_id
				WHERE r.name = 'student') AS students_count,
			(SELECT COUNT(*) FROM user_roles ur
				JOIN roles r ON r.id = ur.role_id
				WHERE r.name = 'teacher') AS teachers_count,
			(SELECT COUNT(*) FROM user_roles ur
				JOIN roles r ON r.id = ur.role_id
				WHERE r.name = 'admin') AS admins_count`

	var counts Counts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	return &counts, nil
}

func loadAssociations(ctx context.Context, q core.DBTX, u *User) error {
	grantsQuery := `
		SELECT ur.id, ur.user_id, ur.role_id, r.name AS role_name,
		       ur.assigned_by_id, ur.assigned_at
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ur.assigned_at`

	if err := q.SelectContext(ctx, &u.Grants, grantsQuery, u.ID); err != nil {
		return fmt.Errorf("load role grants: %w", err)
	}

	var student StudentProfile
	err := q.GetContext(ctx, &student,
		`SELECT id, user_id, bio, created_at, updated_at
		 FROM student_profiles WHERE user_id = $1`, u.ID)
	if err == nil {
		u.StudentProfile = &student
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load student profile: %w", err)
	}

	var teacher TeacherProfile
	err = q.GetContext(ctx, &teacher,
		`SELECT id, user_id, bio, status, created_at, updated_at
		 FROM teacher_profiles WHERE user_id = $1`, u.ID)
	if err == nil {
		u.TeacherProfile = &teacher
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load teacher profile: %w", err)
	}

	var admin AdminProfile
	err = q.GetContext(ctx, &admin,
		`SELECT id, user_id, created_at, updated_at
		 FROM admin_profiles WHERE user_id = $1`, u.ID)
	if err == nil {
		u.AdminProfile = &admin
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load admin profile: %w", err)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
