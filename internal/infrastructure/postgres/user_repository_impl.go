package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
)

const selectUser = `
	SELECT u.id::text, u.email, u.password_hash, u.name, u.contact_number, u.position, u.is_admin,
	       u.created_at, u.updated_at,
	       s.id::text, s.tier, s.start_date, s.end_date
	FROM users u
	LEFT JOIN subscriptions s ON s.user_id = u.id`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, contact_number, position, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.ContactNumber, u.Position, u.IsAdmin)
	if err = row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if u.Subscription != nil {
		s := u.Subscription
		s.UserID = u.ID
		row = tx.QueryRow(ctx, `
			INSERT INTO subscriptions (user_id, tier, start_date, end_date)
			VALUES ($1, $2, $3, $4)
			RETURNING id::text
		`, s.UserID, string(s.Tier), s.StartDate, s.EndDate)
		if err = row.Scan(&s.ID); err != nil {
			return fmt.Errorf("insert subscription: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+` WHERE u.id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+` WHERE u.email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok)
	if isNotFound(err) {
		return false, nil
	}
	return ok, err
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, name = $2, contact_number = $3, position = $4, updated_at = $5
		WHERE id = $6
	`, u.Email, u.Name, u.ContactNumber, u.Position, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		if isNotFound(err) {
			return repository.ErrNotFound
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, hash, id)
	if err != nil {
		if isNotFound(err) {
			return repository.ErrNotFound
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SaveSubscription(ctx context.Context, s *entity.Subscription) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO subscriptions (user_id, tier, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET tier = EXCLUDED.tier, start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date
		RETURNING id::text
	`, s.UserID, string(s.Tier), s.StartDate, s.EndDate)
	if err := row.Scan(&s.ID); err != nil {
		if isNotFound(err) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return repository.ErrNotFound
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, selectUser+` ORDER BY u.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var (
		subID, tier pgtype.Text
		start, end  pgtype.Timestamptz
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.ContactNumber, &u.Position, &u.IsAdmin,
		&u.CreatedAt, &u.UpdatedAt, &subID, &tier, &start, &end); err != nil {
		return nil, err
	}
	if subID.Valid {
		u.Subscription = &entity.Subscription{
			ID:        subID.String,
			UserID:    u.ID,
			Tier:      entity.Tier(tier.String),
			StartDate: start.Time,
			EndDate:   end.Time,
		}
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
