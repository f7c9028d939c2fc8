package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
)

const selectTodo = `
	SELECT id::text, user_id::text, title, description, completed, due_date, overdue,
	       priority, status, image_url, created_at, updated_at
	FROM todos`

type TodoRepository struct {
	db DB
}

func NewTodoRepository(db DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, t *entity.Todo) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO todos (user_id, title, description, completed, due_date, overdue, priority, status, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id::text
	`, t.UserID, t.Title, t.Description, t.Completed, dueDateArg(t.DueDate), t.Overdue,
		string(t.Priority), string(t.Status), t.ImageURL, t.CreatedAt, t.UpdatedAt)
	return row.Scan(&t.ID)
}

func (r *TodoRepository) GetByID(ctx context.Context, id string) (*entity.Todo, error) {
	t, err := scanTodo(r.db.QueryRow(ctx, selectTodo+` WHERE id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Todo, error) {
	return r.list(ctx, selectTodo+` WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (r *TodoRepository) ListOverdue(ctx context.Context, userID string, now time.Time) ([]*entity.Todo, error) {
	return r.list(ctx, selectTodo+`
		WHERE user_id = $1 AND due_date < $2 AND NOT completed
		ORDER BY due_date`, userID, now)
}

func (r *TodoRepository) Update(ctx context.Context, t *entity.Todo) error {
	res, err := r.db.Exec(ctx, `
		UPDATE todos
		SET title = $1, description = $2, completed = $3, due_date = $4, overdue = $5,
		    priority = $6, status = $7, image_url = $8, updated_at = $9
		WHERE id = $10
	`, t.Title, t.Description, t.Completed, dueDateArg(t.DueDate), t.Overdue,
		string(t.Priority), string(t.Status), t.ImageURL, t.UpdatedAt, t.ID)
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

func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
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

func (r *TodoRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Todo, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTodo(row pgx.Row) (*entity.Todo, error) {
	t := &entity.Todo{}
	var (
		due              pgtype.Timestamptz
		priority, status string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &due, &t.Overdue,
		&priority, &status, &t.ImageURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	t.Priority = entity.Priority(priority)
	t.Status = entity.Status(status)
	return t, nil
}

func dueDateArg(d *time.Time) pgtype.Timestamptz {
	if d == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *d, Valid: true}
}

var _ repository.TodoRepository = (*TodoRepository)(nil)
