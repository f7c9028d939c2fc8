package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/internal/domain/repository"
)

var todoColumns = []string{
	"id", "user_id", "title", "description", "completed", "due_date", "overdue",
	"priority", "status", "image_url", "created_at", "updated_at",
}

func TestTodoRepository_GetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	due := now.Add(24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE id = $1")).
		WithArgs("todo-1").
		WillReturnRows(pgxmock.NewRows(todoColumns).AddRow(
			"todo-1", "user-1", "Write report", "", false, due, false,
			"HIGH", "IN_PROGRESS", "", now, now,
		))

	td, err := repo.GetByID(context.Background(), "todo-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", td.UserID)
	assert.Equal(t, entity.PriorityHigh, td.Priority)
	assert.Equal(t, entity.StatusInProgress, td.Status)
	require.NotNil(t, td.DueDate)
	assert.Equal(t, due, *td.DueDate)
}

func TestTodoRepository_GetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE id = $1")).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows(todoColumns))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTodoRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	td := &entity.Todo{UserID: "user-1", Title: "Buy milk", Priority: entity.PriorityLow, Status: entity.StatusNotStarted}
	td.Touch(now)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO todos")).
		WithArgs("user-1", "Buy milk", "", false, pgxmock.AnyArg(), false, "LOW", "NOT_STARTED", "", now, now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("todo-7"))

	require.NoError(t, repo.Create(context.Background(), td))
	assert.Equal(t, "todo-7", td.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_DeleteNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos")).
		WithArgs("todo-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "todo-1"), repository.ErrNotFound)
}

func TestTodoRepository_ListOverdue(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)

	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("due_date < $2 AND NOT completed")).
		WithArgs("user-1", now).
		WillReturnRows(pgxmock.NewRows(todoColumns).AddRow(
			"todo-1", "user-1", "Late", "", false, due, true,
			"MEDIUM", "NOT_STARTED", "", now, now,
		))

	list, err := repo.ListOverdue(context.Background(), "user-1", now)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Overdue)
}

func badUUID(id string) error {
	return &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "` + id + `"`}
}

func TestTodoRepository_MalformedIDIsNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTodoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE id = $1")).
		WithArgs("abc").
		WillReturnError(badUUID("abc"))
	_, err := repo.GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos")).
		WithArgs("abc").
		WillReturnError(badUUID("abc"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "abc"), repository.ErrNotFound)

	td := &entity.Todo{ID: "abc", Priority: entity.PriorityLow, Status: entity.StatusNotStarted}
	mock.ExpectExec(regexp.QuoteMeta("UPDATE todos")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "abc").
		WillReturnError(badUUID("abc"))
	assert.ErrorIs(t, repo.Update(context.Background(), td), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
