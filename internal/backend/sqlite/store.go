// Package sqlite implements service.Service on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"taskchat/internal/service"
)

// Store keeps tasks, conversations and messages in one SQLite file.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; concurrent readers queue on the pool
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, id);

	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id, updated_at);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Timestamps are stored as Unix nanoseconds.
func stamp(t time.Time) int64    { return t.UnixNano() }
func unstamp(ns int64) time.Time { return time.Unix(0, ns) }

type scanner interface {
	Scan(dest ...any) error
}

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

func scanTask(row scanner) (service.Task, error) {
	var (
		t                service.Task
		id               int64
		created, updated int64
	)
	if err := row.Scan(&id, &t.UserID, &t.Title, &t.Description, &t.Completed, &created, &updated); err != nil {
		return service.Task{}, err
	}
	t.ID = strconv.FormatInt(id, 10)
	t.CreatedAt = unstamp(created)
	t.UpdatedAt = unstamp(updated)
	return t, nil
}

// CreateTask implements service.TaskStore.
func (s *Store) CreateTask(ctx context.Context, userID, title, description string) (service.Task, error) {
	now := stamp(s.now())
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?)
		 RETURNING `+taskColumns,
		userID, title, description, now, now)
	t, err := scanTask(row)
	if err != nil {
		return service.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// ListTasks implements service.TaskStore.
func (s *Store) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []service.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask implements service.TaskStore. Completion only ever moves
// from open to completed; MAX keeps a completed task completed.
func (s *Store) UpdateTask(ctx context.Context, userID, taskID string, upd service.TaskUpdate) (service.Task, error) {
	id, err := strconv.ParseInt(taskID, 10, 64)
	if err != nil {
		return service.Task{}, service.ErrNotFound
	}

	var title any
	if upd.Title != nil {
		title = *upd.Title
	}
	completed := upd.Completed != nil && *upd.Completed

	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET title = COALESCE(?, title), completed = MAX(completed, ?), updated_at = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING `+taskColumns,
		title, completed, stamp(s.now()), id, userID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Task{}, service.ErrNotFound
	}
	if err != nil {
		return service.Task{}, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// DeleteTask implements service.TaskStore.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID string) (bool, error) {
	id, err := strconv.ParseInt(taskID, 10, 64)
	if err != nil {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return n > 0, nil
}
