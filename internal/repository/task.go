package repository

import (
	"context"
	"time"

	"github.com/smarttask/smarttask/internal/database"
	"github.com/smarttask/smarttask/internal/models"
)

type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `task_id, user_id, project_id, title, description, status, priority,
	 location, tags, start_time, end_time, recurring_days, recurring_until, created_at`

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO task (user_id, project_id, title, description, status, priority,
		 location, tags, start_time, end_time, recurring_days, recurring_until)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING task_id, created_at`,
		task.UserID, task.ProjectID, task.Title, task.Description, task.Status,
		task.Priority, task.Location, task.Tags, task.StartTime, task.EndTime,
		task.RecurringDays, task.RecurringUntil,
	).Scan(&task.TaskID, &task.CreatedAt)
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID int, userID int64) (*models.Task, error) {
	task := &models.Task{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM task WHERE task_id = $1 AND user_id = $2`,
		taskID, userID,
	).Scan(&task.TaskID, &task.UserID, &task.ProjectID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &task.Location, &task.Tags, &task.StartTime,
		&task.EndTime, &task.RecurringDays, &task.RecurringUntil, &task.CreatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) GetByUserID(ctx context.Context, userID int64, includeDone bool) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task WHERE user_id = $1`
	if !includeDone {
		query += ` AND status != 'done'`
	}
	query += ` ORDER BY priority DESC, end_time ASC NULLS LAST, created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

func (r *TaskRepository) GetByProject(ctx context.Context, projectID int, userID int64) ([]*models.Task, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+taskColumns+` FROM task WHERE project_id = $1 AND user_id = $2
		 ORDER BY priority DESC, end_time ASC NULLS LAST, created_at DESC`,
		projectID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// GetScheduled returns every task of the user that can appear on the
// calendar, i.e. has an end time. Recurrence is materialized by the
// calendar package, so no date filtering happens here.
func (r *TaskRepository) GetScheduled(ctx context.Context, userID int64) ([]*models.Task, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+taskColumns+` FROM task
		 WHERE user_id = $1 AND end_time IS NOT NULL
		 ORDER BY start_time ASC NULLS LAST`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE task SET project_id = $1, title = $2, description = $3, status = $4,
		 priority = $5, location = $6, tags = $7, start_time = $8, end_time = $9,
		 recurring_days = $10, recurring_until = $11
		 WHERE task_id = $12 AND user_id = $13`,
		task.ProjectID, task.Title, task.Description, task.Status, task.Priority,
		task.Location, task.Tags, task.StartTime, task.EndTime, task.RecurringDays,
		task.RecurringUntil, task.TaskID, task.UserID,
	)
	return err
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, taskID int, userID int64, status string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE task SET status = $1 WHERE task_id = $2 AND user_id = $3`,
		status, taskID, userID,
	)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, taskID int, userID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM task WHERE task_id = $1 AND user_id = $2`,
		taskID, userID,
	)
	return err
}

func (r *TaskRepository) Search(ctx context.Context, userID int64, keyword string) ([]*models.Task, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+taskColumns+` FROM task
		 WHERE user_id = $1 AND (title ILIKE $2 OR description ILIKE $2 OR tags ILIKE $2)
		 ORDER BY priority DESC, end_time ASC NULLS LAST, created_at DESC`,
		userID, "%"+keyword+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// GetDueSoon returns unfinished tasks whose end time falls within the window.
func (r *TaskRepository) GetDueSoon(ctx context.Context, userID int64, within time.Duration) ([]*models.Task, error) {
	deadline := time.Now().Add(within)
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+taskColumns+` FROM task
		 WHERE user_id = $1 AND status != 'done' AND end_time IS NOT NULL AND end_time <= $2
		 ORDER BY end_time ASC`,
		userID, deadline,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

func (r *TaskRepository) scanTasks(rows interface {
	Next() bool
	Scan(dest ...any) error
}) ([]*models.Task, error) {
	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.TaskID, &task.UserID, &task.ProjectID, &task.Title,
			&task.Description, &task.Status, &task.Priority, &task.Location, &task.Tags,
			&task.StartTime, &task.EndTime, &task.RecurringDays, &task.RecurringUntil,
			&task.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
