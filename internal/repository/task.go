package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealbridge/api/internal/database"
	"github.com/mealbridge/api/internal/model"
)

// TaskRepository handles project task data access
type TaskRepository struct {
	db database.Database
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db database.Database) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new project task
func (r *TaskRepository) Create(ctx context.Context, task *model.ProjectTask) error {
	setClause := `
		title = $title,
		status = $status,
		priority = $priority,
		assignees = $assignees,
		created_by = $created_by,
		created_on = time::now(),
		updated_on = time::now()`
	vars := map[string]interface{}{
		"title":      task.Title,
		"status":     task.Status,
		"priority":   task.Priority,
		"assignees":  task.Assignees,
		"created_by": task.CreatedBy,
	}
	if task.Assignees == nil {
		vars["assignees"] = []string{}
	}
	if task.Description != nil {
		setClause += ", description = $description"
		vars["description"] = *task.Description
	}
	if task.DueDate != nil {
		setClause += ", due_date = $due_date"
		vars["due_date"] = *task.DueDate
	}

	result, err := r.db.Query(ctx, "CREATE project_task SET "+setClause, vars)
	if err != nil {
		return err
	}

	created, err := extractCreated(result)
	if err != nil {
		return err
	}
	task.ID = created.ID
	task.CreatedOn = created.CreatedOn
	task.UpdatedOn = created.UpdatedOn
	return nil
}

// Get retrieves a task by ID; returns (nil, nil) when absent
func (r *TaskRepository) Get(ctx context.Context, id string) (*model.ProjectTask, error) {
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseTaskRow(result)
}

// List returns tasks, optionally filtered by status or assignee
func (r *TaskRepository) List(ctx context.Context, status, assigneeID string) ([]*model.ProjectTask, error) {
	query := `SELECT * FROM project_task`
	vars := map[string]interface{}{}
	var conds []string

	if status != "" {
		conds = append(conds, "status = $status")
		vars["status"] = status
	}
	if assigneeID != "" {
		conds = append(conds, "$assignee IN assignees")
		vars["assignee"] = assigneeID
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_on DESC"

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	var tasks []*model.ProjectTask
	for _, row := range resultRows(result) {
		if t, err := parseTaskRow(row); err == nil && t != nil {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// Update applies a partial update and returns the updated record
func (r *TaskRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.ProjectTask, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}

	setClause := "updated_on = time::now()"
	vars := map[string]interface{}{"id": id}
	for field, value := range updates {
		setClause += fmt.Sprintf(", %s = $%s", field, field)
		vars[field] = value
	}

	result, err := r.db.Query(ctx,
		`UPDATE type::record($id) SET `+setClause+` RETURN AFTER`, vars)
	if err != nil {
		return nil, err
	}

	rows := resultRows(result)
	if len(rows) == 0 {
		return nil, nil
	}
	return parseTaskRow(rows[0])
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.Execute(ctx, `DELETE type::record($id)`, map[string]interface{}{"id": id})
}

func parseTaskRow(row interface{}) (*model.ProjectTask, error) {
	m, ok := rowMap(row)
	if !ok {
		return nil, nil
	}

	return &model.ProjectTask{
		ID:          recordID(m["id"]),
		Title:       getString(m, "title"),
		Description: getStringPtr(m, "description"),
		Status:      getString(m, "status"),
		Priority:    getString(m, "priority"),
		DueDate:     getTimePtr(m, "due_date"),
		Assignees:   getStringSlice(m, "assignees"),
		CreatedBy:   getString(m, "created_by"),
		CompletedOn: getTimePtr(m, "completed_on"),
		CreatedOn:   getTime(m, "created_on"),
		UpdatedOn:   getTime(m, "updated_on"),
	}, nil
}
