package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mealbridge/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTaskRepo struct {
	tasks  []*model.ProjectTask
	nextID int
}

func (m *memTaskRepo) Create(_ context.Context, task *model.ProjectTask) error {
	m.nextID++
	task.ID = fmt.Sprintf("project_task:%d", m.nextID)
	task.CreatedOn = time.Now()
	task.UpdatedOn = task.CreatedOn
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *memTaskRepo) Get(_ context.Context, id string) (*model.ProjectTask, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memTaskRepo) List(_ context.Context, status, assigneeID string) ([]*model.ProjectTask, error) {
	var out []*model.ProjectTask
	for _, t := range m.tasks {
		if status != "" && t.Status != status {
			continue
		}
		if assigneeID != "" && !t.IsAssignee(assigneeID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memTaskRepo) Update(_ context.Context, id string, updates map[string]interface{}) (*model.ProjectTask, error) {
	task, _ := m.Get(context.Background(), id)
	if task == nil {
		return nil, nil
	}
	for field, value := range updates {
		switch field {
		case "title":
			task.Title = value.(string)
		case "status":
			task.Status = value.(string)
		case "priority":
			task.Priority = value.(string)
		case "completed_on":
			if value == nil {
				task.CompletedOn = nil
			} else {
				v := value.(time.Time)
				task.CompletedOn = &v
			}
		case "assignees":
			task.Assignees = value.([]string)
		}
	}
	task.UpdatedOn = time.Now()
	return task, nil
}

func (m *memTaskRepo) Delete(_ context.Context, id string) error {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTaskFixture() (*TaskService, *memTaskRepo) {
	users := newMemUserRepo(
		&model.User{ID: "user:creator", Role: model.RoleVolunteer, Active: true},
		&model.User{ID: "user:helper", Role: model.RoleVolunteer, Active: true},
		&model.User{ID: "user:coord", Role: model.RoleCoordinator, Active: true},
	)
	repo := &memTaskRepo{}
	svc := NewTaskService(TaskServiceConfig{TaskRepo: repo, UserRepo: users})
	return svc, repo
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, "user:creator", model.CreateTaskInput{Title: "Order bread"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusTodo, task.Status)
	assert.Equal(t, model.TaskPriorityMedium, task.Priority)

	_, err = svc.Create(ctx, "user:creator", model.CreateTaskInput{})
	require.Error(t, err)
	var problem *model.ProblemDetails
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, 422, problem.Status)

	_, err = svc.Create(ctx, "user:creator", model.CreateTaskInput{Title: "x", Priority: "urgent"})
	assert.Error(t, err)

	_, err = svc.Create(ctx, "user:creator", model.CreateTaskInput{Title: "x", Assignees: []string{"user:nobody"}})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTaskUpdatePermissions(t *testing.T) {
	svc, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, "user:creator", model.CreateTaskInput{
		Title:     "Order bread",
		Assignees: []string{"user:helper"},
	})
	require.NoError(t, err)

	title := "Order more bread"
	// An uninvolved volunteer may not edit
	_, err = svc.Update(ctx, "user:stranger", model.RoleVolunteer, task.ID, model.UpdateTaskInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotTaskParty)

	// The creator, an assignee, and a coordinator all may
	_, err = svc.Update(ctx, "user:creator", model.RoleVolunteer, task.ID, model.UpdateTaskInput{Title: &title})
	assert.NoError(t, err)
	_, err = svc.Update(ctx, "user:helper", model.RoleVolunteer, task.ID, model.UpdateTaskInput{Title: &title})
	assert.NoError(t, err)
	_, err = svc.Update(ctx, "user:coord", model.RoleCoordinator, task.ID, model.UpdateTaskInput{Title: &title})
	assert.NoError(t, err)
}

func TestTaskCompletionStamp(t *testing.T) {
	svc, _ := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, "user:creator", model.CreateTaskInput{Title: "Order bread"})
	require.NoError(t, err)

	done := model.TaskStatusDone
	updated, err := svc.Update(ctx, "user:creator", model.RoleVolunteer, task.ID, model.UpdateTaskInput{Status: &done})
	require.NoError(t, err)
	assert.NotNil(t, updated.CompletedOn)

	// Reopening clears the completion stamp
	reopened := model.TaskStatusInProgress
	updated, err = svc.Update(ctx, "user:creator", model.RoleVolunteer, task.ID, model.UpdateTaskInput{Status: &reopened})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedOn)

	bogus := "parked"
	_, err = svc.Update(ctx, "user:creator", model.RoleVolunteer, task.ID, model.UpdateTaskInput{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestTaskDeletePermissions(t *testing.T) {
	svc, repo := newTaskFixture()
	ctx := context.Background()

	task, err := svc.Create(ctx, "user:creator", model.CreateTaskInput{
		Title:     "Order bread",
		Assignees: []string{"user:helper"},
	})
	require.NoError(t, err)

	// Assignees may edit but not delete
	assert.ErrorIs(t, svc.Delete(ctx, "user:helper", model.RoleVolunteer, task.ID), ErrNotTaskParty)

	require.NoError(t, svc.Delete(ctx, "user:creator", model.RoleVolunteer, task.ID))
	assert.Empty(t, repo.tasks)
	assert.ErrorIs(t, svc.Delete(ctx, "user:creator", model.RoleVolunteer, task.ID), ErrTaskNotFound)
}
