package service

import (
	"context"
	"time"

	"github.com/mealbridge/api/internal/model"
)

// TaskRepository defines the interface for project task storage
type TaskRepository interface {
	Create(ctx context.Context, task *model.ProjectTask) error
	Get(ctx context.Context, id string) (*model.ProjectTask, error)
	List(ctx context.Context, status, assigneeID string) ([]*model.ProjectTask, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.ProjectTask, error)
	Delete(ctx context.Context, id string) error
}

// TaskService manages internal project tasks
type TaskService struct {
	taskRepo TaskRepository
	userRepo UserRepository
}

// TaskServiceConfig holds configuration for the task service
type TaskServiceConfig struct {
	TaskRepo TaskRepository
	UserRepo UserRepository
}

// NewTaskService creates a new task service
func NewTaskService(cfg TaskServiceConfig) *TaskService {
	return &TaskService{taskRepo: cfg.TaskRepo, userRepo: cfg.UserRepo}
}

// Create adds a task, defaulting to todo status and medium priority
func (s *TaskService) Create(ctx context.Context, createdBy string, in model.CreateTaskInput) (*model.ProjectTask, error) {
	if in.Title == "" {
		return nil, model.NewValidationError([]model.FieldError{{Field: "title", Message: "is required"}})
	}

	priority := in.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}
	switch priority {
	case model.TaskPriorityLow, model.TaskPriorityMedium, model.TaskPriorityHigh:
	default:
		return nil, model.NewValidationError([]model.FieldError{{Field: "priority", Message: "must be low, medium, or high"}})
	}

	for _, assignee := range in.Assignees {
		user, err := s.userRepo.GetByID(ctx, assignee)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}

	task := &model.ProjectTask{
		Title:       in.Title,
		Description: in.Description,
		Status:      model.TaskStatusTodo,
		Priority:    priority,
		DueDate:     in.DueDate,
		Assignees:   in.Assignees,
		CreatedBy:   createdBy,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get retrieves a task
func (s *TaskService) Get(ctx context.Context, id string) (*model.ProjectTask, error) {
	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// List returns tasks, optionally filtered by status or assignee
func (s *TaskService) List(ctx context.Context, status, assigneeID string) ([]*model.ProjectTask, error) {
	if status != "" && !model.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}
	return s.taskRepo.List(ctx, status, assigneeID)
}

// Update edits a task. Only the creator, an assignee, or a coordinator may
// edit. Moving to done stamps completed_on; moving away clears it.
func (s *TaskService) Update(ctx context.Context, actorID, actorRole, id string, in model.UpdateTaskInput) (*model.ProjectTask, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.CreatedBy != actorID && !task.IsAssignee(actorID) && !model.HasRole(actorRole, model.RoleCoordinator) {
		return nil, ErrNotTaskParty
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Status != nil {
		if !model.ValidTaskStatus(*in.Status) {
			return nil, ErrInvalidTaskStatus
		}
		updates["status"] = *in.Status
		if *in.Status == model.TaskStatusDone {
			updates["completed_on"] = time.Now()
		} else if task.Status == model.TaskStatusDone {
			updates["completed_on"] = nil
		}
	}
	if in.Priority != nil {
		switch *in.Priority {
		case model.TaskPriorityLow, model.TaskPriorityMedium, model.TaskPriorityHigh:
		default:
			return nil, model.NewValidationError([]model.FieldError{{Field: "priority", Message: "must be low, medium, or high"}})
		}
		updates["priority"] = *in.Priority
	}
	if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}
	if in.Assignees != nil {
		for _, assignee := range in.Assignees {
			user, err := s.userRepo.GetByID(ctx, assignee)
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, ErrUserNotFound
			}
		}
		updates["assignees"] = in.Assignees
	}

	updated, err := s.taskRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrTaskNotFound
	}
	return updated, nil
}

// Delete removes a task. Only the creator or a coordinator may delete.
func (s *TaskService) Delete(ctx context.Context, actorID, actorRole, id string) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if task.CreatedBy != actorID && !model.HasRole(actorRole, model.RoleCoordinator) {
		return ErrNotTaskParty
	}
	return s.taskRepo.Delete(ctx, id)
}
