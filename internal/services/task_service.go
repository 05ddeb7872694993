package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
)

// TaskService handles task business logic. Every operation takes the
// authenticated user and is scoped to tasks that user owns.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status   *models.TaskStatus
	Search   string
	Page     int
	PageSize int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
}

// ListTasks returns the user's tasks matching the provided filters
func (s *TaskService) ListTasks(input ListTasksInput, user *models.User) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OwnerID:  user.ID,
		Status:   input.Status,
		Search:   input.Search,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		log.Printf("Failed to list tasks for user %q: %v", user.Username, err)
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns the user's task with the given ID. A task owned by another
// user yields the same ErrTaskNotFound as an unknown ID.
func (s *TaskService) GetTask(id uint64, user *models.User) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(id, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task owned by the user. Status always starts OPEN.
func (s *TaskService) CreateTask(input CreateTaskInput, user *models.User) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Description == "" {
		return nil, ErrDescriptionRequired
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusOpen,
		OwnerID:     user.ID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskStatus sets the status of the user's task. The lookup goes
// through GetTask, so updating a task you do not own is a not-found.
func (s *TaskService) UpdateTaskStatus(id uint64, status models.TaskStatus, user *models.User) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	task, err := s.GetTask(id, user)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes the user's task with the given ID
func (s *TaskService) DeleteTask(id uint64, user *models.User) error {
	affected, err := s.taskRepo.DeleteByOwner(id, user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
