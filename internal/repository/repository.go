package repository

import (
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// TaskRepository defines the interface for task data access.
// Every read, update and delete is scoped to the owning user; there is
// deliberately no way to reach a task row without an owner ID.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByIDAndOwner finds a task by ID, restricted to the given owner
	FindByIDAndOwner(id, ownerID uint64) (*models.Task, error)

	// List retrieves the owner's tasks matching the filter
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// DeleteByOwner deletes the task with the given ID if the owner matches,
	// returning the number of rows affected
	DeleteByOwner(id, ownerID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks. OwnerID is mandatory
// and is always the first predicate applied.
type TaskFilter struct {
	OwnerID  uint64
	Status   *models.TaskStatus
	Search   string
	Page     int
	PageSize int
}
