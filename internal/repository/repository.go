package repository

import (
	"context"

	"github.com/Abdeval/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	UpdateAvatarKey(ctx context.Context, id primitive.ObjectID, avatarKey string) error
}

// ProgramRepository defines the interface for interacting with program data.
// Programs are written only by the seeding process.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetAll(ctx context.Context) ([]domain.Program, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Workout, error) // Sorted by day ascending
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error)
}

// ProgressRepository defines the interface for interacting with workout
// completion events. Rows are insert-only; Create returns ErrDuplicate when
// the unique (userId, workoutId, completedOn) index rejects a same-day repeat.
type ProgressRepository interface {
	Create(ctx context.Context, progress *domain.WorkoutProgress) (primitive.ObjectID, error)
	GetByUserWorkoutDay(ctx context.Context, userID, workoutID primitive.ObjectID, day string) (*domain.WorkoutProgress, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutProgress, error) // Newest first
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DistinctWorkoutIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	DistinctDays(ctx context.Context, userID primitive.ObjectID) ([]string, error)
}
