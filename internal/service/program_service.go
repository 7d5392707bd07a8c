package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Abdeval/gym-app/internal/domain"
	"github.com/Abdeval/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound = errors.New("workout not found")
)

// Completion messages returned to the client. A same-day repeat is a soft
// conflict, not an error: the call still succeeds and returns the existing row.
const (
	MsgWorkoutCompleted        = "Workout completed successfully"
	MsgWorkoutAlreadyCompleted = "Workout already completed today"
)

// DefaultHistoryLimit is used when the caller does not provide a limit.
const DefaultHistoryLimit = 10

// ProgramDetails is a program enriched with its workouts, ordered by day.
type ProgramDetails struct {
	domain.Program
	Workouts []domain.Workout `json:"workouts"`
}

// CompletionDetail is a completion event enriched with its workout and the
// workout's parent program.
type CompletionDetail struct {
	domain.WorkoutProgress
	Workout *domain.Workout `json:"workout,omitempty"`
	Program *domain.Program `json:"program,omitempty"`
}

// CompletionResult is the outcome of a completion-recording call.
type CompletionResult struct {
	Message  string            `json:"message"`
	Progress *CompletionDetail `json:"progress"`
}

// StatMetric is one display metric of the statistics endpoint.
type StatMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// --- Service Interface ---
type ProgramService interface {
	GetAllPrograms(ctx context.Context) ([]ProgramDetails, error)
	CompleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*CompletionResult, error)
	GetStatistics(ctx context.Context, userID primitive.ObjectID) ([]StatMetric, error)
	GetWorkoutHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]CompletionDetail, error)
}

// --- Service Implementation ---

// programService implements the ProgramService interface.
type programService struct {
	programRepo  repository.ProgramRepository
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	progressRepo repository.ProgressRepository

	// now is the clock used for calendar-day decisions (completion dedup,
	// streak walking). Overridable in tests.
	now func() time.Time
}

// NewProgramService creates a new instance of programService.
func NewProgramService(
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	progressRepo repository.ProgressRepository,
) ProgramService {
	return &programService{
		programRepo:  programRepo,
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		progressRepo: progressRepo,
		now:          time.Now,
	}
}

// GetAllPrograms returns every program with its workouts ordered by day.
func (s *programService) GetAllPrograms(ctx context.Context) ([]ProgramDetails, error) {
	programs, err := s.programRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]ProgramDetails, 0, len(programs))
	for _, program := range programs {
		workouts, err := s.workoutRepo.GetByProgramID(ctx, program.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, ProgramDetails{
			Program:  program,
			Workouts: workouts,
		})
	}
	return details, nil
}

// CompleteWorkout records a completion event for (user, workout) unless one
// already exists within the current calendar day. The same-day repeat path is
// idempotent: it returns the existing row and an "already completed" message
// without writing anything.
func (s *programService) CompleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*CompletionResult, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	program, err := s.programRepo.GetByID(ctx, workout.ProgramID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	day := now.Format(domain.CompletionDayFormat)

	existing, err := s.progressRepo.GetByUserWorkoutDay(ctx, userID, workoutID, day)
	if err == nil {
		return &CompletionResult{
			Message:  MsgWorkoutAlreadyCompleted,
			Progress: &CompletionDetail{WorkoutProgress: *existing, Workout: workout, Program: program},
		}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	progress := &domain.WorkoutProgress{
		UserID:      userID,
		WorkoutID:   workoutID,
		CompletedAt: now,
		CompletedOn: day,
	}

	progressID, err := s.progressRepo.Create(ctx, progress)
	if err != nil {
		// A concurrent request won the insert between our existence check and
		// now; the unique index turned the race into a duplicate-key error.
		// Treat it as the already-completed outcome.
		if errors.Is(err, repository.ErrDuplicate) {
			existing, err := s.progressRepo.GetByUserWorkoutDay(ctx, userID, workoutID, day)
			if err != nil {
				return nil, err
			}
			return &CompletionResult{
				Message:  MsgWorkoutAlreadyCompleted,
				Progress: &CompletionDetail{WorkoutProgress: *existing, Workout: workout, Program: program},
			}, nil
		}
		return nil, err
	}
	progress.ID = progressID

	return &CompletionResult{
		Message:  MsgWorkoutCompleted,
		Progress: &CompletionDetail{WorkoutProgress: *progress, Workout: workout, Program: program},
	}, nil
}

// GetStatistics derives the four display metrics for a user. The call is
// read-only and degrades gracefully to zeros for a user with no completions.
func (s *programService) GetStatistics(ctx context.Context, userID primitive.ObjectID) ([]StatMetric, error) {
	// 1. Workouts completed: every event counts, repeats included.
	workoutsCompleted, err := s.progressRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The distinct completed-workout-id set is computed once and reused for
	// both total time and programs completed, so the two metrics cannot
	// disagree within one response.
	completedIDs, err := s.progressRepo.DistinctWorkoutIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	completedSet := make(map[primitive.ObjectID]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completedSet[id] = struct{}{}
	}

	// 2. Programs completed: a program counts iff every one of its current
	// workouts has at least one completion.
	programs, err := s.programRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	programsCompleted := 0
	for _, program := range programs {
		workouts, err := s.workoutRepo.GetByProgramID(ctx, program.ID)
		if err != nil {
			return nil, err
		}
		if len(workouts) == 0 {
			continue
		}
		completed := true
		for _, w := range workouts {
			if _, ok := completedSet[w.ID]; !ok {
				completed = false
				break
			}
		}
		if completed {
			programsCompleted++
		}
	}

	// 3. Total time: each distinct completed workout contributes its
	// exercises (explicit duration, else the per-rep estimate) plus its rest
	// time once, no matter how many days it was completed on.
	totalSeconds := 0
	completedWorkouts, err := s.workoutRepo.GetByIDs(ctx, completedIDs)
	if err != nil {
		return nil, err
	}
	for _, workout := range completedWorkouts {
		exercises, err := s.exerciseRepo.GetByWorkoutID(ctx, workout.ID)
		if err != nil {
			return nil, err
		}
		for i := range exercises {
			totalSeconds += exercises[i].EstimatedSeconds()
		}
		totalSeconds += workout.RestTime
	}
	totalMinutes := float64(totalSeconds) / 60
	hours := int(totalMinutes / 60)
	minutes := int(math.Round(math.Mod(totalMinutes, 60)))
	totalTimeStr := fmt.Sprintf("%dh %dm", hours, minutes)

	// 4. Current streak: walk back from today over the distinct completion
	// days, stopping at the first gap. No completion today means streak 0.
	days, err := s.progressRepo.DistinctDays(ctx, userID)
	if err != nil {
		return nil, err
	}
	daySet := make(map[string]struct{}, len(days))
	for _, d := range days {
		daySet[d] = struct{}{}
	}
	streak := 0
	current := s.now()
	for {
		if _, ok := daySet[current.Format(domain.CompletionDayFormat)]; !ok {
			break
		}
		streak++
		current = current.AddDate(0, 0, -1)
	}
	streakStr := fmt.Sprintf("%d days", streak)
	if streak == 1 {
		streakStr = "1 day"
	}

	return []StatMetric{
		{Label: "Workouts Completed", Value: strconv.FormatInt(workoutsCompleted, 10), Icon: "fitness"},
		{Label: "Current Streak", Value: streakStr, Icon: "flame"},
		{Label: "Total Time", Value: totalTimeStr, Icon: "time"},
		{Label: "Programs Completed", Value: strconv.Itoa(programsCompleted), Icon: "trophy"},
	}, nil
}

// GetWorkoutHistory returns a user's completion events newest first, each
// enriched with its workout and parent program. An empty result is valid.
func (s *programService) GetWorkoutHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]CompletionDetail, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	events, err := s.progressRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	// Cache resolved workouts and programs; history entries often repeat them.
	workouts := make(map[primitive.ObjectID]*domain.Workout)
	programs := make(map[primitive.ObjectID]*domain.Program)

	details := make([]CompletionDetail, 0, len(events))
	for _, event := range events {
		detail := CompletionDetail{WorkoutProgress: event}

		workout, ok := workouts[event.WorkoutID]
		if !ok {
			workout, err = s.workoutRepo.GetByID(ctx, event.WorkoutID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			workouts[event.WorkoutID] = workout
		}
		detail.Workout = workout

		if workout != nil {
			program, ok := programs[workout.ProgramID]
			if !ok {
				program, err = s.programRepo.GetByID(ctx, workout.ProgramID)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return nil, err
				}
				programs[workout.ProgramID] = program
			}
			detail.Program = program
		}

		details = append(details, detail)
	}
	return details, nil
}
