package service

import (
	"context"
	"sort"
	"time"

	"github.com/Abdeval/gym-app/internal/domain"
	"github.com/Abdeval/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the behavior the mongo
// implementations rely on, including the unique
// (userId, workoutId, completedOn) constraint of the progress collection.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeUserRepo) UpdateAvatarKey(_ context.Context, id primitive.ObjectID, avatarKey string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvatarKey = avatarKey
	u.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeProgramRepo struct {
	programs []domain.Program
}

func (r *fakeProgramRepo) Create(_ context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.ID == primitive.NilObjectID {
		program.ID = primitive.NewObjectID()
	}
	r.programs = append(r.programs, *program)
	return program.ID, nil
}

func (r *fakeProgramRepo) GetAll(_ context.Context) ([]domain.Program, error) {
	out := make([]domain.Program, len(r.programs))
	copy(out, r.programs)
	return out, nil
}

func (r *fakeProgramRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Program, error) {
	for i := range r.programs {
		if r.programs[i].ID == id {
			clone := r.programs[i]
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeWorkoutRepo struct {
	workouts []domain.Workout
}

func (r *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.ID == primitive.NilObjectID {
		workout.ID = primitive.NewObjectID()
	}
	r.workouts = append(r.workouts, *workout)
	return workout.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	for i := range r.workouts {
		if r.workouts[i].ID == id {
			clone := r.workouts[i]
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) GetByProgramID(_ context.Context, programID primitive.ObjectID) ([]domain.Workout, error) {
	var out []domain.Workout
	for i := range r.workouts {
		if r.workouts[i].ProgramID == programID {
			out = append(out, r.workouts[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (r *fakeWorkoutRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Workout, error) {
	idSet := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	out := []domain.Workout{}
	for i := range r.workouts {
		if _, ok := idSet[r.workouts[i].ID]; ok {
			out = append(out, r.workouts[i])
		}
	}
	return out, nil
}

type fakeExerciseRepo struct {
	exercises []domain.Exercise
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.ID == primitive.NilObjectID {
		exercise.ID = primitive.NewObjectID()
	}
	r.exercises = append(r.exercises, *exercise)
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByWorkoutID(_ context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error) {
	out := []domain.Exercise{}
	for i := range r.exercises {
		if r.exercises[i].WorkoutID == workoutID {
			out = append(out, r.exercises[i])
		}
	}
	return out, nil
}

type fakeProgressRepo struct {
	events []domain.WorkoutProgress
}

func (r *fakeProgressRepo) Create(_ context.Context, progress *domain.WorkoutProgress) (primitive.ObjectID, error) {
	if progress.CompletedAt.IsZero() {
		progress.CompletedAt = time.Now()
	}
	if progress.CompletedOn == "" {
		progress.CompletedOn = progress.CompletedAt.Format(domain.CompletionDayFormat)
	}
	for i := range r.events {
		e := &r.events[i]
		if e.UserID == progress.UserID && e.WorkoutID == progress.WorkoutID && e.CompletedOn == progress.CompletedOn {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	progress.ID = primitive.NewObjectID()
	r.events = append(r.events, *progress)
	return progress.ID, nil
}

func (r *fakeProgressRepo) GetByUserWorkoutDay(_ context.Context, userID, workoutID primitive.ObjectID, day string) (*domain.WorkoutProgress, error) {
	for i := range r.events {
		e := &r.events[i]
		if e.UserID == userID && e.WorkoutID == workoutID && e.CompletedOn == day {
			clone := *e
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgressRepo) ListByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]domain.WorkoutProgress, error) {
	out := []domain.WorkoutProgress{}
	for i := range r.events {
		if r.events[i].UserID == userID {
			out = append(out, r.events[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProgressRepo) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var count int64
	for i := range r.events {
		if r.events[i].UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeProgressRepo) DistinctWorkoutIDs(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	seen := make(map[primitive.ObjectID]struct{})
	ids := []primitive.ObjectID{}
	for i := range r.events {
		e := &r.events[i]
		if e.UserID != userID {
			continue
		}
		if _, ok := seen[e.WorkoutID]; ok {
			continue
		}
		seen[e.WorkoutID] = struct{}{}
		ids = append(ids, e.WorkoutID)
	}
	return ids, nil
}

func (r *fakeProgressRepo) DistinctDays(_ context.Context, userID primitive.ObjectID) ([]string, error) {
	seen := make(map[string]struct{})
	days := []string{}
	for i := range r.events {
		e := &r.events[i]
		if e.UserID != userID {
			continue
		}
		if _, ok := seen[e.CompletedOn]; ok {
			continue
		}
		seen[e.CompletedOn] = struct{}{}
		days = append(days, e.CompletedOn)
	}
	return days, nil
}

// racingProgressRepo simulates a concurrent request winning the insert
// between the existence check and the Create call: the first lookup sees
// nothing, the insert hits the unique index, the second lookup sees the
// winner's row.
type racingProgressRepo struct {
	fakeProgressRepo
	winner  domain.WorkoutProgress
	lookups int
	creates int
}

func (r *racingProgressRepo) GetByUserWorkoutDay(_ context.Context, _, _ primitive.ObjectID, _ string) (*domain.WorkoutProgress, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, repository.ErrNotFound
	}
	clone := r.winner
	return &clone, nil
}

func (r *racingProgressRepo) Create(_ context.Context, _ *domain.WorkoutProgress) (primitive.ObjectID, error) {
	r.creates++
	return primitive.NilObjectID, repository.ErrDuplicate
}

// fakeFileStorage records calls instead of talking to S3.
type fakeFileStorage struct {
	uploadURL   string
	downloadURL string
	deletedKeys []string
	uploadErr   error
	downloadErr error
}

func (s *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return s.uploadURL + "/" + objectKey, nil
}

func (s *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if s.downloadErr != nil {
		return "", s.downloadErr
	}
	return s.downloadURL + "/" + objectKey, nil
}

func (s *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deletedKeys = append(s.deletedKeys, objectKey)
	return nil
}
