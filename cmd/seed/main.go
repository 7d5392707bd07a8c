package main

import (
	"context"
	"log"
	"time"

	"github.com/Abdeval/gym-app/internal/config"
	"github.com/Abdeval/gym-app/internal/domain"
	"github.com/Abdeval/gym-app/internal/repository"
	"github.com/Abdeval/gym-app/internal/repository/mongo"
)

// seedProgram describes one catalog entry to create.
type seedProgram struct {
	Title       string
	Description string
	Level       string
	Duration    string
	Workouts    []string
}

var seedPrograms = []seedProgram{
	{
		Title:       "Full Body Starter",
		Description: "Perfect introduction to weight training",
		Level:       "Beginner",
		Duration:    "4 weeks",
		Workouts:    []string{"Upper Body", "Lower Body", "Full Body"},
	},
	{
		Title:       "Bodyweight Basics",
		Description: "Build strength using your own body weight",
		Level:       "Beginner",
		Duration:    "6 weeks",
		Workouts:    []string{"Push Movements", "Pull Movements", "Legs & Core"},
	},
	{
		Title:       "Push Pull Legs",
		Description: "Classic muscle building split",
		Level:       "Intermediate",
		Duration:    "8 weeks",
		Workouts:    []string{"Push Day", "Pull Day", "Leg Day"},
	},
	{
		Title:       "Upper Lower Split",
		Description: "Balanced approach to muscle development",
		Level:       "Intermediate",
		Duration:    "6 weeks",
		Workouts:    []string{"Upper Body", "Lower Body"},
	},
	{
		Title:       "Powerlifting Focus",
		Description: "Build maximum strength in the big 3",
		Level:       "Advanced",
		Duration:    "12 weeks",
		Workouts:    []string{"Squat Focus", "Bench Focus", "Deadlift Focus"},
	},
	{
		Title:       "Hypertrophy Specialization",
		Description: "Maximum muscle growth protocol",
		Level:       "Advanced",
		Duration:    "10 weeks",
		Workouts:    []string{"Chest & Triceps", "Back & Biceps", "Shoulders", "Legs"},
	},
}

func main() {
	log.Println("Seeding program catalog...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	programRepo := mongo.NewMongoProgramRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	existing, err := programRepo.GetAll(ctx)
	if err != nil {
		log.Fatalf("FATAL: Could not inspect programs collection: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Programs collection already holds %d programs, nothing to do.", len(existing))
		return
	}

	for _, sp := range seedPrograms {
		if err := seedOneProgram(ctx, programRepo, workoutRepo, exerciseRepo, sp); err != nil {
			log.Fatalf("FATAL: Failed to seed program %q: %v", sp.Title, err)
		}
		log.Printf("Seeded program %q (%s, %d workouts)", sp.Title, sp.Level, len(sp.Workouts))
	}

	log.Println("Seeding completed.")
}

func seedOneProgram(
	ctx context.Context,
	programRepo repository.ProgramRepository,
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	sp seedProgram,
) error {
	programID, err := programRepo.Create(ctx, &domain.Program{
		Title:       sp.Title,
		Description: sp.Description,
		Level:       sp.Level,
		Duration:    sp.Duration,
	})
	if err != nil {
		return err
	}

	for i, workoutTitle := range sp.Workouts {
		workoutID, err := workoutRepo.Create(ctx, &domain.Workout{
			ProgramID: programID,
			Title:     workoutTitle,
			Day:       i + 1,
			RestTime:  60,
		})
		if err != nil {
			return err
		}

		durationOne := 60
		durationTwo := 90
		exercises := []domain.Exercise{
			{WorkoutID: workoutID, Title: workoutTitle + " Exercise 1", Sets: 3, Reps: 12, Duration: &durationOne},
			{WorkoutID: workoutID, Title: workoutTitle + " Exercise 2", Sets: 4, Reps: 10, Duration: &durationTwo},
		}
		for i := range exercises {
			if _, err := exerciseRepo.Create(ctx, &exercises[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
