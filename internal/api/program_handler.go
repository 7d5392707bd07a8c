package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Abdeval/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler holds the program service dependency.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- DTOs for API (Data Transfer Objects) ---

// WorkoutTitleResponse carries only the workout title for catalog listings.
type WorkoutTitleResponse struct {
	Title string `json:"title"`
}

// ProgramResponse is the catalog DTO: a program with its workout titles
// ordered by day.
type ProgramResponse struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Level       string                 `json:"level"`
	Duration    string                 `json:"duration,omitempty"`
	Workouts    []WorkoutTitleResponse `json:"workouts"`
}

// CompleteWorkoutRequest defines the expected JSON for recording a completion.
type CompleteWorkoutRequest struct {
	UserID    string `json:"userId" binding:"required"`
	WorkoutID string `json:"workoutId" binding:"required"`
}

// WorkoutResponse is the DTO for a workout nested in progress payloads.
type WorkoutResponse struct {
	ID        string `json:"id"`
	ProgramID string `json:"programId"`
	Title     string `json:"title"`
	Day       int    `json:"day"`
	RestTime  int    `json:"restTime"`
}

// ProgramInfoResponse is the DTO for a program nested in progress payloads.
type ProgramInfoResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Level       string `json:"level"`
}

// ProgressResponse is a completion event enriched with its workout and program.
type ProgressResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"userId"`
	WorkoutID   string               `json:"workoutId"`
	CompletedAt time.Time            `json:"completedAt"`
	Workout     *WorkoutResponse     `json:"workout,omitempty"`
	Program     *ProgramInfoResponse `json:"program,omitempty"`
}

// CompleteWorkoutResponse is returned by the completion endpoint.
type CompleteWorkoutResponse struct {
	Message  string           `json:"message"`
	Progress ProgressResponse `json:"progress"`
}

// --- Handler Methods ---

// GetPrograms godoc
// @Summary List all programs
// @Description Returns every program with its workout titles, ordered by day.
// @Tags Programs
// @Produce json
// @Success 200 {array} ProgramResponse "List of programs"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs [get]
func (h *ProgramHandler) GetPrograms(c *gin.Context) {
	programs, err := h.programService.GetAllPrograms(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs.")
		return
	}

	responses := make([]ProgramResponse, 0, len(programs))
	for i := range programs {
		responses = append(responses, mapProgramDetailsToResponse(&programs[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// CompleteWorkout godoc
// @Summary Record a workout completion
// @Description Records a completion event unless one already exists for this user and workout today. The same-day repeat returns the existing event with an "already completed" message.
// @Tags Programs
// @Accept json
// @Produce json
// @Param completion body CompleteWorkoutRequest true "User and workout identifiers"
// @Success 200 {object} CompleteWorkoutResponse "Completion recorded or already present"
// @Failure 400 {object} gin.H "Invalid input (malformed identifiers)"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/complete [post]
func (h *ProgramHandler) CompleteWorkout(c *gin.Context) {
	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	// Identifiers must be well formed before any store access.
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	result, err := h.programService.CompleteWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record workout completion.")
		}
		return
	}

	c.JSON(http.StatusOK, CompleteWorkoutResponse{
		Message:  result.Message,
		Progress: mapCompletionDetailToResponse(result.Progress),
	})
}

// GetWorkoutHistory godoc
// @Summary Get a user's workout history
// @Description Returns the user's completion events, newest first. Optional limit query parameter, default 10.
// @Tags Programs
// @Produce json
// @Param userId path string true "User's ObjectID Hex"
// @Param limit query int false "Maximum number of events" default(10)
// @Success 200 {array} ProgressResponse "Completion events"
// @Failure 400 {object} gin.H "Invalid user ID format"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/history/{userId} [get]
func (h *ProgramHandler) GetWorkoutHistory(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	var limit int64
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.ParseInt(limitStr, 10, 64)
		if err != nil || limit < 0 {
			abortWithError(c, http.StatusBadRequest, "Invalid limit parameter.")
			return
		}
	}

	history, err := h.programService.GetWorkoutHistory(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout history.")
		return
	}

	responses := make([]ProgressResponse, 0, len(history))
	for i := range history {
		responses = append(responses, mapCompletionDetailToResponse(&history[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetStatistics godoc
// @Summary Get a user's workout statistics
// @Description Returns the fixed set of four display metrics: workouts completed, current streak, total time, programs completed.
// @Tags Programs
// @Produce json
// @Param userId path string true "User's ObjectID Hex"
// @Success 200 {array} service.StatMetric "Four display metrics"
// @Failure 400 {object} gin.H "Invalid user ID format"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/statistics/{userId} [get]
func (h *ProgramHandler) GetStatistics(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	stats, err := h.programService.GetStatistics(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute statistics.")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// --- Mappers ---

func mapProgramDetailsToResponse(details *service.ProgramDetails) ProgramResponse {
	workouts := make([]WorkoutTitleResponse, 0, len(details.Workouts))
	for _, w := range details.Workouts {
		workouts = append(workouts, WorkoutTitleResponse{Title: w.Title})
	}
	return ProgramResponse{
		ID:          details.ID.Hex(),
		Title:       details.Title,
		Description: details.Description,
		Level:       details.Level,
		Duration:    details.Duration,
		Workouts:    workouts,
	}
}

func mapCompletionDetailToResponse(detail *service.CompletionDetail) ProgressResponse {
	if detail == nil {
		return ProgressResponse{}
	}
	resp := ProgressResponse{
		ID:          detail.ID.Hex(),
		UserID:      detail.UserID.Hex(),
		WorkoutID:   detail.WorkoutID.Hex(),
		CompletedAt: detail.CompletedAt,
	}
	if detail.Workout != nil {
		resp.Workout = &WorkoutResponse{
			ID:        detail.Workout.ID.Hex(),
			ProgramID: detail.Workout.ProgramID.Hex(),
			Title:     detail.Workout.Title,
			Day:       detail.Workout.Day,
			RestTime:  detail.Workout.RestTime,
		}
	}
	if detail.Program != nil {
		resp.Program = &ProgramInfoResponse{
			ID:          detail.Program.ID.Hex(),
			Title:       detail.Program.Title,
			Description: detail.Program.Description,
			Level:       detail.Program.Level,
		}
	}
	return resp
}
