package api

import (
	"net/http"

	"github.com/Abdeval/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	programService service.ProgramService,
	profileService service.ProfileService,
) {
	authHandler := NewAuthHandler(authService)
	programHandler := NewProgramHandler(programService)
	profileHandler := NewProfileHandler(profileService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/signin", authHandler.SignIn)
			authGroup.PATCH("/updatePassword", authMiddleware, authHandler.ChangePassword)
		}

		profileGroup := api.Group("/profile")
		profileGroup.Use(authMiddleware)
		{
			profileGroup.GET("", profileHandler.GetProfile)
			profileGroup.POST("/avatar/upload-url", profileHandler.RequestAvatarUploadURL)
			profileGroup.POST("/avatar/confirm", profileHandler.ConfirmAvatarUpload)
		}

		// Program routes trust the caller-supplied user identifier; the
		// identity layer in front of this API is responsible for it.
		programGroup := api.Group("/programs")
		{
			programGroup.GET("", programHandler.GetPrograms)
			programGroup.POST("/complete", programHandler.CompleteWorkout)
			programGroup.GET("/history/:userId", programHandler.GetWorkoutHistory)
			programGroup.GET("/statistics/:userId", programHandler.GetStatistics)
		}
	}
}
