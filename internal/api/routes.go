package api

import (
	"net/http"

	"dmaraujo/trainerhub/internal/domain"
	"dmaraujo/trainerhub/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler into the gin engine. All business routes
// live under /api/v1; everything except register/login requires a valid
// bearer token, and coach-only groups additionally require the coach role.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	studentService service.StudentService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	measurementService service.MeasurementService,
	assignmentService service.AssignmentService,
	dashboardService service.DashboardService,
) {
	authHandler := NewAuthHandler(authService)
	studentHandler := NewStudentHandler(studentService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	measurementHandler := NewMeasurementHandler(measurementService)
	assignmentHandler := NewAssignmentHandler(assignmentService)
	dashboardHandler := NewDashboardHandler(dashboardService)

	authMiddleware := AuthMiddleware(jwtSecret)
	coachOnly := RoleMiddleware(domain.RoleCoach)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// Profile of whoever holds the token, coach or student.
		protected.GET("/auth/me", authHandler.GetMe)
		protected.PUT("/auth/me", authHandler.UpdateMe)

		// Exercise catalog: readable by any authenticated user, writable
		// by coaches only.
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.POST("", coachOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", coachOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", coachOnly, exerciseHandler.DeleteExercise)
		}

		studentGroup := protected.Group("/students")
		studentGroup.Use(coachOnly)
		{
			studentGroup.POST("", studentHandler.CreateStudent)
			studentGroup.GET("", studentHandler.ListStudents)
			studentGroup.GET("/:id", studentHandler.GetStudent)
			studentGroup.PUT("/:id", studentHandler.UpdateStudent)
			studentGroup.DELETE("/:id", studentHandler.DeleteStudent)

			studentGroup.POST("/:id/measurements", measurementHandler.CreateMeasurement)
			studentGroup.GET("/:id/measurements", measurementHandler.ListMeasurements)
			studentGroup.GET("/:id/measurements/latest", measurementHandler.LatestMeasurement)

			studentGroup.POST("/:id/measurements/:measurementId/photo", measurementHandler.RequestPhotoUpload)
			studentGroup.PUT("/:id/measurements/:measurementId/photo", measurementHandler.ConfirmPhotoUpload)
			studentGroup.GET("/:id/measurements/:measurementId/photo", measurementHandler.GetPhotoDownloadURL)

			studentGroup.GET("/:id/workouts", assignmentHandler.GetStudentWorkouts)
		}

		workoutGroup := protected.Group("/workouts")
		workoutGroup.Use(coachOnly)
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.PUT("/:workoutId", workoutHandler.UpdateWorkout)

			workoutGroup.GET("/:workoutId/exercises", workoutHandler.ListWorkoutExercises)
			workoutGroup.POST("/:workoutId/exercises", workoutHandler.AddExerciseToWorkout)
			workoutGroup.PUT("/:workoutId/exercises/:exerciseId", workoutHandler.UpdateWorkoutExercise)
			workoutGroup.DELETE("/:workoutId/exercises/:exerciseId", workoutHandler.RemoveExerciseFromWorkout)
		}

		assignmentGroup := protected.Group("/assignments")
		assignmentGroup.Use(coachOnly)
		{
			assignmentGroup.POST("", assignmentHandler.AssignWorkout)
			assignmentGroup.PATCH("/:id/finish", assignmentHandler.FinishAssignment)
		}

		protected.GET("/dashboard/stats", coachOnly, dashboardHandler.GetStats)
	}
}
