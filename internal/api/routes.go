package api

import (
	"net/http"

	"evolvefit/coach-app/internal/domain"
	"evolvefit/coach-app/internal/metrics"
	"evolvefit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	metricsManager *metrics.Manager,
	authService service.AuthService,
	studentService service.StudentService,
	planService service.PlanService,
	exerciseService service.ExerciseService,
	progressService service.ProgressService,
	portalService service.PortalService,
	advisorService service.AdvisorService,
) {

	authHandler := NewAuthHandler(authService)
	studentHandler := NewStudentHandler(studentService)
	planHandler := NewPlanHandler(planService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	progressHandler := NewProgressHandler(progressService)
	portalHandler := NewPortalHandler(portalService, metricsManager)
	advisorHandler := NewAdvisorHandler(advisorService, metricsManager)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.Use(CORSMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// --- Advisory Proxy Routes ---
		// Stateless model-provider proxies. No auth: the endpoints hold no
		// data of their own and relay exactly what the caller sends.
		aiGroup := apiV1.Group("/ai")
		{
			aiGroup.POST("/generate-workout", advisorHandler.GenerateWorkout)
			aiGroup.POST("/analyze-progress", advisorHandler.AnalyzeProgress)
			aiGroup.POST("/general-advice", advisorHandler.GeneralAdvice)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			email, _ := getUserEmailFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "email": email})
		})

		// --- Exercise Catalog Routes ---
		// Shared reference data: any trainer can read and maintain it.
		exerciseGroup := protected.Group("/exercises")
		exerciseGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExerciseByID)
			exerciseGroup.PUT("/:exerciseId", exerciseHandler.UpdateExercise)
		}

		// --- Trainer Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// Student management
			trainerGroup.POST("/students", studentHandler.CreateStudent)
			trainerGroup.GET("/students", studentHandler.GetStudents)
			trainerGroup.GET("/students/:studentId", studentHandler.GetStudentByID)
			trainerGroup.PUT("/students/:studentId", studentHandler.UpdateStudent)
			trainerGroup.DELETE("/students/:studentId", studentHandler.DeactivateStudent)

			// Progress records per student
			trainerGroup.POST("/students/:studentId/progress", progressHandler.CreateRecord)
			trainerGroup.GET("/students/:studentId/progress", progressHandler.GetRecords)
			trainerGroup.GET("/students/:studentId/progress/chart", progressHandler.GetChartSeries)
			trainerGroup.PUT("/progress/:recordId", progressHandler.UpdateRecord)

			// Progress photos
			trainerGroup.POST("/progress/:recordId/photo/upload-url", progressHandler.RequestPhotoUpload)
			trainerGroup.POST("/progress/:recordId/photo/confirm", progressHandler.ConfirmPhoto)
			trainerGroup.GET("/progress/:recordId/photo", progressHandler.GetPhotoURL)

			// Workout plan management
			trainerGroup.POST("/plans", planHandler.CreatePlan)
			trainerGroup.GET("/plans", planHandler.GetPlans)
			trainerGroup.GET("/plans/:planId", planHandler.GetPlanByID)
			trainerGroup.PUT("/plans/:planId", planHandler.UpdatePlan)
			trainerGroup.DELETE("/plans/:planId", planHandler.DeactivatePlan)

			// Plan exercise slots
			trainerGroup.POST("/plans/:planId/exercises", planHandler.AddExerciseToPlan)
			trainerGroup.GET("/plans/:planId/exercises", planHandler.GetPlanExercises)
			trainerGroup.GET("/plans/:planId/days", planHandler.GetPlanDays)
			trainerGroup.PUT("/plan-exercises/:planExerciseId", planHandler.UpdatePlanExercise)
			trainerGroup.DELETE("/plan-exercises/:planExerciseId", planHandler.RemovePlanExercise)
		}

		// --- Student Portal Routes ---
		portalGroup := protected.Group("/portal")
		portalGroup.Use(RoleMiddleware(domain.RoleStudent))
		{
			portalGroup.GET("/dashboard", portalHandler.GetDashboard)
			portalGroup.GET("/plans", portalHandler.GetMyPlans)
			portalGroup.GET("/plans/:planId/days", portalHandler.GetMyPlanDays)
			portalGroup.GET("/progress", portalHandler.GetMyProgress)
			portalGroup.GET("/progress/chart", portalHandler.GetMyChartSeries)
			portalGroup.GET("/plan-exercises/:planExerciseId/grid", portalHandler.GetSetGrid)
			portalGroup.POST("/plan-exercises/:planExerciseId/executions", portalHandler.RecordExecution)
			portalGroup.GET("/plan-exercises/:planExerciseId/executions", portalHandler.GetExerciseExecutions)
			portalGroup.GET("/executions", portalHandler.GetExecutionHistory)
		}
	}
}
