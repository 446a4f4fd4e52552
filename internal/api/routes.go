package api

import (
	"net/http"
	"time"

	"paper_catalog_go_backend/internal/database"
	apperrors "paper_catalog_go_backend/internal/errors"
	"paper_catalog_go_backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const bannerMessage = "Research Paper Manager API"

// Dependencies are the services the HTTP layer talks to.
type Dependencies struct {
	Papers   services.PaperServiceDB
	Searcher services.WorkSearcher
	Importer services.PaperImporter
	Sessions database.SessionProvider
}

// NewRouter builds the gin engine with middleware, CORS and all routes.
func NewRouter(deps Dependencies, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	SetupRoutes(r, deps)
	return r
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	r.GET("/", rootHandler)
	r.GET("/health", healthHandler(deps.Sessions))

	papers := r.Group("/papers")
	{
		papers.GET("", listPapersHandler(deps.Papers))
		papers.POST("", createPaperHandler(deps.Papers))
		papers.POST("/from-openalex", importPaperHandler(deps.Importer))
		papers.GET("/:id", getPaperHandler(deps.Papers))
		papers.PUT("/:id", updatePaperHandler(deps.Papers))
		papers.DELETE("/:id", deletePaperHandler(deps.Papers))
	}

	r.POST("/search", searchHandler(deps.Searcher))
	r.GET("/export/bibtex", exportBibTeXHandler(deps.Papers))
}

func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": bannerMessage})
}

func healthHandler(sessions database.SessionProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), sessions); err != nil {
			apperrors.HandleError(c, apperrors.New503Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
