package api

import (
	"net/http"

	apperrors "paper_catalog_go_backend/internal/errors"
	"paper_catalog_go_backend/internal/models"
	"paper_catalog_go_backend/internal/openalex"
	"paper_catalog_go_backend/internal/services"

	"github.com/gin-gonic/gin"
)

func searchHandler(searcher services.WorkSearcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.SearchRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New422Error(err))
			return
		}
		if err := request.Validate(); err != nil {
			apperrors.HandleError(c, apperrors.New422Error(err))
			return
		}

		works, err := searcher.Search(c.Request.Context(), request.Query, request.EffectiveLimit())
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		if works == nil {
			works = []openalex.Work{}
		}

		c.JSON(http.StatusOK, models.SearchResponse{Results: works, Count: len(works)})
	}
}
