package api

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "paper_catalog_go_backend/internal/errors"
	"paper_catalog_go_backend/internal/models"
	"paper_catalog_go_backend/internal/services"
	"paper_catalog_go_backend/internal/utils/bibtex"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const bibtexContentType = "application/x-bibtex; charset=utf-8"

// paperID parses the :id path segment. Anything that is not a non-negative
// integer is a validation failure, reported before any store access. Zero is
// never assigned, so it is answered as not found.
func paperID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return 0, apperrors.New422Error(validation.Errors{
			"id": errors.New("must be a non-negative integer"),
		})
	}
	if id == 0 {
		return 0, services.ErrPaperNotFound
	}
	return uint(id), nil
}

// bindListQuery reads skip/limit with their defaults and validates them.
func bindListQuery(c *gin.Context) (models.ListQuery, error) {
	var query models.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return query, apperrors.New422Error(err)
	}
	if err := query.Validate(); err != nil {
		return query, apperrors.New422Error(err)
	}
	return query, nil
}

func listPapersHandler(papers services.PaperServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, err := bindListQuery(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		result, err := papers.ListPapers(c.Request.Context(), query.Skip, query.Limit)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getPaperHandler(papers services.PaperServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paperID(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		paper, err := papers.GetPaper(c.Request.Context(), id)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, paper)
	}
}

func createPaperHandler(papers services.PaperServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.PaperCreate
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New422Error(err))
			return
		}
		if err := request.Validate(); err != nil {
			apperrors.HandleError(c, apperrors.New422Error(err))
			return
		}

		paper, err := papers.CreatePaper(c.Request.Context(), &request)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, paper)
	}
}

func updatePaperHandler(papers services.PaperServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paperID(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		var request models.PaperUpdate
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New422Error(err))
			return
		}
		if err := request.Validate(); err != nil {
			apperrors.HandleError(c, apperrors.New422Error(err))
			return
		}

		paper, err := papers.UpdatePaper(c.Request.Context(), id, &request)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, paper)
	}
}

func deletePaperHandler(papers services.PaperServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paperID(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		paper, err := papers.DeletePaper(c.Request.Context(), id)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, paper)
	}
}

func importPaperHandler(importer services.PaperImporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.ImportRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New422Error(err))
			return
		}
		if err := request.Validate(); err != nil {
			apperrors.HandleError(c, apperrors.New422Error(err))
			return
		}

		paper, err := importer.ImportByExternalID(c.Request.Context(), request.NormalizedID(), request.Notes)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, paper)
	}
}

func exportBibTeXHandler(papers services.PaperServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, err := bindListQuery(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		result, err := papers.ListPapers(c.Request.Context(), query.Skip, query.Limit)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="papers.bib"`)
		c.Data(http.StatusOK, bibtexContentType, []byte(bibtex.Format(result)))
	}
}
