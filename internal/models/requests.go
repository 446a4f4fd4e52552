package models

import (
	"strings"

	"paper_catalog_go_backend/internal/openalex"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 200
	MaxListLimit       = 1000
)

// ListQuery carries the paging parameters of GET /papers.
type ListQuery struct {
	Skip  int `form:"skip,default=0"`
	Limit int `form:"limit,default=100"`
}

func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Skip, validation.Min(0)),
		validation.Field(&q.Limit, validation.Required.Error("must be no less than 1"), validation.Min(1), validation.Max(MaxListLimit)),
	)
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit"`
}

func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query,
			validation.Required.Error("query is required"),
			validation.By(notBlank),
		),
		validation.Field(&r.Limit, validation.NilOrNotEmpty.Error("must be no less than 1"), validation.Min(1), validation.Max(MaxSearchLimit)),
	)
}

// EffectiveLimit applies the default when the caller sent no limit.
func (r *SearchRequest) EffectiveLimit() int {
	if r.Limit == nil {
		return DefaultSearchLimit
	}
	return *r.Limit
}

type SearchResponse struct {
	Results []openalex.Work `json:"results"`
	Count   int             `json:"count"`
}

// ImportRequest is the body of POST /papers/from-openalex.
type ImportRequest struct {
	OpenAlexID string `json:"openalex_id"`
	Notes      string `json:"notes"`
}

func (r ImportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OpenAlexID,
			validation.Required.Error("openalex_id is required"),
			validation.By(notBlank),
		),
	)
}

// NormalizedID trims surrounding whitespace from the OpenAlex id.
func (r *ImportRequest) NormalizedID() string {
	return strings.TrimSpace(r.OpenAlexID)
}
