package models

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Paper is a bibliographic record in the catalog.
type Paper struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string  `gorm:"not null;index" json:"title"`
	Authors  *string `json:"authors"`
	Year     *int    `json:"year"`
	Abstract *string `gorm:"type:text" json:"abstract"`
	URL      *string `json:"url"`
	Notes    *string `gorm:"type:text" json:"notes"`
}

// PaperCreate is the payload accepted when a paper is added to the catalog.
type PaperCreate struct {
	Title    string  `json:"title"`
	Authors  *string `json:"authors"`
	Year     *int    `json:"year"`
	Abstract *string `json:"abstract"`
	URL      *string `json:"url"`
	Notes    *string `json:"notes"`
}

func (r PaperCreate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.By(notBlank),
		),
		validation.Field(&r.Year, validation.Min(0), validation.Max(9999)),
	)
}

// ToPaper builds an unsaved Paper; the store assigns the ID.
func (r *PaperCreate) ToPaper() *Paper {
	return &Paper{
		Title:    r.Title,
		Authors:  r.Authors,
		Year:     r.Year,
		Abstract: r.Abstract,
		URL:      r.URL,
		Notes:    r.Notes,
	}
}

// PaperUpdate is a partial update. Only fields present in the request body
// are written; an explicit null clears an optional column.
type PaperUpdate struct {
	Title    Optional[string] `json:"title"`
	Authors  Optional[string] `json:"authors"`
	Year     Optional[int]    `json:"year"`
	Abstract Optional[string] `json:"abstract"`
	URL      Optional[string] `json:"url"`
	Notes    Optional[string] `json:"notes"`
}

func (r PaperUpdate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.By(func(interface{}) error {
			if !r.Title.Present {
				return nil
			}
			if r.Title.Value == nil {
				return errors.New("title cannot be null")
			}
			return notBlank(*r.Title.Value)
		})),
		validation.Field(&r.Year, validation.By(func(interface{}) error {
			if !r.Year.Present || r.Year.Value == nil {
				return nil
			}
			return validation.Validate(*r.Year.Value, validation.Min(0), validation.Max(9999))
		})),
	)
}

// IsEmpty reports whether the update carries no fields at all.
func (r *PaperUpdate) IsEmpty() bool {
	return len(r.Columns()) == 0
}

// Columns maps each present field to its column. Absent fields are left out
// so the stored value is untouched.
func (r *PaperUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if r.Title.Present && r.Title.Value != nil {
		cols["title"] = *r.Title.Value
	}
	if r.Authors.Present {
		cols["authors"] = r.Authors.Value
	}
	if r.Year.Present {
		cols["year"] = r.Year.Value
	}
	if r.Abstract.Present {
		cols["abstract"] = r.Abstract.Value
	}
	if r.URL.Present {
		cols["url"] = r.URL.Value
	}
	if r.Notes.Present {
		cols["notes"] = r.Notes.Value
	}
	return cols
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
}
