package openalex

import (
	"net/url"
	"sort"
	"strings"
)

// Work is an OpenAlex work reduced to the catalog's record shape. It is never
// stored as-is.
type Work struct {
	OpenAlexID   string  `json:"openalex_id"`
	Title        *string `json:"title"`
	Authors      string  `json:"authors"`
	Year         *int    `json:"year"`
	Abstract     *string `json:"abstract"`
	URL          *string `json:"url"`
	CitedByCount int     `json:"cited_by_count"`
}

type worksPage struct {
	Results []rawWork `json:"results"`
}

type rawWork struct {
	ID                    string           `json:"id"`
	DOI                   *string          `json:"doi"`
	Title                 *string          `json:"title"`
	PublicationYear       *int             `json:"publication_year"`
	Abstract              *string          `json:"abstract"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	CitedByCount          *int             `json:"cited_by_count"`
	Authorships           []rawAuthorship  `json:"authorships"`
}

type rawAuthorship struct {
	Author *struct {
		DisplayName *string `json:"display_name"`
	} `json:"author"`
}

const unknownAuthor = "Unknown"

// normalize maps the raw work. maxAuthors <= 0 keeps every author.
func (w rawWork) normalize(maxAuthors int) Work {
	work := Work{
		OpenAlexID: w.ID,
		Title:      w.Title,
		Authors:    joinAuthors(w.Authorships, maxAuthors),
		Year:       w.PublicationYear,
		Abstract:   w.abstract(),
		URL:        preferredURL(w.DOI, w.ID),
	}
	if w.CitedByCount != nil {
		work.CitedByCount = *w.CitedByCount
	}
	return work
}

func joinAuthors(authorships []rawAuthorship, maxAuthors int) string {
	if maxAuthors > 0 && len(authorships) > maxAuthors {
		authorships = authorships[:maxAuthors]
	}
	names := make([]string, 0, len(authorships))
	for _, a := range authorships {
		name := unknownAuthor
		if a.Author != nil && a.Author.DisplayName != nil {
			name = *a.Author.DisplayName
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// preferredURL picks the DOI and falls back to the work's own id URL.
func preferredURL(doi *string, id string) *string {
	if doi != nil && *doi != "" {
		return doi
	}
	if id != "" {
		return &id
	}
	return nil
}

func (w rawWork) abstract() *string {
	if w.Abstract != nil {
		return w.Abstract
	}
	return rebuildAbstract(w.AbstractInvertedIndex)
}

// rebuildAbstract lays the words of an inverted index back out by position.
func rebuildAbstract(index map[string][]int) *string {
	if len(index) == 0 {
		return nil
	}

	type placed struct {
		pos  int
		word string
	}
	var words []placed
	for word, positions := range index {
		for _, pos := range positions {
			words = append(words, placed{pos: pos, word: word})
		}
	}
	if len(words) == 0 {
		return nil
	}
	sort.Slice(words, func(i, j int) bool { return words[i].pos < words[j].pos })

	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.word
	}
	text := strings.Join(parts, " ")
	return &text
}

// WorkID turns an OpenAlex id or id URL into the bare identifier.
// "https://openalex.org/W123" and "W123" both yield "W123".
func WorkID(externalID string) string {
	externalID = strings.TrimSpace(externalID)
	u, err := url.Parse(externalID)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return externalID
	}
	p := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
