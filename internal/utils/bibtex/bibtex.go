package bibtex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"paper_catalog_go_backend/internal/models"

	"github.com/nickng/bibtex"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const doiPrefix = "https://doi.org/"

var citeKeyCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Build converts catalog papers into a BibTeX database, one @article per paper.
func Build(papers []models.Paper) *bibtex.BibTex {
	bib := bibtex.NewBibTex()
	for i := range papers {
		bib.AddEntry(entryFor(&papers[i]))
	}
	return bib
}

// Format renders papers as BibTeX text.
func Format(papers []models.Paper) string {
	return Build(papers).PrettyString()
}

func entryFor(p *models.Paper) *bibtex.BibEntry {
	entry := bibtex.NewBibEntry("article", CiteKey(p))
	entry.AddField("title", fieldValue(p.Title))

	if authors := AuthorList(p.Authors); authors != "" {
		entry.AddField("author", fieldValue(authors))
	}
	if p.Year != nil {
		entry.AddField("year", fieldValue(strconv.Itoa(*p.Year)))
	}
	if p.Abstract != nil && *p.Abstract != "" {
		entry.AddField("abstract", fieldValue(*p.Abstract))
	}
	if p.URL != nil && *p.URL != "" {
		entry.AddField("url", fieldValue(*p.URL))
		if strings.HasPrefix(*p.URL, doiPrefix) {
			entry.AddField("doi", fieldValue(strings.TrimPrefix(*p.URL, doiPrefix)))
		}
	}
	if p.Notes != nil && *p.Notes != "" {
		entry.AddField("note", fieldValue(*p.Notes))
	}
	return entry
}

func fieldValue(value string) bibtex.BibConst {
	return bibtex.NewBibConst(Escape(value))
}

// Escape makes free text safe inside a braced BibTeX value: backslashes are
// spelled out and braces without a partner are dropped, so every value is
// balanced.
func Escape(value string) string {
	value = strings.ReplaceAll(value, `\`, `\textbackslash{}`)

	drop := make(map[int]bool)
	var open []int
	for i, r := range value {
		switch r {
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				drop[i] = true
				continue
			}
			open = open[:len(open)-1]
		}
	}
	for _, i := range open {
		drop[i] = true
	}
	if len(drop) == 0 {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))
	for i, r := range value {
		if !drop[i] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CiteKey is <first author surname><year>_<id>, or paper<id> when there is no
// usable author.
func CiteKey(p *models.Paper) string {
	surname := firstSurname(p.Authors)
	if surname == "" {
		return fmt.Sprintf("paper%d", p.ID)
	}
	year := ""
	if p.Year != nil {
		year = strconv.Itoa(*p.Year)
	}
	return fmt.Sprintf("%s%s_%d", surname, year, p.ID)
}

// AuthorList turns the catalog's comma separated author string into BibTeX's
// "A and B" form.
func AuthorList(authors *string) string {
	if authors == nil {
		return ""
	}
	var names []string
	for _, name := range strings.Split(*authors, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, " and ")
}

func firstSurname(authors *string) string {
	if authors == nil {
		return ""
	}
	first, _, _ := strings.Cut(*authors, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 || strings.EqualFold(first, "Unknown") {
		return ""
	}
	return citeKeyCleaner.ReplaceAllString(strings.ToLower(foldASCII(fields[len(fields)-1])), "")
}

// foldASCII strips combining marks, so "Müller" becomes "Muller".
func foldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
