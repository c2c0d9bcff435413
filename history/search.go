package history

import (
	"strings"

	"github.com/kljensen/snowball"

	"digestly/model"
)

// Search returns stored summaries matching the query, newest first. A record
// matches when the query appears as a substring of its title, author or
// summary, or when every stemmed query term appears stemmed in the record.
func (s *Store) Search(query string) ([]model.SummaryResult, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return records, nil
	}

	lowered := strings.ToLower(query)
	stems := stemTerms(lowered)

	var matched []model.SummaryResult
	for _, record := range records {
		if matches(&record, lowered, stems) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func matches(record *model.SummaryResult, lowered string, stems []string) bool {
	haystack := strings.ToLower(record.Title + " " + record.Author + " " + record.Summary)
	if strings.Contains(haystack, lowered) {
		return true
	}
	if len(stems) == 0 {
		return false
	}

	seen := make(map[string]bool)
	for _, word := range strings.Fields(haystack) {
		seen[stemWord(word)] = true
	}
	for _, stem := range stems {
		if !seen[stem] {
			return false
		}
	}
	return true
}

func stemTerms(query string) []string {
	var stems []string
	for _, word := range strings.Fields(query) {
		stems = append(stems, stemWord(word))
	}
	return stems
}

func stemWord(word string) string {
	stem, err := snowball.Stem(word, "english", true)
	if err != nil {
		return word
	}
	return stem
}
