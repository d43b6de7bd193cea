package service

import (
	"strings"

	"voicetasks/internal/model"
)

// FindTaskByName locates the task best matching searchName among tasks,
// tolerating imprecise phrasing. Rules apply in strict priority order and
// the first one that matches wins; ties go to the first task in stored
// order. Returns nil when nothing matches.
func FindTaskByName(tasks []model.Task, searchName string) *model.Task {
	search := strings.ToLower(strings.TrimSpace(searchName))

	// Exact title match.
	for i := range tasks {
		if strings.TrimSpace(strings.ToLower(tasks[i].Title)) == search {
			return &tasks[i]
		}
	}

	// Title contains the search string.
	for i := range tasks {
		if strings.Contains(strings.ToLower(tasks[i].Title), search) {
			return &tasks[i]
		}
	}

	// Every search word appears somewhere in the title.
	searchWords := strings.Split(search, " ")
	for i := range tasks {
		title := strings.ToLower(tasks[i].Title)
		all := true
		for _, word := range searchWords {
			if !strings.Contains(title, word) {
				all = false
				break
			}
		}
		if all {
			return &tasks[i]
		}
	}

	// Fuzzy fallback: at least half the search words overlap some title
	// word, substring in either direction.
	for i := range tasks {
		titleWords := strings.Split(strings.ToLower(tasks[i].Title), " ")
		matched := 0
		for _, word := range searchWords {
			for _, titleWord := range titleWords {
				if strings.Contains(titleWord, word) || strings.Contains(word, titleWord) {
					matched++
					break
				}
			}
		}
		if matched >= (len(searchWords)+1)/2 {
			return &tasks[i]
		}
	}

	return nil
}
