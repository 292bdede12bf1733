package scope

import (
	"sort"
	"strings"

	"github.com/govindrajpootecosoul/trackflow/model"
)

// Sort orders tasks in place. The zero Order falls back to newest-first.
// Ties are always broken by task id so repeated listings paginate stably.
func Sort(tasks []*model.Task, order Order) {
	switch order {
	case SortAlphabetical:
		sort.Slice(tasks, func(i, j int) bool {
			a, b := strings.ToLower(tasks[i].Title), strings.ToLower(tasks[j].Title)
			if a != b {
				return a < b
			}
			return tasks[i].ID < tasks[j].ID
		})
	default:
		sort.Slice(tasks, func(i, j int) bool {
			if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
				return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
			}
			return tasks[i].ID < tasks[j].ID
		})
	}
}
