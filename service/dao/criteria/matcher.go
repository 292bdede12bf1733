package criteria

import (
	"strings"

	"github.com/govindrajpootecosoul/trackflow/service/dao"
)

// FilterByStatus evaluates a "Status" parameter against a task's working
// status. A value prefixed with '!' excludes that status. Unknown parameter
// names match everything so that stores stay forward compatible.
func FilterByStatus(status string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != "Status" {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			if !matchStatus(status, actual) {
				return false
			}
		case []string:
			matched := false
			for _, candidate := range actual {
				if matchStatus(status, candidate) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}

func matchStatus(status, expr string) bool {
	if negated, ok := strings.CutPrefix(expr, "!"); ok {
		return !strings.EqualFold(status, negated)
	}
	return strings.EqualFold(status, expr)
}
