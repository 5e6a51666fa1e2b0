package sqlxrepos

import (
	"strings"

	"github.com/trezcool/elimu/core"
)

// orderingClause renders an ORDER BY clause from the provided orderings,
// falling back to deflt (eg. "created_at DESC") when none are provided.
// Ordering fields are validated upstream against each api's allowed set.
func orderingClause(ordering []core.DBOrdering, deflt string) string {
	if len(ordering) == 0 {
		if deflt == "" {
			return ""
		}
		return " ORDER BY " + deflt
	}
	parts := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		parts = append(parts, ord.String())
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
