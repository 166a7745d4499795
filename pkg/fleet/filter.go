package fleet

import (
	"strings"

	"github.com/praetorian-inc/ssmhosts/pkg/types"
)

// Filter keeps records where term is a case-insensitive substring of any
// field. An empty term returns records unchanged.
func Filter(records []types.InstanceRecord, term string) []types.InstanceRecord {
	if term == "" {
		return records
	}

	needle := strings.ToLower(term)
	matched := make([]types.InstanceRecord, 0, len(records))
	for _, record := range records {
		if matches(record, needle) {
			matched = append(matched, record)
		}
	}
	return matched
}

func matches(record types.InstanceRecord, needle string) bool {
	for _, field := range record.Fields() {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
