package domain

import "strings"

// Reorder priorities, most urgent first.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

var priorityRanks = map[string]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityNormal: 2,
}

// PriorityRank returns the sort rank for a priority label.
// Unknown labels sort after normal.
func PriorityRank(priority string) int {
	if rank, ok := priorityRanks[strings.ToLower(priority)]; ok {
		return rank
	}

	return len(priorityRanks)
}

// PriorityForStatus maps an engine stock status to a reorder priority.
func PriorityForStatus(status string) string {
	switch status {
	case "critical":
		return PriorityUrgent
	case "reorder_now":
		return PriorityHigh
	default:
		return PriorityNormal
	}
}
