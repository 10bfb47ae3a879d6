package sweep

import "time"

const day = 24 * time.Hour

// AgeInDays returns the whole days between now and midnight of commitDate's calendar day,
// taken in now's location. Only the date of commitDate matters, so a commit made late in
// the evening counts as made at midnight; the result can be off by one near time zone
// boundaries. A commit date in the future yields 0.
func AgeInDays(now, commitDate time.Time) int {
	midnight := time.Date(commitDate.Year(), commitDate.Month(), commitDate.Day(), 0, 0, 0, 0, now.Location())
	age := int(now.Sub(midnight) / day)
	if age < 0 {
		return 0
	}
	return age
}

// IsStale reports whether a branch of the given age exceeds the threshold. A branch exactly
// threshold days old is kept.
func IsStale(ageDays, thresholdDays int) bool {
	return ageDays > thresholdDays
}
