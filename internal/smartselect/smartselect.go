// Package smartselect implements C7: an ordered, narrowing rule engine
// that recommends which members of a duplicate group to delete.
// Grounded on the ordered-check idiom of the teacher's
// file_copy.go isDestinationTheSame (a sequence of conditions, first
// match wins) generalized into a list of composable rules.
package smartselect

import (
	"regexp"
	"strings"

	"photocore/internal/models"
)

// Rule splits members into a preferred subset and everything else. A
// Rule that would leave either subset empty is skipped by Select (spec §4.7).
type Rule func(members []*models.LogicalPhoto) (preferred, other []*models.LogicalPhoto)

var yearFolderPattern = regexp.MustCompile(`/Camera Uploads/(\d{4})/`)
var humanDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// DefaultRules is the ordered rule list from spec §4.7.
var DefaultRules = []Rule{
	organizedYearFolderRule,
	humanDateNamedRule,
	insideCameraUploadsRule,
}

func organizedYearFolderRule(members []*models.LogicalPhoto) (preferred, other []*models.LogicalPhoto) {
	return split(members, func(p *models.LogicalPhoto) bool {
		return yearFolderPattern.MatchString(p.Primary.Path)
	})
}

func humanDateNamedRule(members []*models.LogicalPhoto) (preferred, other []*models.LogicalPhoto) {
	return split(members, func(p *models.LogicalPhoto) bool {
		return humanDatePattern.MatchString(p.Primary.Name)
	})
}

func insideCameraUploadsRule(members []*models.LogicalPhoto) (preferred, other []*models.LogicalPhoto) {
	return split(members, func(p *models.LogicalPhoto) bool {
		return strings.Contains(p.Primary.Path, "/Dropbox/Camera Uploads/")
	})
}

func split(members []*models.LogicalPhoto, matches func(*models.LogicalPhoto) bool) (preferred, other []*models.LogicalPhoto) {
	for _, m := range members {
		if matches(m) {
			preferred = append(preferred, m)
		} else {
			other = append(other, m)
		}
	}
	return preferred, other
}

// Select walks DefaultRules over each group's members, narrowing the
// surviving candidates and accumulating everything a rule pushed out
// into the deletion recommendation.
func Select(groups []models.DuplicateGroup) map[string]bool {
	toDelete := make(map[string]bool)

	for _, group := range groups {
		surviving := append([]*models.LogicalPhoto{}, group.Members...)

		for _, rule := range DefaultRules {
			preferred, other := rule(surviving)
			if len(preferred) == 0 || len(other) == 0 {
				continue // rule did not split the group, skip it
			}

			for _, m := range other {
				toDelete[m.ID] = true
			}
			surviving = preferred
		}
	}

	return toDelete
}

// SafetyCheck returns the count of groups whose every member is selected
// for deletion — such a group would erase all copies of that content and
// must be surfaced as a blocking warning to the caller.
func SafetyCheck(groups []models.DuplicateGroup, selected map[string]bool) int {
	unsafe := 0
	for _, group := range groups {
		allSelected := true
		for _, m := range group.Members {
			if !selected[m.ID] {
				allSelected = false
				break
			}
		}
		if allSelected {
			unsafe++
		}
	}
	return unsafe
}
