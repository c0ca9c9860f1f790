package executor

import (
	"strings"

	"stacks-crowdfund-go/internal/models"
)

// errorPatterns maps known substrings of ledger and wallet errors to categories.
// First match wins. Anything unmatched is reported as unknown with the raw message.
var errorPatterns = []struct {
	pattern  string
	category models.ErrorCategory
}{
	{"err u102", models.CategoryCampaignNotInitialized},
	{"broadcasting", models.CategoryBroadcastFailure},
	{"cancelled", models.CategoryUserCancelled},
}

// Classify returns the user-facing category for a dispatch error
func Classify(err error) models.ErrorCategory {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(msg, p.pattern) {
			return p.category
		}
	}
	return models.CategoryOf(err)
}
