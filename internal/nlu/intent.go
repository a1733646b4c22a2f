package nlu

import (
	"strings"

	"github.com/jobdeck/jobdeck-assistant/internal/filters"
)

// Intent is the classified purpose of a user utterance.
type Intent string

const (
	IntentUpdateFilters Intent = "update_filters"
	IntentSearchJobs    Intent = "search_jobs"
	IntentProductHelp   Intent = "product_help"
	IntentResetFilters  Intent = "reset_filters"
	IntentGeneralQuery  Intent = "general_query"
)

// Normalize lowercases and trims an intent value coming from an untrusted
// source, such as a model reply. The result is not guaranteed to be one of
// the known intents; dispatch treats anything unknown as product help.
func Normalize(raw string) Intent {
	return Intent(strings.ToLower(strings.TrimSpace(raw)))
}

// Known reports whether the intent is one of the five supported variants.
func (i Intent) Known() bool {
	switch i {
	case IntentUpdateFilters, IntentSearchJobs, IntentProductHelp, IntentResetFilters, IntentGeneralQuery:
		return true
	}
	return false
}

// Classification is the outcome of intent detection, whichever classifier
// produced it. Filters is nil unless the utterance changed the filter state.
type Classification struct {
	Intent   Intent
	Filters  *filters.State
	Response string
}
