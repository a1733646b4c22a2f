package nlu

import (
	"regexp"
	"strings"

	"github.com/jobdeck/jobdeck-assistant/internal/filters"
)

// The deterministic classifier. It is the whole engine when no model
// credential is configured and the safety net when the model call fails,
// so it has to produce the same structural outcomes as the model path.
//
// Evaluation order is a contract: the cascade of terminal shortcuts runs
// first, first match wins; only when no shortcut fires does the classifier
// fall through to filter-fragment extraction and the general-query tail.

const (
	// ResetConfirmation is the canned message for a filter reset. The
	// dispatcher relies on this exact text, so keep them in sync.
	ResetConfirmation = "✔ Filters cleared."

	// UpdatedPrefix starts every filter-change confirmation.
	UpdatedPrefix = "✔ Filters updated: "
)

type rule struct {
	name    string
	match   func(input string) bool
	respond func(input string, current *filters.State) Classification
}

var (
	resetVerbRe  = regexp.MustCompile(`clear|reset|remove all`)
	resetNounRe  = regexp.MustCompile(`filters?`)
	greetingRe   = regexp.MustCompile(`^(hi|hello|hey|good morning|good evening)\b`)
	resumeRe     = regexp.MustCompile(`resume|cv`)
	coverRe      = regexp.MustCompile(`cover letter`)
	interviewRe  = regexp.MustCompile(`interview`)
	salaryRe     = regexp.MustCompile(`salary|compensation|negotiat`)
	transitionRe = regexp.MustCompile(`career|switch|transition`)

	interrogativeRe = regexp.MustCompile(`^(what|who|when|where|why|how|explain|describe|define|is|are|do|does|can|could|should|would|will)\b`)
	jobDomainRe     = regexp.MustCompile(`job|work|career|resume|salary|interview|company|position|role|apply|hiring|recruit|applicant|intern`)
	// jobRelatedRe is wider than jobDomainRe on purpose: a question may dodge
	// the interrogative check yet still be clearly off-domain.
	jobRelatedRe = regexp.MustCompile(`job|work|career|resume|cv|interview|salary|compensation|application|apply|hiring|recruiter|position|role|experience|skill|company|employer|employee`)
)

// cascade lists the terminal shortcuts in priority order. Each entry returns
// immediately without falling through, so reordering changes behavior.
var cascade = []rule{
	{
		name: "reset",
		match: func(input string) bool {
			return resetVerbRe.MatchString(input) && resetNounRe.MatchString(input)
		},
		respond: func(_ string, _ *filters.State) Classification {
			return Classification{
				Intent:   IntentResetFilters,
				Filters:  filters.Defaults(),
				Response: ResetConfirmation,
			}
		},
	},
	{
		name:    "greeting",
		match:   greetingRe.MatchString,
		respond: help("Hi. What do you want to do?"),
	},
	{
		name:    "resume_help",
		match:   resumeRe.MatchString,
		respond: help("Share your role and experience level, and I can suggest resume improvements."),
	},
	{
		name:    "cover_letter_help",
		match:   coverRe.MatchString,
		respond: help("Tell me the job title and company. I can draft a cover letter."),
	},
	{
		name:    "interview_help",
		match:   interviewRe.MatchString,
		respond: help("Tell me the role and company. I can run interview practice questions."),
	},
	{
		name:    "salary_help",
		match:   salaryRe.MatchString,
		respond: help("Tell me the role, location, and experience level. I can suggest a salary range and negotiation tips."),
	},
	{
		name:    "career_transition_help",
		match:   transitionRe.MatchString,
		respond: help("Tell me your current role and target role. I can outline a transition plan."),
	},
}

func help(message string) func(string, *filters.State) Classification {
	return func(_ string, _ *filters.State) Classification {
		return Classification{Intent: IntentProductHelp, Response: message}
	}
}

// Classify resolves the utterance deterministically: shortcut cascade first,
// then non-exclusive filter extraction, then the general-query check, and
// finally a generic product-help answer listing supported topics.
func Classify(raw string, current *filters.State) Classification {
	input := strings.ToLower(strings.TrimSpace(raw))

	for _, r := range cascade {
		if r.match(input) {
			return r.respond(input, current)
		}
	}

	extracted, found := extract(strings.TrimSpace(raw), input)
	if found {
		merged := filters.Merge(current, extracted)
		return Classification{
			Intent:   IntentUpdateFilters,
			Filters:  merged,
			Response: UpdatedPrefix + filters.Summarize(merged),
		}
	}

	generalQuestion := interrogativeRe.MatchString(input) && !jobDomainRe.MatchString(input)
	if generalQuestion || !jobRelatedRe.MatchString(input) {
		return Classification{
			Intent:   IntentGeneralQuery,
			Response: "Let me answer that for you.",
		}
	}

	return Classification{
		Intent:   IntentProductHelp,
		Response: "I can help with jobs, resumes, interviews, cover letters, salary, and career plans.",
	}
}
