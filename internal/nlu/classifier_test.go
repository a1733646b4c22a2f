package nlu

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jobdeck/jobdeck-assistant/internal/filters"
)

func TestClassifyShortcutCascade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		intent   Intent
		contains string
	}{
		{"greeting", "hi", IntentProductHelp, "What do you want to do?"},
		{"greeting with tail", "hello there", IntentProductHelp, "What do you want to do?"},
		{"resume", "can you review my resume", IntentProductHelp, "resume improvements"},
		{"cv alias", "help with my cv", IntentProductHelp, "resume improvements"},
		{"cover letter", "write me a cover letter", IntentProductHelp, "cover letter"},
		{"interview", "prepare me for an interview", IntentProductHelp, "interview practice"},
		{"salary", "how do I negotiate salary", IntentProductHelp, "salary range"},
		{"career transition", "I want to switch careers", IntentProductHelp, "transition plan"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tc.input, nil)
			if got.Intent != tc.intent {
				t.Fatalf("intent = %q, want %q", got.Intent, tc.intent)
			}
			if !strings.Contains(got.Response, tc.contains) {
				t.Fatalf("response %q does not contain %q", got.Response, tc.contains)
			}
		})
	}
}

func TestClassifyReset(t *testing.T) {
	t.Parallel()

	current := &filters.State{Role: "react developer", WorkMode: "remote", Skills: []string{"react"}}

	for _, input := range []string{"clear all filters", "reset my filters", "remove all filters please"} {
		got := Classify(input, current)
		if got.Intent != IntentResetFilters {
			t.Fatalf("Classify(%q) intent = %q, want %q", input, got.Intent, IntentResetFilters)
		}
		if got.Response != ResetConfirmation {
			t.Fatalf("Classify(%q) response = %q, want %q", input, got.Response, ResetConfirmation)
		}
		if !got.Filters.IsZero() {
			t.Fatalf("Classify(%q) filters not reset: %+v", input, got.Filters)
		}
	}
}

func TestClassifyResetBeatsOtherShortcuts(t *testing.T) {
	t.Parallel()

	// "remove all filters" also mentions nothing from the help topics, but
	// "reset career filters" would match the transition rule if order broke.
	got := Classify("reset career filters", nil)
	if got.Intent != IntentResetFilters {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentResetFilters)
	}
}

func TestClassifyFilterExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  filters.State
	}{
		{
			name:  "remote react jobs",
			input: "remote react jobs",
			want: filters.State{
				Role:       "react",
				Skills:     []string{"react"},
				DatePosted: filters.DateAny,
				WorkMode:   "remote",
				MatchScore: filters.MatchAll,
			},
		},
		{
			name:  "full-time python in Bangalore",
			input: "full-time python jobs in Bangalore",
			want: filters.State{
				Role:       "python",
				Skills:     []string{"python"},
				DatePosted: filters.DateAny,
				JobType:    "full-time",
				Location:   "Bangalore",
				MatchScore: filters.MatchAll,
			},
		},
		{
			name:  "compound role with date and match",
			input: "high match data scientist roles from the past week",
			want: filters.State{
				Role:       "data scientist",
				Skills:     []string{},
				DatePosted: filters.DateWeek,
				MatchScore: filters.MatchHigh,
			},
		},
		{
			name:  "explicit role setter wins",
			input: "set my title to staff engineer",
			want: filters.State{
				Role:       "staff engineer",
				Skills:     []string{},
				DatePosted: filters.DateAny,
				MatchScore: filters.MatchAll,
			},
		},
		{
			name:  "hybrid contract",
			input: "hybrid contract positions posted today",
			want: filters.State{
				Skills:     []string{},
				DatePosted: filters.DateDay,
				JobType:    "contract",
				WorkMode:   "hybrid",
				MatchScore: filters.MatchAll,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tc.input, nil)
			if got.Intent != IntentUpdateFilters {
				t.Fatalf("intent = %q, want %q", got.Intent, IntentUpdateFilters)
			}
			if !reflect.DeepEqual(*got.Filters, tc.want) {
				t.Fatalf("filters = %+v, want %+v", *got.Filters, tc.want)
			}
			wantResponse := UpdatedPrefix + filters.Summarize(got.Filters)
			if got.Response != wantResponse {
				t.Fatalf("response = %q, want %q", got.Response, wantResponse)
			}
		})
	}
}

func TestClassifyExtractionMergesWithCurrent(t *testing.T) {
	t.Parallel()

	current := &filters.State{Role: "react developer", Skills: []string{"react"}, WorkMode: "remote"}
	got := Classify("only full-time please", current)

	if got.Intent != IntentUpdateFilters {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentUpdateFilters)
	}
	if got.Filters.Role != "react developer" || got.Filters.WorkMode != "remote" {
		t.Fatalf("existing fields lost: %+v", got.Filters)
	}
	if got.Filters.JobType != "full-time" {
		t.Fatalf("jobType not applied: %+v", got.Filters)
	}
	// Caller's state must not be mutated.
	if current.JobType != "" {
		t.Fatalf("caller state mutated: %+v", current)
	}
}

func TestClassifyGeneralQuery(t *testing.T) {
	t.Parallel()

	tests := []string{
		"what is the capital of France",
		"explain photosynthesis",
		"tell me a joke",
	}

	for _, input := range tests {
		got := Classify(input, nil)
		if got.Intent != IntentGeneralQuery {
			t.Fatalf("Classify(%q) intent = %q, want %q", input, got.Intent, IntentGeneralQuery)
		}
		if got.Filters != nil {
			t.Fatalf("Classify(%q) should not carry filters, got %+v", input, got.Filters)
		}
	}
}

func TestClassifyJobQuestionStaysOnDomain(t *testing.T) {
	t.Parallel()

	// Interrogative but clearly about jobs: must not be shipped off to the
	// general-answer path.
	got := Classify("what does a recruiter look for in an applicant", nil)
	if got.Intent != IntentProductHelp {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentProductHelp)
	}
}

func TestClassifyProductHelpFallback(t *testing.T) {
	t.Parallel()

	got := Classify("something about my work situation", nil)
	if got.Intent != IntentProductHelp {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentProductHelp)
	}
	if !strings.Contains(got.Response, "I can help with") {
		t.Fatalf("unexpected response: %q", got.Response)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Intent
	}{
		{"update_filters", IntentUpdateFilters},
		{"  Search_Jobs  ", IntentSearchJobs},
		{"RESET_FILTERS", IntentResetFilters},
		{"", Intent("")},
		{"made_up", Intent("made_up")},
	}

	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if Intent("made_up").Known() {
		t.Fatal("unexpected known intent")
	}
	if !IntentGeneralQuery.Known() {
		t.Fatal("general_query should be known")
	}
}
