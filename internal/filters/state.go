package filters

import "strings"

// Date-posted values accepted on the wire.
const (
	DateAny   = "any"
	DateDay   = "24h"
	DateWeek  = "week"
	DateMonth = "month"
)

// Match-score values accepted on the wire.
const (
	MatchAll    = "all"
	MatchHigh   = "high"
	MatchMedium = "medium"
)

// State is the full set of job-search constraints a user can have active.
// A State produced by this package is always fully populated: empty string
// or empty slice stands for "unset", never a missing key.
type State struct {
	Role       string   `json:"role"`
	Skills     []string `json:"skills"`
	DatePosted string   `json:"datePosted"`
	JobType    string   `json:"jobType"`
	WorkMode   string   `json:"workMode"`
	Location   string   `json:"location"`
	MatchScore string   `json:"matchScore"`
}

// Defaults returns the hard default state: everything unset, enums at their
// "any/all" values.
func Defaults() *State {
	return &State{
		Role:       "",
		Skills:     []string{},
		DatePosted: DateAny,
		JobType:    "",
		WorkMode:   "",
		Location:   "",
		MatchScore: MatchAll,
	}
}

// Reset discards whatever the caller had and returns the hard defaults.
func Reset() *State {
	return Defaults()
}

// Merge overlays incoming on top of current on top of the defaults and
// returns a new fully populated state. Empty incoming values never clobber
// an existing value, so a no-op extraction leaves current untouched.
// Skills are unioned (first-seen order kept); every other field overwrites.
// Neither argument is mutated.
func Merge(current, incoming *State) *State {
	merged := Defaults()
	if current != nil {
		overlay(merged, current)
	}
	if incoming != nil {
		overlay(merged, incoming)
	}
	return merged
}

func overlay(dst, src *State) {
	if v := strings.TrimSpace(src.Role); v != "" {
		dst.Role = v
	}
	if len(src.Skills) > 0 {
		dst.Skills = unionSkills(dst.Skills, src.Skills)
	}
	if v := strings.TrimSpace(src.DatePosted); v != "" {
		dst.DatePosted = v
	}
	if v := strings.TrimSpace(src.JobType); v != "" {
		dst.JobType = v
	}
	if v := strings.TrimSpace(src.WorkMode); v != "" {
		dst.WorkMode = v
	}
	if v := strings.TrimSpace(src.Location); v != "" {
		dst.Location = v
	}
	if v := strings.TrimSpace(src.MatchScore); v != "" {
		dst.MatchScore = v
	}
}

func unionSkills(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, list := range [][]string{existing, incoming} {
		for _, skill := range list {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			out = append(out, skill)
		}
	}
	return out
}

// Summarize renders a short human-readable line describing the state. It is
// the canonical confirmation echoed back after any filter change, so it must
// reflect the actual merged state and nothing else.
func Summarize(s *State) string {
	if s == nil {
		s = Defaults()
	}

	parts := make([]string, 0, 6)
	if s.Role != "" {
		parts = append(parts, s.Role)
	}
	if s.Location != "" {
		parts = append(parts, s.Location)
	}
	if s.WorkMode != "" {
		parts = append(parts, s.WorkMode)
	}
	if s.JobType != "" {
		parts = append(parts, s.JobType)
	}
	if s.MatchScore != "" && s.MatchScore != MatchAll {
		label := "Medium Match"
		if s.MatchScore == MatchHigh {
			label = "High Match"
		}
		parts = append(parts, label)
	}
	if s.DatePosted != "" && s.DatePosted != DateAny {
		switch s.DatePosted {
		case DateDay:
			parts = append(parts, "Last 24h")
		case DateWeek:
			parts = append(parts, "Last week")
		default:
			parts = append(parts, "Last month")
		}
	}

	if len(parts) == 0 {
		return "Filters updated"
	}
	return strings.Join(parts, " · ")
}

// Clone returns a deep copy. Handy for callers that keep a state across
// turns and must not alias the engine's return value.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Skills = append([]string{}, s.Skills...)
	return &copied
}

// IsZero reports whether nothing is set beyond the defaults.
func (s *State) IsZero() bool {
	if s == nil {
		return true
	}
	return s.Role == "" && len(s.Skills) == 0 &&
		(s.DatePosted == "" || s.DatePosted == DateAny) &&
		s.JobType == "" && s.WorkMode == "" && s.Location == "" &&
		(s.MatchScore == "" || s.MatchScore == MatchAll)
}
