package nlu

import (
	"regexp"
	"strings"

	"github.com/jobdeck/jobdeck-assistant/internal/filters"
)

// Filter-fragment extraction. Unlike the shortcut cascade this is
// non-exclusive: one utterance may set several fields. Within a single
// field, patterns run in a fixed sequence and the last assignment wins;
// that tie-break is deliberate, e.g. an explicit "role to X" setter beats
// a looser "<tech> jobs" match earlier in the sequence.

var (
	remoteRe = regexp.MustCompile(`remote|work from home`)
	hybridRe = regexp.MustCompile(`hybrid`)
	onsiteRe = regexp.MustCompile(`on[- ]?site|onsite`)

	fullTimeRe   = regexp.MustCompile(`full[- ]?time`)
	partTimeRe   = regexp.MustCompile(`part[- ]?time`)
	contractRe   = regexp.MustCompile(`contract`)
	internshipRe = regexp.MustCompile(`intern(ship)?`)

	dateDayRe   = regexp.MustCompile(`past 24 hours|last 24h|today`)
	dateWeekRe  = regexp.MustCompile(`past week|last week`)
	dateMonthRe = regexp.MustCompile(`past month|last month`)

	matchHighRe   = regexp.MustCompile(`high match|top match`)
	matchMediumRe = regexp.MustCompile(`medium match`)

	roleCompoundRe = regexp.MustCompile(`(react|python|frontend|backend|full[- ]?stack|data|ml|machine learning|devops|designer)\s+(developer|engineer|analyst|scientist)`)
	roleListingRe  = regexp.MustCompile(`(react|python|frontend|backend|full[- ]?stack|data analyst|ml engineer|machine learning engineer|devops)\s+(jobs|roles|positions)`)
	roleSetterRe   = regexp.MustCompile(`\b(role|title)\b\s*(to|as)?\s*([a-z\s]+)$`)

	locationKeyRe = regexp.MustCompile(`location\s*[:=]?\s*([a-z\s]+)$`)
	locationInRe  = regexp.MustCompile(`\bin\s+([a-z\s]+)$`)

	spacesRe = regexp.MustCompile(`\s+`)
)

// skillTerms is the single-keyword skill list. Extend as the job corpus grows.
var skillTerms = []string{"react", "python"}

// extract pulls filter fragments out of the utterance. Keyword matching runs
// on the lower-cased input; free-text captures (role setter, location) are
// taken from the raw input so the user's casing survives into the state.
func extract(raw, input string) (*filters.State, bool) {
	out := &filters.State{}
	found := false

	if remoteRe.MatchString(input) {
		out.WorkMode, found = "remote", true
	}
	if hybridRe.MatchString(input) {
		out.WorkMode, found = "hybrid", true
	}
	if onsiteRe.MatchString(input) {
		out.WorkMode, found = "on-site", true
	}

	if fullTimeRe.MatchString(input) {
		out.JobType, found = "full-time", true
	}
	if partTimeRe.MatchString(input) {
		out.JobType, found = "part-time", true
	}
	if contractRe.MatchString(input) {
		out.JobType, found = "contract", true
	}
	if internshipRe.MatchString(input) {
		out.JobType, found = "internship", true
	}

	if dateDayRe.MatchString(input) {
		out.DatePosted, found = filters.DateDay, true
	}
	if dateWeekRe.MatchString(input) {
		out.DatePosted, found = filters.DateWeek, true
	}
	if dateMonthRe.MatchString(input) {
		out.DatePosted, found = filters.DateMonth, true
	}

	if matchHighRe.MatchString(input) {
		out.MatchScore, found = filters.MatchHigh, true
	}
	if matchMediumRe.MatchString(input) {
		out.MatchScore, found = filters.MatchMedium, true
	}

	for _, skill := range skillTerms {
		if strings.Contains(input, skill) {
			out.Skills = append(out.Skills, skill)
			found = true
		}
	}

	if m := roleCompoundRe.FindString(input); m != "" {
		out.Role, found = spacesRe.ReplaceAllString(m, " "), true
	}
	if m := roleListingRe.FindStringSubmatch(input); m != nil {
		out.Role, found = spacesRe.ReplaceAllString(m[1], " "), true
	}
	if loc := roleSetterRe.FindStringSubmatchIndex(input); loc != nil {
		if v := strings.TrimSpace(captureRaw(raw, input, loc[6], loc[7])); v != "" {
			out.Role, found = v, true
		}
	}

	locLoc := locationKeyRe.FindStringSubmatchIndex(input)
	if locLoc == nil {
		locLoc = locationInRe.FindStringSubmatchIndex(input)
	}
	if locLoc != nil {
		if v := strings.TrimSpace(captureRaw(raw, input, locLoc[2], locLoc[3])); v != "" {
			out.Location, found = v, true
		}
	}

	return out, found
}

// captureRaw maps a submatch span found on the lower-cased input back onto
// the raw input. Lowercasing can change byte length for some scripts; when
// it does, the lower-cased capture is used instead.
func captureRaw(raw, input string, start, end int) string {
	if start < 0 || end < 0 {
		return ""
	}
	if len(raw) == len(input) {
		return raw[start:end]
	}
	return input[start:end]
}
