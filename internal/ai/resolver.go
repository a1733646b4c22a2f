package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jobdeck/jobdeck-assistant/internal/filters"
	"github.com/jobdeck/jobdeck-assistant/internal/logger"
	"github.com/jobdeck/jobdeck-assistant/internal/nlu"
)

//go:embed prompt.md
var promptTemplate string

// ParseApology is shown when the model replied with something that cannot be
// validated against the intent schema. This is a distinct user-visible
// outcome, not a fallback to the rule-based classifier.
const ParseApology = "I couldn't read that. Try again with a shorter request."

const answerPreamble = "You are a helpful AI assistant. Answer this question clearly and concisely:\n\n"

const defaultMaxLogLength = 200

// Resolver turns an utterance into a Classification by round-tripping a
// structured prompt through the configured model. Invocation failures are
// returned to the caller (which falls back to the deterministic classifier);
// malformed replies are absorbed into an apology result.
type Resolver struct {
	completer Completer
	logger    *zap.Logger
	maxLogLen int
}

// NewResolver wires a Resolver around the given completer.
func NewResolver(completer Completer, log *zap.Logger, maxLogLength int) *Resolver {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Resolver{
		completer: completer,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Resolve classifies the input against the caller's current filter state.
// A non-nil error means the model could not be invoked at all.
func (r *Resolver) Resolve(ctx context.Context, input string, current *filters.State) (nlu.Classification, error) {
	prompt := buildPrompt(input)

	r.logger.Debug("intent prompt request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		return nlu.Classification{}, fmt.Errorf("complete intent prompt: %w", err)
	}

	r.logger.Debug("intent prompt response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
	)

	reply, err := parseReply(raw)
	if err != nil {
		r.logger.Warn("discarding malformed model reply", zap.Error(err))
		return nlu.Classification{
			Intent:   nlu.IntentProductHelp,
			Response: ParseApology,
		}, nil
	}

	intent := nlu.Normalize(reply.Intent)
	if intent == "" {
		intent = nlu.IntentProductHelp
		if !reply.Filters.IsZero() {
			intent = nlu.IntentUpdateFilters
		}
	}

	if intent == nlu.IntentResetFilters {
		// Any filters in the payload are ignored: reset is deterministic.
		return nlu.Classification{
			Intent:   nlu.IntentResetFilters,
			Filters:  filters.Reset(),
			Response: nlu.ResetConfirmation,
		}, nil
	}

	merged := filters.Merge(current, reply.Filters)

	response := reply.Response
	if intent == nlu.IntentUpdateFilters || intent == nlu.IntentSearchJobs {
		// The model's own confirmation prose is dropped on purpose: only
		// the canonical summary is guaranteed to match the merged state.
		response = nlu.UpdatedPrefix + filters.Summarize(merged)
	}

	return nlu.Classification{
		Intent:   intent,
		Filters:  merged,
		Response: response,
	}, nil
}

// Answer runs the free-form completion used when the knowledge base has no
// match for a general query.
func (r *Resolver) Answer(ctx context.Context, input string) (string, error) {
	reply, err := r.completer.Complete(ctx, answerPreamble+input)
	if err != nil {
		return "", fmt.Errorf("complete general answer: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// Provider reports the backing provider name for logging.
func (r *Resolver) Provider() string {
	return r.completer.Provider()
}

// Model reports the backing model name for logging.
func (r *Resolver) Model() string {
	return r.completer.Model()
}

func buildPrompt(input string) string {
	return strings.ReplaceAll(promptTemplate, "{{INPUT}}", input)
}

type modelReply struct {
	Intent   string
	Filters  *filters.State
	Response string
}

// parseReply validates the model text against the intent schema. Everything
// the model sends is untrusted: the reply must be JSON (code fences are
// tolerated and stripped), the filters object must decode into the typed
// state, and every enum field must hold a known value.
func parseReply(raw string) (*modelReply, error) {
	cleaned := extractJSON(raw)

	var loose struct {
		Intent   string         `json:"intent"`
		Filters  map[string]any `json:"filters"`
		Response string         `json:"response"`
	}
	if err := json.Unmarshal([]byte(cleaned), &loose); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}

	parsed, err := decodeFilters(loose.Filters)
	if err != nil {
		return nil, err
	}

	return &modelReply{
		Intent:   loose.Intent,
		Filters:  parsed,
		Response: strings.TrimSpace(loose.Response),
	}, nil
}

func decodeFilters(raw map[string]any) (*filters.State, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var out filters.State
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("build filters decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode model filters: %w", err)
	}

	checks := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"datePosted", out.DatePosted, []string{filters.DateAny, filters.DateDay, filters.DateWeek, filters.DateMonth}},
		{"jobType", out.JobType, []string{"full-time", "part-time", "contract", "internship"}},
		{"workMode", out.WorkMode, []string{"remote", "hybrid", "on-site"}},
		{"matchScore", out.MatchScore, []string{filters.MatchAll, filters.MatchHigh, filters.MatchMedium}},
	}
	for _, check := range checks {
		if err := ensureEnum(check.field, check.value, check.allowed); err != nil {
			return nil, err
		}
	}

	return &out, nil
}

func ensureEnum(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return fmt.Errorf("model filters: %s has unsupported value %q", field, value)
}

// extractJSON strips markdown code fences the model may wrap its JSON in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
