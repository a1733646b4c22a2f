// Package dialog runs one assistant turn: intent detection, a single
// terminal handler keyed by the detected intent, and nothing else. There is
// no conversation memory here; the caller owns the filter state and passes
// it back in on the next turn.
package dialog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jobdeck/jobdeck-assistant/internal/ai"
	"github.com/jobdeck/jobdeck-assistant/internal/filters"
	"github.com/jobdeck/jobdeck-assistant/internal/knowledge"
	"github.com/jobdeck/jobdeck-assistant/internal/nlu"
)

const (
	// FallbackPrefix marks a message produced by the deterministic
	// classifier because the model path was unavailable or failed.
	FallbackPrefix = "⚠️ AI temporarily unavailable — "

	noModelGeneralAnswer = "I can help with job searches, resumes, interviews, and career advice. Ask me about career topics!"
	busyApology          = "⚠️ AI is temporarily busy — I can still help with filters and job search."
)

// Action is the machine-readable half of a turn result. Filters ride along
// only for the intents that change them.
type Action struct {
	Type    nlu.Intent     `json:"type"`
	Filters *filters.State `json:"filters,omitempty"`
}

// Result is what a single turn produces. It is always structured: failures
// upstream are absorbed into fallback or apology messages, never surfaced
// as errors.
type Result struct {
	Message  string         `json:"message"`
	Action   Action         `json:"action"`
	Filters  *filters.State `json:"filters"`
	Fallback bool           `json:"fallback,omitempty"`
}

// Engine dispatches dialog turns. A nil resolver is a supported mode: every
// turn then runs through the rule-based classifier and is flagged as
// fallback.
type Engine struct {
	resolver *ai.Resolver
	kb       *knowledge.Base
	logger   *zap.Logger
}

func NewEngine(resolver *ai.Resolver, kb *knowledge.Base, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		resolver: resolver,
		kb:       kb,
		logger:   log,
	}
}

// Run executes one turn. It never returns an error: a model that cannot be
// reached degrades to the rule-based classifier, a model that cannot be
// understood degrades to an apology, and everything else is a normal result.
func (e *Engine) Run(ctx context.Context, input string, current *filters.State) *Result {
	if e.resolver == nil {
		return e.fallback(input, current)
	}

	cls, err := e.resolver.Resolve(ctx, input, current)
	if err != nil {
		e.logger.Warn("model path failed, classifying by rules",
			zap.String("error_category", errorCategory(err)),
			zap.Error(err),
		)
		return e.fallback(input, current)
	}

	return e.dispatch(ctx, input, cls)
}

// fallback classifies deterministically and returns the classifier's own
// result with the message prefixed. Action and filters are exactly what the
// classifier produced; only the message and the flag differ.
func (e *Engine) fallback(input string, current *filters.State) *Result {
	cls := nlu.Classify(input, current)

	res := &Result{
		Message:  FallbackPrefix + cls.Response,
		Action:   actionFor(cls),
		Filters:  cls.Filters,
		Fallback: true,
	}
	res.Message = format(res.Message, input)
	return res
}

// dispatch routes a classification to exactly one terminal handler. Unknown
// intent values land on product_help.
func (e *Engine) dispatch(ctx context.Context, input string, cls nlu.Classification) *Result {
	res := &Result{}

	switch cls.Intent {
	case nlu.IntentUpdateFilters, nlu.IntentSearchJobs:
		res.Message = cls.Response
		if res.Message == "" {
			res.Message = nlu.UpdatedPrefix + filters.Summarize(cls.Filters)
		}
		res.Action = Action{Type: cls.Intent, Filters: cls.Filters}
		res.Filters = cls.Filters

	case nlu.IntentResetFilters:
		res.Message = cls.Response
		if res.Message == "" {
			res.Message = nlu.ResetConfirmation
		}
		res.Action = Action{Type: nlu.IntentResetFilters}
		res.Filters = cls.Filters

	case nlu.IntentGeneralQuery:
		res.Message = e.generalAnswer(ctx, input)
		res.Action = Action{Type: nlu.IntentGeneralQuery}

	default:
		res.Message = cls.Response
		res.Action = Action{Type: nlu.IntentProductHelp}
		res.Filters = cls.Filters
	}

	res.Message = format(res.Message, input)
	return res
}

// generalAnswer resolves an off-domain question: bundled knowledge first,
// then a free-form model completion, then a static message. Filter state is
// never touched on this path.
func (e *Engine) generalAnswer(ctx context.Context, input string) string {
	if e.kb != nil {
		if results := e.kb.Search(input); len(results) > 0 {
			return results[0].Answer
		}
	}

	if e.resolver == nil {
		return noModelGeneralAnswer
	}

	answer, err := e.resolver.Answer(ctx, input)
	if err != nil || answer == "" {
		e.logger.Warn("free-form completion failed", zap.Error(err))
		return busyApology
	}
	return answer
}

func actionFor(cls nlu.Classification) Action {
	switch cls.Intent {
	case nlu.IntentUpdateFilters, nlu.IntentSearchJobs:
		return Action{Type: cls.Intent, Filters: cls.Filters}
	case nlu.IntentResetFilters, nlu.IntentGeneralQuery:
		return Action{Type: cls.Intent}
	default:
		return Action{Type: nlu.IntentProductHelp}
	}
}

// errorCategory inspects the invocation error for logging. Every category
// takes the identical fallback path; the label exists only so operators can
// tell quota pressure from flaky networking.
func errorCategory(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return "quota"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	default:
		return "other"
	}
}
