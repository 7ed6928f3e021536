package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/readnextapp/readnext-server/internal/domain"
	domainerrors "github.com/readnextapp/readnext-server/internal/errors"
	"github.com/readnextapp/readnext-server/internal/id"
	"github.com/readnextapp/readnext-server/internal/interaction"
)

// Definition describes one selection flow: which candidates the actor may
// pick from, who may open it, and what happens to each picked value. The
// edit, remove, and prioritize flows are all instances of this.
type Definition struct {
	Name        string
	Prompt      string
	MultiSelect bool

	// Candidates returns the menu options offered to the actor, in display
	// order. A MultiSelect flow may mark options as pre-selected.
	Candidates func(ctx context.Context, actor *domain.Member) ([]interaction.MenuOption, error)

	// Authorize, when set, is consulted both when the menu is opened and
	// again when the selection is submitted.
	Authorize func(actor *domain.Member) error

	// Apply consumes the submitted values and performs the effect.
	Apply func(ctx context.Context, actor *domain.Member, values []string) (*Applied, error)
}

// ItemFailure records one selected value the effect could not be applied
// to. Item failures are reported without aborting the rest of the
// submission.
type ItemFailure struct {
	Value  string
	Reason string
}

// Applied is the outcome of a selection submission.
type Applied struct {
	// Followup, when set, replaces the summary re-render; the flow
	// continues in another surface (the edit flow opens a form here).
	Followup *interaction.Directive

	// Failures lists selected values that could not be applied.
	Failures []ItemFailure
}

// Summarizer produces the current catalog summary text.
type Summarizer func(ctx context.Context) (string, error)

// Runner executes selection flows by name. One runner serves every
// registered definition.
type Runner struct {
	defs        map[string]Definition
	summarize   Summarizer
	optionLimit int
	logger      *slog.Logger
}

// NewRunner creates a runner over the given definitions. optionLimit caps
// how many candidates a menu offers.
func NewRunner(defs []Definition, summarize Summarizer, optionLimit int, logger *slog.Logger) *Runner {
	byName := make(map[string]Definition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	return &Runner{
		defs:        byName,
		summarize:   summarize,
		optionLimit: optionLimit,
		logger:      logger,
	}
}

func (r *Runner) definition(name string) (Definition, error) {
	def, ok := r.defs[name]
	if !ok {
		return Definition{}, domainerrors.NotFoundf("unknown selection flow %q", name)
	}
	return def, nil
}

// OpenMenu builds the selection menu for a flow. An empty candidate list
// still yields a menu, just with nothing to pick.
func (r *Runner) OpenMenu(ctx context.Context, name string, actor *domain.Member) (*interaction.Response, error) {
	def, err := r.definition(name)
	if err != nil {
		return nil, err
	}

	if def.Authorize != nil {
		if err := def.Authorize(actor); err != nil {
			return nil, err
		}
	}

	options, err := def.Candidates(ctx, actor)
	if err != nil {
		return nil, err
	}
	if len(options) > r.optionLimit {
		r.logger.Warn("selection menu truncated",
			"flow", def.Name,
			"candidates", len(options),
			"limit", r.optionLimit,
		)
		options = options[:r.optionLimit]
	}

	token, err := id.Token()
	if err != nil {
		return nil, fmt.Errorf("generate menu token: %w", err)
	}

	// Single-select flows demand exactly one choice; only a multi-select
	// flow may submit zero values (which clears the selection).
	menu := &interaction.Menu{
		CustomID:  interaction.CustomID(def.Name+"-menu", token),
		Prompt:    def.Prompt,
		MinValues: 1,
		MaxValues: 1,
		Options:   options,
	}
	if def.MultiSelect {
		menu.MinValues = 0
		menu.MaxValues = len(options)
	}

	r.logger.Debug("selection menu opened",
		"flow", def.Name,
		"token", token,
		"options", len(options),
	)

	return &interaction.Response{
		Directives: []interaction.Directive{interaction.ShowMenu(menu)},
	}, nil
}

// Submit applies a submitted selection. Ownership and role checks run
// again here: the menu's contents are a snapshot, not an authorization.
// Per-item failures become notices, and unless the flow hands back a
// followup surface the submission always ends with a summary re-render,
// replacing the menu even when nothing applied. token is the session
// token the menu was opened with, carried for log correlation.
func (r *Runner) Submit(ctx context.Context, name, token string, actor *domain.Member, values []string) (*interaction.Response, error) {
	def, err := r.definition(name)
	if err != nil {
		return nil, err
	}

	if def.Authorize != nil {
		if err := def.Authorize(actor); err != nil {
			return nil, err
		}
	}

	applied, err := def.Apply(ctx, actor, values)
	if err != nil {
		return nil, err
	}

	resp := &interaction.Response{}
	for _, failure := range applied.Failures {
		r.logger.Debug("selection item skipped",
			"flow", def.Name,
			"token", token,
			"value", failure.Value,
			"reason", failure.Reason,
		)
		resp.Directives = append(resp.Directives,
			interaction.Notice(fmt.Sprintf("%s: %s", failure.Value, failure.Reason)))
	}
	if applied.Followup != nil {
		resp.Directives = append(resp.Directives, *applied.Followup)
		return resp, nil
	}
	summary, err := r.summarize(ctx)
	if err != nil {
		return nil, err
	}
	resp.Directives = append(resp.Directives, interaction.UpdateSummary(summary))
	return resp, nil
}
