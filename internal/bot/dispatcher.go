package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/readnextapp/readnext-server/internal/config"
	"github.com/readnextapp/readnext-server/internal/domain"
	domainerrors "github.com/readnextapp/readnext-server/internal/errors"
	"github.com/readnextapp/readnext-server/internal/interaction"
	"github.com/readnextapp/readnext-server/internal/render"
	"github.com/readnextapp/readnext-server/internal/roles"
	"github.com/readnextapp/readnext-server/internal/service"
	"github.com/readnextapp/readnext-server/internal/title"
	"github.com/readnextapp/readnext-server/internal/workflow"
)

// Flow names; each selection flow's menu custom ID is "<name>-menu".
const (
	flowEdit       = "edit"
	flowRemove     = "remove"
	flowPrioritize = "prioritize"
)

// Dispatcher routes gateway events to the catalog core. It owns the custom
// ID vocabulary: every surface it hands out carries an action the next event
// routes on, because no state survives between events.
type Dispatcher struct {
	service      *service.SuggestionService
	runner       *workflow.Runner
	logger       *slog.Logger
	displayLimit int
}

// NewDispatcher wires the selection flows and returns a ready dispatcher.
func NewDispatcher(svc *service.SuggestionService, gate *roles.Gate, cfg config.ClubConfig, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		service:      svc,
		logger:       logger,
		displayLimit: cfg.DisplayTitleLimit,
	}

	chairOnly := func(actor *domain.Member) error {
		if !gate.IsChair(actor) {
			return domainerrors.Unauthorized("only the chair may prioritize suggestions")
		}
		return nil
	}

	defs := []workflow.Definition{
		{
			Name:       flowEdit,
			Prompt:     "Pick a suggestion to edit",
			Candidates: d.ownCandidates,
			Apply:      d.applyEdit,
		},
		{
			Name:       flowRemove,
			Prompt:     "Pick a suggestion to remove",
			Candidates: d.ownCandidates,
			Apply:      d.applyRemove,
		},
		{
			Name:        flowPrioritize,
			Prompt:      "Pick the suggestions to prioritize",
			MultiSelect: true,
			Authorize:   chairOnly,
			Candidates:  d.prioritizeCandidates,
			Apply:       d.applyPrioritize,
		},
	}
	d.runner = workflow.NewRunner(defs, d.summarize, cfg.MenuOptionLimit, logger)
	return d
}

// Handle answers one gateway event.
func (d *Dispatcher) Handle(ctx context.Context, event *interaction.Event) (*interaction.Response, error) {
	action, payload := interaction.ParseCustomID(event.CustomID)

	switch event.Type {
	case interaction.EventButton:
		switch action {
		case interaction.ActionAdd:
			return directives(interaction.ShowForm(interaction.AddForm())), nil
		case interaction.ActionEdit, interaction.ActionRemove, interaction.ActionPrioritize:
			return d.runner.OpenMenu(ctx, action, &event.Member)
		}
	case interaction.EventMenuSubmit:
		flow, isMenu := strings.CutSuffix(action, "-menu")
		if isMenu {
			return d.runner.Submit(ctx, flow, payload, &event.Member, event.Values)
		}
	case interaction.EventFormSubmit:
		switch action {
		case interaction.ActionAddForm:
			return d.handleAddForm(ctx, event)
		case interaction.ActionEditForm:
			return d.handleEditForm(ctx, event, payload)
		}
	}

	d.logger.Warn("unrecognized interaction",
		"type", event.Type,
		"custom_id", event.CustomID,
		"member_id", event.Member.ID,
	)
	return nil, domainerrors.InvalidInputf("unrecognized interaction %s/%s", event.Type, event.CustomID)
}

func (d *Dispatcher) summarize(ctx context.Context) (string, error) {
	suggestions, err := d.service.ListAll(ctx)
	if err != nil {
		return "", err
	}
	return render.Summary(suggestions, d.displayLimit), nil
}

// ownCandidates lists the actor's suggestions as menu options. An empty
// list is fine; the menu just has nothing to pick.
func (d *Dispatcher) ownCandidates(ctx context.Context, actor *domain.Member) ([]interaction.MenuOption, error) {
	mine, err := d.service.ListMine(ctx, actor)
	if err != nil {
		return nil, err
	}
	options := make([]interaction.MenuOption, 0, len(mine))
	for _, sug := range mine {
		options = append(options, interaction.MenuOption{
			Label: title.Abbreviate(sug.Title, d.displayLimit),
			Value: sug.Key,
		})
	}
	return options, nil
}

// prioritizeCandidates lists the whole catalog, pre-checking the entries
// that are currently prioritized so an unchanged submission is a no-op.
func (d *Dispatcher) prioritizeCandidates(ctx context.Context, _ *domain.Member) ([]interaction.MenuOption, error) {
	all, err := d.service.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]interaction.MenuOption, 0, len(all))
	for _, sug := range all {
		options = append(options, interaction.MenuOption{
			Label:   title.Abbreviate(sug.Title, d.displayLimit),
			Value:   sug.Key,
			Default: sug.IsPrioritized,
		})
	}
	return options, nil
}

// applyEdit answers an edit-menu pick with the pre-filled edit form. The
// actual mutation happens when that form comes back.
func (d *Dispatcher) applyEdit(ctx context.Context, actor *domain.Member, values []string) (*workflow.Applied, error) {
	if len(values) == 0 {
		return &workflow.Applied{}, nil
	}
	sug, err := d.service.Get(ctx, values[0])
	if err != nil {
		if msg, ok := userMessage(err); ok {
			return &workflow.Applied{
				Failures: []workflow.ItemFailure{{Value: values[0], Reason: msg}},
			}, nil
		}
		return nil, err
	}
	if sug.OwnerID != actor.ID {
		return nil, domainerrors.Unauthorized("only the owner may edit a suggestion")
	}
	form := interaction.ShowForm(interaction.EditForm(sug))
	return &workflow.Applied{Followup: &form}, nil
}

func (d *Dispatcher) applyRemove(ctx context.Context, actor *domain.Member, values []string) (*workflow.Applied, error) {
	applied := &workflow.Applied{}
	for _, key := range values {
		if err := d.service.Remove(ctx, actor, key); err != nil {
			msg, ok := userMessage(err)
			if !ok {
				return nil, err
			}
			applied.Failures = append(applied.Failures, workflow.ItemFailure{Value: key, Reason: msg})
		}
	}
	return applied, nil
}

func (d *Dispatcher) applyPrioritize(ctx context.Context, actor *domain.Member, values []string) (*workflow.Applied, error) {
	missing, err := d.service.Prioritize(ctx, actor, values)
	if err != nil {
		return nil, err
	}
	applied := &workflow.Applied{}
	for _, key := range missing {
		applied.Failures = append(applied.Failures, workflow.ItemFailure{
			Value:  key,
			Reason: "no longer in the catalog",
		})
	}
	return applied, nil
}

// handleAddForm creates a suggestion from the add form. A rejected input
// answers with the reason and the form re-opened with the member's values
// intact, so nothing typed is lost.
func (d *Dispatcher) handleAddForm(ctx context.Context, event *interaction.Event) (*interaction.Response, error) {
	in := service.AddInputFromFields(event.Fields)
	if _, err := d.service.Create(ctx, &event.Member, in); err != nil {
		if msg, ok := userMessage(err); ok {
			return directives(
				interaction.Notice(msg),
				interaction.ShowForm(interaction.RefilledAddForm(event.Fields)),
			), nil
		}
		return nil, err
	}
	return d.renderedSummary(ctx)
}

// handleEditForm applies the edit form to the suggestion keyed in the
// custom ID payload.
func (d *Dispatcher) handleEditForm(ctx context.Context, event *interaction.Event, key string) (*interaction.Response, error) {
	in := service.EditInputFromFields(event.Fields)
	if _, err := d.service.Edit(ctx, &event.Member, key, in); err != nil {
		if msg, ok := userMessage(err); ok {
			return directives(
				interaction.Notice(msg),
				interaction.ShowForm(interaction.RefilledEditForm(key, event.Fields)),
			), nil
		}
		return nil, err
	}
	return d.renderedSummary(ctx)
}

func (d *Dispatcher) renderedSummary(ctx context.Context) (*interaction.Response, error) {
	summary, err := d.summarize(ctx)
	if err != nil {
		return nil, err
	}
	return directives(interaction.UpdateSummary(summary)), nil
}

func directives(ds ...interaction.Directive) *interaction.Response {
	return &interaction.Response{Directives: ds}
}

// userMessage reports whether an error is the member's to fix, and with
// what wording. Anything else is an internal failure the gateway should
// not surface verbatim.
func userMessage(err error) (string, bool) {
	var derr *domainerrors.Error
	if !domainerrors.As(err, &derr) {
		return "", false
	}
	switch derr.Code {
	case domainerrors.CodeInvalidInput, domainerrors.CodeDuplicateTitle,
		domainerrors.CodeNotFound, domainerrors.CodeUnauthorized:
		return derr.Message, true
	}
	return "", false
}
