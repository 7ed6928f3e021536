package workflow

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/readnextapp/readnext-server/internal/domain"
	domainerrors "github.com/readnextapp/readnext-server/internal/errors"
	"github.com/readnextapp/readnext-server/internal/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunner(t *testing.T, defs []Definition, summarize Summarizer) *Runner {
	t.Helper()
	if summarize == nil {
		summarize = func(ctx context.Context) (string, error) { return "summary", nil }
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner(defs, summarize, 25, logger)
}

func staticCandidates(options ...interaction.MenuOption) func(context.Context, *domain.Member) ([]interaction.MenuOption, error) {
	return func(context.Context, *domain.Member) ([]interaction.MenuOption, error) {
		return options, nil
	}
}

func TestOpenMenu(t *testing.T) {
	actor := &domain.Member{ID: "alice"}

	t.Run("single select", func(t *testing.T) {
		r := testRunner(t, []Definition{{
			Name:   "pick",
			Prompt: "Pick one",
			Candidates: staticCandidates(
				interaction.MenuOption{Label: "A", Value: "a"},
				interaction.MenuOption{Label: "B", Value: "b"},
			),
		}}, nil)

		resp, err := r.OpenMenu(context.Background(), "pick", actor)
		require.NoError(t, err)
		require.Len(t, resp.Directives, 1)

		d := resp.Directives[0]
		require.Equal(t, interaction.DirectiveShowMenu, d.Type)
		action, token := interaction.ParseCustomID(d.Menu.CustomID)
		assert.Equal(t, "pick-menu", action)
		assert.NotEmpty(t, token)
		assert.Equal(t, "Pick one", d.Menu.Prompt)
		assert.Equal(t, 1, d.Menu.MinValues)
		assert.Equal(t, 1, d.Menu.MaxValues)
		assert.Len(t, d.Menu.Options, 2)
	})

	t.Run("each opened menu carries a fresh token", func(t *testing.T) {
		r := testRunner(t, []Definition{{
			Name:       "pick",
			Candidates: staticCandidates(interaction.MenuOption{Label: "A", Value: "a"}),
		}}, nil)

		first, err := r.OpenMenu(context.Background(), "pick", actor)
		require.NoError(t, err)
		second, err := r.OpenMenu(context.Background(), "pick", actor)
		require.NoError(t, err)
		assert.NotEqual(t, first.Directives[0].Menu.CustomID, second.Directives[0].Menu.CustomID)
	})

	t.Run("multi select spans all options", func(t *testing.T) {
		r := testRunner(t, []Definition{{
			Name:        "flag",
			MultiSelect: true,
			Candidates: staticCandidates(
				interaction.MenuOption{Label: "A", Value: "a"},
				interaction.MenuOption{Label: "B", Value: "b", Default: true},
				interaction.MenuOption{Label: "C", Value: "c"},
			),
		}}, nil)

		resp, err := r.OpenMenu(context.Background(), "flag", actor)
		require.NoError(t, err)
		menu := resp.Directives[0].Menu
		assert.Equal(t, 0, menu.MinValues, "only a multi-select flow may submit nothing")
		assert.Equal(t, 3, menu.MaxValues)
		assert.True(t, menu.Options[1].Default)
	})

	t.Run("empty candidate list is still a menu", func(t *testing.T) {
		r := testRunner(t, []Definition{{
			Name:       "pick",
			Candidates: staticCandidates(),
		}}, nil)

		resp, err := r.OpenMenu(context.Background(), "pick", actor)
		require.NoError(t, err)
		require.Equal(t, interaction.DirectiveShowMenu, resp.Directives[0].Type)
		assert.Empty(t, resp.Directives[0].Menu.Options)
	})

	t.Run("candidates capped at option limit", func(t *testing.T) {
		options := make([]interaction.MenuOption, 30)
		for i := range options {
			options[i] = interaction.MenuOption{Label: "x", Value: "x"}
		}
		r := testRunner(t, []Definition{{
			Name:       "pick",
			Candidates: staticCandidates(options...),
		}}, nil)

		resp, err := r.OpenMenu(context.Background(), "pick", actor)
		require.NoError(t, err)
		assert.Len(t, resp.Directives[0].Menu.Options, 25)
	})

	t.Run("authorize gates the menu", func(t *testing.T) {
		r := testRunner(t, []Definition{{
			Name:       "pick",
			Candidates: staticCandidates(),
			Authorize: func(*domain.Member) error {
				return domainerrors.Unauthorized("no")
			},
		}}, nil)

		_, err := r.OpenMenu(context.Background(), "pick", actor)
		assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	})

	t.Run("unknown flow", func(t *testing.T) {
		r := testRunner(t, nil, nil)
		_, err := r.OpenMenu(context.Background(), "nope", actor)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})
}

func TestSubmit(t *testing.T) {
	actor := &domain.Member{ID: "alice"}

	t.Run("applies and re-renders", func(t *testing.T) {
		var got []string
		r := testRunner(t, []Definition{{
			Name:       "pick",
			Candidates: staticCandidates(),
			Apply: func(_ context.Context, _ *domain.Member, values []string) (*Applied, error) {
				got = values
				return &Applied{}, nil
			},
		}}, func(context.Context) (string, error) { return "fresh summary", nil })

		resp, err := r.Submit(context.Background(), "pick", "tok", actor, []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)

		require.Len(t, resp.Directives, 1)
		assert.Equal(t, interaction.DirectiveUpdateSummary, resp.Directives[0].Type)
		assert.Equal(t, "fresh summary", resp.Directives[0].Summary)
	})

	t.Run("item failures become notices, render still happens", func(t *testing.T) {
		r := testRunner(t, []Definition{{
			Name:       "pick",
			Candidates: staticCandidates(),
			Apply: func(context.Context, *domain.Member, []string) (*Applied, error) {
				return &Applied{
					Failures: []ItemFailure{{Value: "gone", Reason: "no longer listed"}},
				}, nil
			},
		}}, nil)

		resp, err := r.Submit(context.Background(), "pick", "tok", actor, []string{"gone", "kept"})
		require.NoError(t, err)
		require.Len(t, resp.Directives, 2)
		assert.Equal(t, interaction.DirectiveNotice, resp.Directives[0].Type)
		assert.Contains(t, resp.Directives[0].Notice, "no longer listed")
		assert.Equal(t, interaction.DirectiveUpdateSummary, resp.Directives[1].Type)
	})

	t.Run("re-render even when nothing applied", func(t *testing.T) {
		r := testRunner(t, []Definition{{
			Name:       "pick",
			Candidates: staticCandidates(),
			Apply: func(context.Context, *domain.Member, []string) (*Applied, error) {
				return &Applied{
					Failures: []ItemFailure{{Value: "gone", Reason: "not found"}},
				}, nil
			},
		}}, func(context.Context) (string, error) { return "unchanged summary", nil })

		resp, err := r.Submit(context.Background(), "pick", "tok", actor, []string{"gone"})
		require.NoError(t, err)
		require.Len(t, resp.Directives, 2)
		assert.Equal(t, interaction.DirectiveNotice, resp.Directives[0].Type)
		last := resp.Directives[len(resp.Directives)-1]
		assert.Equal(t, interaction.DirectiveUpdateSummary, last.Type)
		assert.Equal(t, "unchanged summary", last.Summary)
	})

	t.Run("followup replaces the re-render", func(t *testing.T) {
		form := interaction.ShowForm(&interaction.Form{CustomID: "edit-form:key", Title: "Edit"})
		r := testRunner(t, []Definition{{
			Name:       "edit",
			Candidates: staticCandidates(),
			Apply: func(context.Context, *domain.Member, []string) (*Applied, error) {
				return &Applied{Followup: &form}, nil
			},
		}}, func(context.Context) (string, error) {
			t.Fatal("summarize should not run when a followup is returned")
			return "", nil
		})

		resp, err := r.Submit(context.Background(), "edit", "tok", actor, []string{"key"})
		require.NoError(t, err)
		require.Len(t, resp.Directives, 1)
		assert.Equal(t, interaction.DirectiveShowForm, resp.Directives[0].Type)
	})

	t.Run("authorize is re-checked at submit", func(t *testing.T) {
		r := testRunner(t, []Definition{{
			Name:       "flag",
			Candidates: staticCandidates(),
			Authorize: func(*domain.Member) error {
				return domainerrors.Unauthorized("chair only")
			},
			Apply: func(context.Context, *domain.Member, []string) (*Applied, error) {
				t.Fatal("apply should not run for an unauthorized actor")
				return nil, nil
			},
		}}, nil)

		_, err := r.Submit(context.Background(), "flag", "tok", actor, []string{"a"})
		assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	})

	t.Run("apply error propagates", func(t *testing.T) {
		r := testRunner(t, []Definition{{
			Name:       "pick",
			Candidates: staticCandidates(),
			Apply: func(context.Context, *domain.Member, []string) (*Applied, error) {
				return nil, domainerrors.InvalidInput("bad value")
			},
		}}, nil)

		_, err := r.Submit(context.Background(), "pick", "tok", actor, []string{"a"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})
}
