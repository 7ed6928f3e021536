package providers

import (
	"github.com/samber/do/v2"

	"github.com/readnextapp/readnext-server/internal/bot"
	"github.com/readnextapp/readnext-server/internal/config"
	"github.com/readnextapp/readnext-server/internal/logger"
	"github.com/readnextapp/readnext-server/internal/roles"
	"github.com/readnextapp/readnext-server/internal/service"
	"github.com/readnextapp/readnext-server/internal/validation"
)

// ProvideRoleGate provides the chair role gate.
func ProvideRoleGate(i do.Injector) (*roles.Gate, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Club.ChairRoleID == "" {
		log.Warn("No chair role configured - prioritization is disabled for everyone")
	}
	return roles.NewGate(cfg.Club.ChairRoleID), nil
}

// ProvideValidator provides the input validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSuggestionService provides the suggestion catalog service.
func ProvideSuggestionService(i do.Injector) (*service.SuggestionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	gate := do.MustInvoke[*roles.Gate](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSuggestionService(storeHandle.Store, gate, validator, log.Logger), nil
}

// ProvideDispatcher provides the interaction dispatcher.
func ProvideDispatcher(i do.Injector) (*bot.Dispatcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	svc := do.MustInvoke[*service.SuggestionService](i)
	gate := do.MustInvoke[*roles.Gate](i)
	log := do.MustInvoke[*logger.Logger](i)

	return bot.NewDispatcher(svc, gate, cfg.Club, log.Logger), nil
}
