package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"ivybridge/internal/core"
)

// Configurations extracts the configuration set from the target's
// descriptor. A missing or unconfigured descriptor is reported through
// the Missing flag rather than an error; only malformed XML fails.
func (s Service) Configurations(ctx context.Context, req ConfigurationsRequest) (ConfigurationsResult, error) {
	target, err := s.resolveTarget(req.Target)
	if err != nil {
		return ConfigurationsResult{}, err
	}
	result := ConfigurationsResult{Module: target.Module, Descriptor: target.Descriptor}
	if target.Descriptor == "" {
		log.Ctx(ctx).Debug().Str("module", target.Module).Msg("no descriptor configured")
		result.Missing = true
		return result, nil
	}

	settings, err := s.loadSettings(target.Settings)
	if err != nil {
		return ConfigurationsResult{}, err
	}
	engine, err := s.buildEngine(target.Module, settings)
	if err != nil {
		return ConfigurationsResult{}, err
	}

	confs, err := core.LoadConfigurations(target.Descriptor, engine, s.Parser)
	if err != nil {
		return ConfigurationsResult{}, err
	}
	if confs == nil {
		result.Missing = true
		return result, nil
	}
	for _, conf := range confs {
		result.Configurations = append(result.Configurations, ConfigurationSummary{
			Name:        conf.Name,
			Visibility:  conf.Visibility,
			Description: conf.Description,
			Extends:     conf.Extends,
		})
	}
	return result, nil
}
