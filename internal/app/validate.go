package app

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ivybridge/internal/core"
)

// Validate parses the target's descriptor and, when settings are
// configured, validates those too. Unlike Configurations it treats a
// missing descriptor as an error.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	target, err := s.resolveTarget(req.Target)
	if err != nil {
		return ValidateResult{}, err
	}
	if target.Descriptor == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("module %s has no ivy file configured", target.Module))
	}

	settings, err := s.loadSettings(target.Settings)
	if err != nil {
		return ValidateResult{}, err
	}
	if target.Settings != "" {
		if err := core.NewSettingsCompiler().Validate(ctx, settings); err != nil {
			return ValidateResult{}, err
		}
	}

	engine, err := s.buildEngine(target.Module, settings)
	if err != nil {
		return ValidateResult{}, err
	}
	descriptor, err := core.ParseDescriptor(target.Descriptor, engine, s.Parser)
	if err != nil {
		return ValidateResult{}, err
	}

	log.Ctx(ctx).Info().
		Str("organisation", descriptor.Info.Organisation).
		Str("module", descriptor.Info.Module).
		Str("revision", descriptor.Info.Revision).
		Msg("descriptor is valid")
	return ValidateResult{
		Organisation:   descriptor.Info.Organisation,
		Module:         descriptor.Info.Module,
		Revision:       descriptor.Info.Revision,
		Configurations: len(descriptor.Configurations),
		Dependencies:   len(descriptor.Dependencies),
	}, nil
}
