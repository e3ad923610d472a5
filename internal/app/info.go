package app

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/core"
)

// Info returns the full descriptor summary: identity, configurations,
// dependencies, and publications.
func (s Service) Info(ctx context.Context, req InfoRequest) (InfoResult, error) {
	target, err := s.resolveTarget(req.Target)
	if err != nil {
		return InfoResult{}, err
	}
	if target.Descriptor == "" {
		return InfoResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("module %s has no ivy file configured", target.Module))
	}

	settings, err := s.loadSettings(target.Settings)
	if err != nil {
		return InfoResult{}, err
	}
	engine, err := s.buildEngine(target.Module, settings)
	if err != nil {
		return InfoResult{}, err
	}
	descriptor, err := core.ParseDescriptor(target.Descriptor, engine, s.Parser)
	if err != nil {
		return InfoResult{}, err
	}

	result := InfoResult{
		Organisation: descriptor.Info.Organisation,
		Module:       descriptor.Info.Module,
		Revision:     descriptor.Info.Revision,
		Status:       descriptor.Info.Status,
	}
	for _, conf := range descriptor.Configurations {
		result.Configurations = append(result.Configurations, ConfigurationSummary{
			Name:        conf.Name,
			Visibility:  conf.Visibility,
			Description: conf.Description,
			Extends:     conf.Extends,
		})
	}
	for _, dep := range descriptor.Dependencies {
		result.Dependencies = append(result.Dependencies, InfoDependency{
			Organisation: dep.Organisation,
			Module:       dep.Module,
			Revision:     dep.Revision,
			Transitive:   dep.Transitive,
		})
	}
	for _, artifact := range descriptor.Publications {
		result.Publications = append(result.Publications, InfoArtifact{
			Name: artifact.Name,
			Type: artifact.Type,
			Ext:  artifact.Ext,
		})
	}
	return result, nil
}
