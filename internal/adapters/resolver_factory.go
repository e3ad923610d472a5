package adapters

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/ports"
	"ivybridge/internal/types"
)

// BuildResolvers instantiates the resolvers declared in settings.
// When a default resolver is named, only that resolver (with its chain
// delegates) is returned; otherwise every declared non-chain resolver
// is returned in declaration order.
func BuildResolvers(settings types.Settings, parser ports.DescriptorParserPort) ([]ports.Resolver, error) {
	built := map[string]ports.Resolver{}
	for _, config := range settings.Resolvers {
		switch config.Kind {
		case types.ResolverKindFile:
			built[config.Name] = NewFileRepository(config, parser)
		case types.ResolverKindURL:
			built[config.Name] = NewURLRepository(config, parser)
		case types.ResolverKindChain:
			// chains reference resolvers built above; settings
			// validation guarantees declaration order
			var delegates []ports.Resolver
			for _, ref := range config.Chain {
				delegate, ok := built[ref]
				if !ok {
					return nil, errbuilder.New().
						WithCode(errbuilder.CodeInvalidArgument).
						WithMsg(fmt.Sprintf("chain %s references unknown resolver %s", config.Name, ref))
				}
				delegates = append(delegates, delegate)
			}
			built[config.Name] = NewChainResolver(config.Name, delegates)
		default:
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unknown resolver kind: %s", config.Kind))
		}
	}

	if settings.DefaultResolver != "" {
		resolver, ok := built[settings.DefaultResolver]
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("default resolver not declared: %s", settings.DefaultResolver))
		}
		return []ports.Resolver{resolver}, nil
	}

	var resolvers []ports.Resolver
	for _, config := range settings.Resolvers {
		if config.Kind == types.ResolverKindChain {
			continue
		}
		resolvers = append(resolvers, built[config.Name])
	}
	return resolvers, nil
}
