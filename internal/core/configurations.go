package core

import (
	"os"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/ports"
	"ivybridge/internal/types"
)

// ParseDescriptor parses the ivy file at path inside a scoped engine
// context. The context is popped on every exit path. The caller is
// responsible for checking that the file exists.
func ParseDescriptor(path string, engine *Engine, parser ports.DescriptorParserPort) (types.ModuleDescriptor, error) {
	engine.Log.Info().Str("file", path).Msg("parsing ivy file")
	engine.PushContext()
	defer engine.PopContext()
	return parser.Parse(path)
}

// LoadConfigurations extracts the configurations declared in the ivy
// file at path, ordered by case-insensitive name with case-insensitive
// duplicates collapsed to the first declaration.
//
// A missing path or a directory yields (nil, nil): no result, not an
// error. A malformed file yields a syntax error the caller can surface
// to the user. Any other parse failure is logged and swallowed,
// because this operation runs speculatively (configuration pickers)
// against files that are often mid-edit.
func LoadConfigurations(path string, engine *Engine, parser ports.DescriptorParserPort) ([]types.Configuration, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, nil
	}
	descriptor, err := ParseDescriptor(path, engine, parser)
	if err != nil {
		if errbuilder.CodeOf(err) == errbuilder.CodeInvalidArgument {
			return nil, err
		}
		// I/O and semantic failures both land here; only malformed
		// markup is worth interrupting the caller for.
		engine.Log.Info().Err(err).Str("file", path).
			Msg("error while parsing ivy file during attempt to load configurations")
		return nil, nil
	}

	seen := map[string]bool{}
	var configurations []types.Configuration
	for _, conf := range descriptor.Configurations {
		key := strings.ToLower(conf.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		configurations = append(configurations, conf)
	}
	sort.SliceStable(configurations, func(i, j int) bool {
		return strings.ToLower(configurations[i].Name) < strings.ToLower(configurations[j].Name)
	})
	return configurations, nil
}
