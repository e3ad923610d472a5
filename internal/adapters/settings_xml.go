package adapters

import (
	"encoding/xml"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/ports"
	"ivybridge/internal/types"
)

// SettingsXMLAdapter loads ivysettings-style files declaring caches,
// resolvers, and triggers.
type SettingsXMLAdapter struct{}

func NewSettingsXMLAdapter() SettingsXMLAdapter {
	return SettingsXMLAdapter{}
}

type ivySettingsXML struct {
	XMLName  xml.Name            `xml:"ivysettings"`
	Settings ivySettingsAttrsXML `xml:"settings"`
	Caches   ivyCachesXML        `xml:"caches"`
	Triggers []ivyTriggerXML     `xml:"triggers>log"`
	Chains   []ivyChainXML       `xml:"resolvers>chain"`
	FileRes  []ivyResolverXML    `xml:"resolvers>filesystem"`
	URLRes   []ivyResolverXML    `xml:"resolvers>url"`
}

type ivySettingsAttrsXML struct {
	DefaultResolver        string `xml:"defaultResolver,attr"`
	DefaultConflictManager string `xml:"defaultConflictManager,attr"`
}

type ivyCachesXML struct {
	DefaultCacheDir string `xml:"defaultCacheDir,attr"`
}

type ivyTriggerXML struct {
	Name   string `xml:"name,attr"`
	Event  string `xml:"event,attr"`
	Filter string `xml:"filter,attr"`
}

type ivyResolverXML struct {
	Name     string        `xml:"name,attr"`
	Root     string        `xml:"root,attr"`
	Ivy      ivyPatternXML `xml:"ivy"`
	Artifact ivyPatternXML `xml:"artifact"`
}

type ivyPatternXML struct {
	Pattern string `xml:"pattern,attr"`
}

type ivyChainXML struct {
	Name      string            `xml:"name,attr"`
	Resolvers []ivyChainRefsXML `xml:"resolver"`
}

type ivyChainRefsXML struct {
	Ref string `xml:"ref,attr"`
}

func (a SettingsXMLAdapter) Load(path string) (types.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Settings{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("settings file not found").
			WithCause(err)
	}
	var raw ivySettingsXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return types.Settings{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse settings xml").
			WithCause(err)
	}

	settings := types.Settings{
		DefaultResolver: strings.TrimSpace(raw.Settings.DefaultResolver),
		DefaultConflict: conflictMode(raw.Settings.DefaultConflictManager),
		CacheDir:        strings.TrimSpace(raw.Caches.DefaultCacheDir),
	}
	for _, resolver := range raw.FileRes {
		settings.Resolvers = append(settings.Resolvers, types.ResolverConfig{
			Name:            strings.TrimSpace(resolver.Name),
			Kind:            types.ResolverKindFile,
			Root:            strings.TrimSpace(resolver.Root),
			IvyPattern:      strings.TrimSpace(resolver.Ivy.Pattern),
			ArtifactPattern: strings.TrimSpace(resolver.Artifact.Pattern),
		})
	}
	for _, resolver := range raw.URLRes {
		settings.Resolvers = append(settings.Resolvers, types.ResolverConfig{
			Name:            strings.TrimSpace(resolver.Name),
			Kind:            types.ResolverKindURL,
			IvyPattern:      strings.TrimSpace(resolver.Ivy.Pattern),
			ArtifactPattern: strings.TrimSpace(resolver.Artifact.Pattern),
		})
	}
	for _, chain := range raw.Chains {
		config := types.ResolverConfig{
			Name: strings.TrimSpace(chain.Name),
			Kind: types.ResolverKindChain,
		}
		for _, ref := range chain.Resolvers {
			if trimmed := strings.TrimSpace(ref.Ref); trimmed != "" {
				config.Chain = append(config.Chain, trimmed)
			}
		}
		settings.Resolvers = append(settings.Resolvers, config)
	}
	for _, trigger := range raw.Triggers {
		settings.Triggers = append(settings.Triggers, types.TriggerConfig{
			Name:   strings.TrimSpace(trigger.Name),
			Event:  types.EventType(strings.TrimSpace(trigger.Event)),
			Filter: strings.TrimSpace(trigger.Filter),
		})
	}
	return settings, nil
}

func conflictMode(value string) types.ConflictMode {
	if strings.EqualFold(strings.TrimSpace(value), string(types.ConflictModeStrict)) {
		return types.ConflictModeStrict
	}
	return types.ConflictModeLatestRevision
}

var _ ports.SettingsPort = SettingsXMLAdapter{}
