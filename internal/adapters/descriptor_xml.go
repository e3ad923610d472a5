package adapters

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ivybridge/internal/ports"
	"ivybridge/internal/types"
)

// DescriptorXMLAdapter parses ivy.xml files. Parsed descriptors are
// cached per path keyed on the file's modification time, so repeated
// speculative parses (UI pickers, validation) stay cheap.
type DescriptorXMLAdapter struct {
	mu    sync.Mutex
	cache map[string]descriptorCacheEntry
}

func NewDescriptorXMLAdapter() *DescriptorXMLAdapter {
	return &DescriptorXMLAdapter{cache: map[string]descriptorCacheEntry{}}
}

type descriptorCacheEntry struct {
	modTime    time.Time
	descriptor types.ModuleDescriptor
}

type ivyModuleXML struct {
	XMLName        xml.Name      `xml:"ivy-module"`
	Version        string        `xml:"version,attr"`
	Info           ivyInfoXML    `xml:"info"`
	Configurations []ivyConfXML  `xml:"configurations>conf"`
	Publications   []ivyArtifact `xml:"publications>artifact"`
	Dependencies   []ivyDepXML   `xml:"dependencies>dependency"`
}

type ivyInfoXML struct {
	Organisation string `xml:"organisation,attr"`
	Module       string `xml:"module,attr"`
	Revision     string `xml:"revision,attr"`
	Status       string `xml:"status,attr"`
	Publication  string `xml:"publication,attr"`
}

type ivyConfXML struct {
	Name        string `xml:"name,attr"`
	Visibility  string `xml:"visibility,attr"`
	Description string `xml:"description,attr"`
	Extends     string `xml:"extends,attr"`
	Transitive  string `xml:"transitive,attr"`
	Deprecated  string `xml:"deprecated,attr"`
}

type ivyArtifact struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
	Ext  string `xml:"ext,attr"`
	Conf string `xml:"conf,attr"`
}

type ivyDepXML struct {
	Org        string          `xml:"org,attr"`
	Name       string          `xml:"name,attr"`
	Rev        string          `xml:"rev,attr"`
	Conf       string          `xml:"conf,attr"`
	Transitive string          `xml:"transitive,attr"`
	Excludes   []ivyExcludeXML `xml:"exclude"`
}

type ivyExcludeXML struct {
	Org    string `xml:"org,attr"`
	Module string `xml:"module,attr"`
}

// Parse reads and decodes the ivy file at path. Malformed markup
// yields an InvalidArgument error wrapping the xml.SyntaxError cause;
// a well-formed file that violates the descriptor schema yields a
// FailedPrecondition error. Existence checks are the caller's job.
func (a *DescriptorXMLAdapter) Parse(path string) (types.ModuleDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.ModuleDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read ivy descriptor").
			WithCause(err)
	}
	a.mu.Lock()
	if entry, ok := a.cache[path]; ok && entry.modTime.Equal(info.ModTime()) {
		a.mu.Unlock()
		return entry.descriptor, nil
	}
	a.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return types.ModuleDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read ivy descriptor").
			WithCause(err)
	}
	var raw ivyModuleXML
	if err := xml.Unmarshal(content, &raw); err != nil {
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			return types.ModuleDescriptor{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("ivy descriptor syntax error").
				WithCause(err)
		}
		return types.ModuleDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode ivy descriptor").
			WithCause(err)
	}

	descriptor, err := buildDescriptor(raw)
	if err != nil {
		return types.ModuleDescriptor{}, err
	}

	a.mu.Lock()
	a.cache[path] = descriptorCacheEntry{modTime: info.ModTime(), descriptor: descriptor}
	a.mu.Unlock()
	return descriptor, nil
}

func buildDescriptor(raw ivyModuleXML) (types.ModuleDescriptor, error) {
	if strings.TrimSpace(raw.Info.Organisation) == "" || strings.TrimSpace(raw.Info.Module) == "" {
		return types.ModuleDescriptor{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("invalid ivy descriptor: info organisation and module are required")
	}

	descriptor := types.ModuleDescriptor{
		Info: types.ModuleInfo{
			Organisation: strings.TrimSpace(raw.Info.Organisation),
			Module:       strings.TrimSpace(raw.Info.Module),
			Revision:     strings.TrimSpace(raw.Info.Revision),
			Status:       strings.TrimSpace(raw.Info.Status),
			Publication:  strings.TrimSpace(raw.Info.Publication),
		},
	}

	for _, conf := range raw.Configurations {
		if strings.TrimSpace(conf.Name) == "" {
			return types.ModuleDescriptor{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("invalid ivy descriptor: configuration without a name")
		}
		descriptor.Configurations = append(descriptor.Configurations, types.Configuration{
			Name:        conf.Name,
			Visibility:  confVisibility(conf.Visibility),
			Description: conf.Description,
			Extends:     splitList(conf.Extends),
			Transitive:  boolAttr(conf.Transitive, true),
			Deprecated:  conf.Deprecated,
		})
	}
	// A descriptor without a configurations section implicitly
	// declares the single "default" configuration.
	if len(descriptor.Configurations) == 0 {
		descriptor.Configurations = []types.Configuration{{
			Name:       "default",
			Visibility: types.VisibilityPublic,
			Transitive: true,
		}}
	}
	for _, conf := range descriptor.Configurations {
		for _, parent := range conf.Extends {
			if !descriptor.HasConfiguration(parent) {
				return types.ModuleDescriptor{}, errbuilder.New().
					WithCode(errbuilder.CodeFailedPrecondition).
					WithMsg(fmt.Sprintf("invalid ivy descriptor: configuration %s extends unknown configuration %s", conf.Name, parent))
			}
		}
	}

	for _, artifact := range raw.Publications {
		descriptor.Publications = append(descriptor.Publications, types.Artifact{
			Name:  strings.TrimSpace(artifact.Name),
			Type:  defaultString(artifact.Type, "jar"),
			Ext:   defaultString(artifact.Ext, defaultString(artifact.Type, "jar")),
			Confs: splitList(artifact.Conf),
		})
	}

	for _, dep := range raw.Dependencies {
		if strings.TrimSpace(dep.Org) == "" || strings.TrimSpace(dep.Name) == "" {
			return types.ModuleDescriptor{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("invalid ivy descriptor: dependency without org or name")
		}
		dependency := types.Dependency{
			Organisation: strings.TrimSpace(dep.Org),
			Module:       strings.TrimSpace(dep.Name),
			Revision:     strings.TrimSpace(dep.Rev),
			ConfMapping:  parseConfMapping(dep.Conf),
			Transitive:   boolAttr(dep.Transitive, true),
		}
		for _, exclude := range dep.Excludes {
			dependency.Excludes = append(dependency.Excludes, types.DependencyExclude{
				Organisation: strings.TrimSpace(exclude.Org),
				Module:       strings.TrimSpace(exclude.Module),
			})
		}
		descriptor.Dependencies = append(descriptor.Dependencies, dependency)
	}

	return descriptor, nil
}

// parseConfMapping parses an ivy conf attribute. Mappings use the
// master->dependency arrow form ("compile->default;test->default");
// a bare list ("compile,runtime") maps each conf to itself; an empty
// attribute means *->*.
func parseConfMapping(value string) map[string][]string {
	mapping := map[string][]string{}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		mapping["*"] = []string{"*"}
		return mapping
	}
	for _, clause := range strings.Split(trimmed, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		left, right, found := strings.Cut(clause, "->")
		if !found {
			for _, conf := range splitList(left) {
				mapping[conf] = append(mapping[conf], conf)
			}
			continue
		}
		targets := splitList(right)
		for _, conf := range splitList(left) {
			mapping[conf] = append(mapping[conf], targets...)
		}
	}
	return mapping
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func confVisibility(value string) types.Visibility {
	if strings.EqualFold(strings.TrimSpace(value), string(types.VisibilityPrivate)) {
		return types.VisibilityPrivate
	}
	return types.VisibilityPublic
}

func boolAttr(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return fallback
	}
}

func defaultString(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

var _ ports.DescriptorParserPort = (*DescriptorXMLAdapter)(nil)
