package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"ivybridge/internal/ports"
	"ivybridge/internal/types"
)

type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

func (a OutputFileAdapter) WriteResolveReport(report types.ResolveReport) error {
	path, err := a.ensurePath("resolve-report.yaml")
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode resolve report").
			WithCause(err)
	}
	return os.WriteFile(path, data, 0644)
}

func (a OutputFileAdapter) WriteLock(entries []types.LockEntry) error {
	path, err := a.ensurePath("ivy.lock")
	if err != nil {
		return err
	}
	ordered := append([]types.LockEntry(nil), entries...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Organisation != ordered[j].Organisation {
			return ordered[i].Organisation < ordered[j].Organisation
		}
		return ordered[i].Module < ordered[j].Module
	})
	var lines []string
	for _, entry := range ordered {
		lines = append(lines, fmt.Sprintf("%s#%s=%s", entry.Organisation, entry.Module, entry.Revision))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

func (a OutputFileAdapter) WriteClasspath(paths []string) error {
	path, err := a.ensurePath("classpath")
	if err != nil {
		return err
	}
	ordered := append([]string(nil), paths...)
	sort.Strings(ordered)
	return os.WriteFile(path, []byte(strings.Join(ordered, "\n")+"\n"), 0644)
}

func (a OutputFileAdapter) ensurePath(name string) (string, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, name), nil
}

var _ ports.OutputPort = OutputFileAdapter{}
