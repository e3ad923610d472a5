package app

import (
	"io"
	"os"
	"time"

	"ivybridge/internal/adapters"
	"ivybridge/internal/ports"
)

type Service struct {
	SettingsLoader ports.SettingsPort
	Parser         ports.DescriptorParserPort
	Workspace      ports.WorkspacePort
	Console        io.Writer
	Clock          func() time.Time
}

func NewService() Service {
	return Service{
		SettingsLoader: adapters.NewSettingsXMLAdapter(),
		Parser:         adapters.NewDescriptorXMLAdapter(),
		Workspace:      adapters.NewWorkspaceAdapter(),
		Console:        os.Stdout,
		Clock:          time.Now,
	}
}
