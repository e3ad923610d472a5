package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ivybridge/internal/types"
)

type recordingListener struct {
	name   string
	events []types.Event
}

func (l *recordingListener) Name() string { return l.name }

func (l *recordingListener) OnEvent(event types.Event) {
	l.events = append(l.events, event)
}

func TestParseFilterEmptyMatchesEverything(t *testing.T) {
	filter, err := ParseFilter(types.EventPostResolve, "")
	require.NoError(t, err)
	assert.True(t, filter.Matches(types.NewEvent(types.EventPostResolve, map[string]string{"module": "x"})))
	assert.False(t, filter.Matches(types.NewEvent(types.EventPreResolve, nil)))
}

func TestParseFilterTerms(t *testing.T) {
	filter, err := ParseFilter(types.EventPostDownloadArtifact, "organisation=org.apache.*,module=ivy*")
	require.NoError(t, err)

	matching := types.NewEvent(types.EventPostDownloadArtifact, map[string]string{
		"organisation": "org.apache.commons",
		"module":       "ivy-core",
	})
	assert.True(t, filter.Matches(matching))

	wrongModule := types.NewEvent(types.EventPostDownloadArtifact, map[string]string{
		"organisation": "org.apache.commons",
		"module":       "ant",
	})
	assert.False(t, filter.Matches(wrongModule))

	missingAttribute := types.NewEvent(types.EventPostDownloadArtifact, map[string]string{
		"organisation": "org.apache.commons",
	})
	assert.False(t, filter.Matches(missingAttribute))
}

func TestParseFilterLeadingGlob(t *testing.T) {
	filter, err := ParseFilter("", "module=*core")
	require.NoError(t, err)
	assert.True(t, filter.Matches(types.NewEvent(types.EventPreResolve, map[string]string{"module": "app-core"})))
	assert.False(t, filter.Matches(types.NewEvent(types.EventPreResolve, map[string]string{"module": "corelib"})))
}

func TestParseFilterInvalidTerm(t *testing.T) {
	_, err := ParseFilter("", "not-a-term")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestEventManagerDispatch(t *testing.T) {
	manager := NewEventManager()
	all := &recordingListener{name: "all"}
	filtered := &recordingListener{name: "filtered"}

	manager.Subscribe(all, Filter{})
	filter, err := ParseFilter(types.EventPostResolve, "")
	require.NoError(t, err)
	manager.Subscribe(filtered, filter)
	assert.Equal(t, 2, manager.ListenerCount())

	manager.Publish(types.NewEvent(types.EventPreResolve, map[string]string{"module": "a"}))
	manager.Publish(types.NewEvent(types.EventPostResolve, map[string]string{"module": "a"}))

	assert.Len(t, all.events, 2)
	require.Len(t, filtered.events, 1)
	assert.Equal(t, types.EventPostResolve, filtered.events[0].Type)
}
