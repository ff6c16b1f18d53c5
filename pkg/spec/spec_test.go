package spec

import (
	"testing"

	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeFillsDefaultPhases(t *testing.T) {
	raw := model.GroupSpec{GroupName: "web", ServerSpec: model.NewServerSpec()}
	out, err := Compose(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"configure"}, out.DefaultPhases)
}

func TestComposeRejectsMissingGroupName(t *testing.T) {
	_, err := Compose(model.GroupSpec{})
	require.Error(t, err)
}

func TestComposeFillsDefaultNodeFilter(t *testing.T) {
	raw := model.GroupSpec{GroupName: "web", ServerSpec: model.NewServerSpec()}
	out, err := Compose(raw)
	require.NoError(t, err)
	require.NotNil(t, out.NodeFilter)
}

func TestComposeFlattensExtends(t *testing.T) {
	parentPhases := model.NewPhaseMap()
	parentPhases.Set("configure", model.Phase{Name: "configure"})
	parent := model.ServerSpec{Phases: parentPhases}

	childPhases := model.NewPhaseMap()
	childPhases.Set("bootstrap", model.Phase{Name: "bootstrap"})
	raw := model.GroupSpec{
		GroupName:  "web",
		ServerSpec: model.ServerSpec{Extends: []model.ServerSpec{parent}, Phases: childPhases},
	}

	out, err := Compose(raw)
	require.NoError(t, err)
	_, hasConfigure := out.Phases.Get("configure")
	_, hasBootstrap := out.Phases.Get("bootstrap")
	assert.True(t, hasConfigure)
	assert.True(t, hasBootstrap)
}

func TestOverlayPerGroupWinsOverGroupDeclared(t *testing.T) {
	groupPhases := model.NewPhaseMap()
	groupPhases.Set("configure", model.Phase{Name: "configure-from-group"})
	g := model.GroupSpec{GroupName: "web", ServerSpec: model.ServerSpec{Phases: groupPhases}}

	overlayPhases := model.NewPhaseMap()
	overlayPhases.Set("configure", model.Phase{Name: "configure-from-env"})
	env := Environment{
		Image: "ubuntu-22.04",
		Groups: map[string]model.GroupSpec{
			"web": {ServerSpec: model.ServerSpec{Phases: overlayPhases}},
		},
	}

	out := Overlay(env, g)
	phase, ok := out.Phases.Get("configure")
	require.True(t, ok)
	assert.Equal(t, "configure-from-env", phase.Name)
	assert.Equal(t, "ubuntu-22.04", out.NodeSpec.Image)
}

func TestExpandClusterPrefixesGroupNames(t *testing.T) {
	c := model.ClusterSpec{
		Name: "prod",
		Groups: []model.GroupSpec{
			{GroupName: "web", ServerSpec: model.NewServerSpec()},
			{GroupName: "db", ServerSpec: model.NewServerSpec()},
		},
	}
	groups := ExpandCluster(c)
	require.Len(t, groups, 2)
	assert.Equal(t, "prod-web", groups[0].GroupName)
	assert.Equal(t, "prod-db", groups[1].GroupName)
}

func TestExpandGroupSpecWithCountsMultipliesNested(t *testing.T) {
	count := 3
	nested := model.GroupSpec{GroupName: "web", Count: &count}
	out := ExpandGroupSpecWithCounts(2, nested)
	require.NotNil(t, out.Count)
	assert.Equal(t, 6, *out.Count)
}

func TestExpandClusterMultipliesNestedCountByClusterCount(t *testing.T) {
	webCount := 2
	clusterCount := 3
	c := model.ClusterSpec{
		Name:  "prod",
		Count: &clusterCount,
		Groups: []model.GroupSpec{
			{GroupName: "web", Count: &webCount},
		},
	}
	groups := ExpandCluster(c)
	require.Len(t, groups, 1)
	require.NotNil(t, groups[0].Count)
	assert.Equal(t, 6, *groups[0].Count)
}

func TestExpandClusterLeavesCountsAloneWhenClusterCountUnset(t *testing.T) {
	webCount := 2
	c := model.ClusterSpec{
		Name: "prod",
		Groups: []model.GroupSpec{
			{GroupName: "web", Count: &webCount},
		},
	}
	groups := ExpandCluster(c)
	require.Len(t, groups, 1)
	require.NotNil(t, groups[0].Count)
	assert.Equal(t, 2, *groups[0].Count)
}
