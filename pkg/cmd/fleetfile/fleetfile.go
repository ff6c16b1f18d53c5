// Package fleetfile loads the declarative fleet file the converge/lift/
// watch commands take as their positional argument: group declarations
// (name, count, node-spec fields, roles) plus which compute provider and
// executor to drive them through. Mirrors the teacher's config-loading
// style (viper, env-var fallback via FLEETCTL_-prefixed variables) adapted from a feature
// flag file to a fleet declaration.
package fleetfile

import (
	"strings"

	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/spf13/viper"
)

type groupDecl struct {
	Count    *int
	Image    string
	Flavor   string
	Location string
	Network  map[string]string
	Roles    []string
	Provider string
}

type computeDecl struct {
	URL   string
	Token string
}

type executorDecl struct {
	User  string
	Local bool
}

// Config is a fleet file's parsed contents: one GroupSpec per declared
// group plus the connection info converge/lift/watch need to build a
// compute.Provider and executor.Executor.
type Config struct {
	Groups   []model.GroupSpec
	Compute  computeDecl
	Executor executorDecl
}

// Load parses path into a Config. Groups carry no phases — phases are
// Go values registered by the caller through options.phase, never by
// the fleet file (spec.md's data model keeps plan functions out of any
// serialized form).
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("fleetctl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fleeterrors.NewValidationError("reading fleet file: " + err.Error())
	}

	var compute computeDecl
	if err := v.UnmarshalKey("compute", &compute); err != nil {
		return Config{}, fleeterrors.NewValidationError("parsing compute block: " + err.Error())
	}
	var exec executorDecl
	if err := v.UnmarshalKey("executor", &exec); err != nil {
		return Config{}, fleeterrors.NewValidationError("parsing executor block: " + err.Error())
	}

	decls := map[string]groupDecl{}
	if err := v.UnmarshalKey("groups", &decls); err != nil {
		return Config{}, fleeterrors.NewValidationError("parsing groups: " + err.Error())
	}

	groups := make([]model.GroupSpec, 0, len(decls))
	for name, d := range decls {
		groups = append(groups, model.GroupSpec{
			GroupName: name,
			Count:     d.Count,
			Roles:     d.Roles,
			Provider:  d.Provider,
			NodeSpec: model.NodeSpec{
				Image:    d.Image,
				Flavor:   d.Flavor,
				Location: d.Location,
				Network:  d.Network,
			},
			ServerSpec: model.NewServerSpec(),
		})
	}

	return Config{Groups: groups, Compute: compute, Executor: exec}, nil
}
