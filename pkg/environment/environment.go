// Package environment loads the `-e/--environment` overlay map spec.md
// §4.1/§6 refers to from a config file and FLEETCTL_ENV_* environment
// variables, the way the teacher's featureflag package loads
// brev-prefixed config (github.com/brevdev/brev-cli/pkg/featureflag).
package environment

import (
	"os"
	"strings"

	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/spec"
	"github.com/spf13/viper"
)

// fileGroupOverlay is the on-disk shape of one entry under `groups:` —
// only the NodeSpec/count fields an environment file can express; phase
// maps are Go values and only ever come from code, never from a file.
type fileGroupOverlay struct {
	Image    string
	Flavor   string
	Location string
	Network  map[string]string
	Count    *int
}

// Load reads path (plus FLEETCTL_ENV_* env overrides) into a
// spec.Environment. A missing file is not an error — an environment
// overlay is optional, matching the teacher's LoadFeatureFlags, which
// tolerates a missing config file and falls back to defaults/env.
func Load(path string) (spec.Environment, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("fleetctl_env")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := v.ReadInConfig(); err != nil {
				return spec.Environment{}, fleeterrors.NewValidationError("reading environment file: " + err.Error())
			}
		}
	}

	env := spec.Environment{
		Image:  v.GetString("image"),
		Groups: map[string]model.GroupSpec{},
	}

	raw := map[string]fileGroupOverlay{}
	if err := v.UnmarshalKey("groups", &raw); err != nil {
		return spec.Environment{}, fleeterrors.NewValidationError("parsing environment groups: " + err.Error())
	}
	for name, g := range raw {
		env.Groups[name] = model.GroupSpec{
			GroupName: name,
			Count:     g.Count,
			NodeSpec: model.NodeSpec{
				Image:    g.Image,
				Flavor:   g.Flavor,
				Location: g.Location,
				Network:  g.Network,
			},
		}
	}
	return env, nil
}
