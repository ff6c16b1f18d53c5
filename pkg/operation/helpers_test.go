package operation

import (
	"github.com/fleetctl/fleetctl/pkg/config"
	"github.com/fleetctl/fleetctl/pkg/node"
	"github.com/google/uuid"
)

// nodeNamed builds a tagged node.Basic a FakeProvider can seed and
// target.Resolve's default node-filter will match against groupName.
func nodeNamed(name, groupName string) node.Basic {
	return node.Basic{
		NodeID:  uuid.NewString(),
		Name:    name,
		Service: "fake",
		CanTag:  true,
		Tags:    map[string]string{config.GlobalConfig.GetGroupNameTagKey(): groupName},
	}
}
