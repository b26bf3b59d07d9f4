package snowflake

import (
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("snowflake",
	fx.Provide(NewNode),
)

// Node wraps snowflake.Node to abstract dependency
type Node struct {
	*snowflake.Node
}

// NewNode creates the ID generator. Node IDs must be unique across replicas.
func NewNode(cfg *config.Config) (*Node, error) {
	node, err := snowflake.NewNode(cfg.SnowflakeNodeID)
	if err != nil {
		return nil, err
	}
	return &Node{node}, nil
}

// GenerateID returns a new snowflake ID as int64
func (n *Node) GenerateID() int64 {
	return n.Generate().Int64()
}

// ParseID parses a string ID into an int64
func ParseID(id string) (int64, error) {
	nid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, err
	}
	return nid, nil
}

// FormatID renders an int64 ID the way it is exposed in the API.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
