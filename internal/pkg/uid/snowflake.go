package uid

import (
	"crypto/rand"
	"encoding/binary"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 IDs using a per-process node.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator. The node number comes from the
// SNOWFLAKE_NODE environment variable when set, otherwise from crypto/rand.
func NewSnowflake() (*Snowflake, error) {
	nodeNum := int64(-1)
	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			nodeNum = parsed
		}
	}

	if nodeNum < 0 || nodeNum > 1023 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, err
		}
		nodeNum = int64(binary.BigEndian.Uint64(b[:]) % 1024)
	}

	node, err := snowflake.NewNode(nodeNum)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
