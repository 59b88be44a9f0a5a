package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var (
	nodeMu sync.RWMutex
	node   *snowflake.Node
)

// Init 设置 snowflake 节点号（0-1023），进程启动时调用一次
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	nodeMu.Lock()
	node = n
	nodeMu.Unlock()
	return nil
}

// Next 生成新的数值ID（用户、商品、订单等实体主键）
// 未调用 Init 时默认使用节点 1
func Next() int64 {
	nodeMu.RLock()
	n := node
	nodeMu.RUnlock()
	if n == nil {
		nodeMu.Lock()
		if node == nil {
			node, _ = snowflake.NewNode(1)
		}
		n = node
		nodeMu.Unlock()
	}
	return n.Generate().Int64()
}

// New 生成新的UUID（string格式），用于 request id 与 OAuth2 state
func New() string {
	return uuid.New().String()
}

// IsValid 验证UUID格式是否有效
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
