package utils

import (
	"fmt"
	"sync"
	"time"
)

const (
	seqBits  = 12
	nodeBits = 10

	// MaxNodeID 是 report.node_id 的上限。
	MaxNodeID = 1<<nodeBits - 1
)

// 2024-01-01 00:00:00 UTC
var idEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Snowflake 为对局战报分配 int64 主键，布局为 毫秒 | 节点 | 序列。
// 多实例写同一张战报表时靠节点号区分。
type Snowflake struct {
	mu   sync.Mutex
	node int64
	// 上一个 id 的 (毫秒<<seqBits | 序列)；同一毫秒内序列用完时直接借用下一毫秒。
	last int64
	now  func() time.Time
}

func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 || node > MaxNodeID {
		return nil, fmt.Errorf("snowflake node id %d out of [0, %d]", node, MaxNodeID)
	}
	return &Snowflake{node: node, now: time.Now}, nil
}

// NextID 严格递增，时钟回拨时沿用上一个时间位继续累加。
func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	tick := s.now().Sub(idEpoch).Milliseconds() << seqBits
	if tick <= s.last {
		tick = s.last + 1
	}
	s.last = tick

	ms, seq := tick>>seqBits, tick&(1<<seqBits-1)
	return ms<<(nodeBits+seqBits) | s.node<<seqBits | seq
}
