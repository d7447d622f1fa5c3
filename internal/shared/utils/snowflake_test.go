package utils

import (
	"sync"
	"testing"
	"time"
)

func TestNewSnowflake_节点越界(t *testing.T) {
	if _, err := NewSnowflake(-1); err == nil {
		t.Fatalf("负数节点应报错")
	}
	if _, err := NewSnowflake(MaxNodeID + 1); err == nil {
		t.Fatalf("超过 10 位的节点应报错")
	}
	if _, err := NewSnowflake(MaxNodeID); err != nil {
		t.Fatalf("上限节点应合法: %v", err)
	}
}

func TestSnowflake_NextID_并发下唯一(t *testing.T) {
	s, err := NewSnowflake(3)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	const workers, per = 8, 500
	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*per)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < per; j++ {
				id := s.NextID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != workers*per {
		t.Fatalf("出现重复 id: got=%d want=%d", len(seen), workers*per)
	}
}

func TestSnowflake_NextID_时钟冻结与回拨仍递增(t *testing.T) {
	s, _ := NewSnowflake(5)
	at := idEpoch.Add(time.Hour)
	s.now = func() time.Time { return at }

	prev := s.NextID()
	// 超过单毫秒序列容量，必须借用后续毫秒
	for i := 0; i < 5000; i++ {
		id := s.NextID()
		if id <= prev {
			t.Fatalf("第 %d 个 id 未递增: %d -> %d", i, prev, id)
		}
		prev = id
	}

	at = at.Add(-time.Minute)
	if id := s.NextID(); id <= prev {
		t.Fatalf("回拨后 id 回退: %d -> %d", prev, id)
	}
}

func TestSnowflake_NextID_携带节点号(t *testing.T) {
	a, _ := NewSnowflake(1)
	b, _ := NewSnowflake(2)
	at := idEpoch.Add(time.Second)
	a.now = func() time.Time { return at }
	b.now = func() time.Time { return at }
	x, y := a.NextID(), b.NextID()
	if x == y {
		t.Fatalf("不同节点同一毫秒不应撞号")
	}
	if (x>>seqBits)&MaxNodeID != 1 || (y>>seqBits)&MaxNodeID != 2 {
		t.Fatalf("节点位异常: %x %x", x, y)
	}
}
