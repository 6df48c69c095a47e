// internal/pkg/zookeeper/conn.go
package zookeeper

import (
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/pkg/errors"
	zlog "github.com/rs/zerolog/log"
)

// Conn 包装了 zk.Conn，便于在锁实现之外挂载公共行为。
type Conn struct {
	*zk.Conn
}

// Connect 建立到 ZooKeeper 集群的会话，并等待首次连上。
func Connect(servers []string, sessionTimeout time.Duration) (*Conn, error) {
	conn, events, err := zk.Connect(servers, sessionTimeout, zk.WithLogInfo(false))
	if err != nil {
		return nil, errors.Wrap(err, "connect zookeeper")
	}

	timeout := time.After(sessionTimeout)
	for {
		select {
		case ev := <-events:
			if ev.State == zk.StateHasSession {
				zlog.Info().Strs("servers", servers).Msg("✅ Connected to ZooKeeper")
				return &Conn{Conn: conn}, nil
			}
		case <-timeout:
			conn.Close()
			return nil, errors.New("timeout waiting for zookeeper session")
		}
	}
}

// ensurePath 创建持久节点，已存在时忽略。
func (c *Conn) ensurePath(path string) error {
	exists, _, err := c.Exists(path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = c.Create(path, []byte(""), 0, zk.WorldACL(zk.PermAll))
	if err != nil && !errors.Is(err, zk.ErrNodeExists) {
		return err
	}
	return nil
}
