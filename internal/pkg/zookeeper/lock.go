// internal/pkg/zookeeper/lock.go
package zookeeper

import (
	"context"
	"sort"
	"strings"

	"github.com/go-zookeeper/zk"
	"github.com/pkg/errors"
)

const (
	lockRoot = "/zirako_locks" // 所有分布式锁的根节点
)

// DistributedLock 基于临时顺序节点的公平锁
type DistributedLock struct {
	conn     *Conn
	path     string // 锁的路径，例如 /zirako_locks/pickup-reminder
	lockNode string // 成功获取锁后，自己创建的节点路径
}

// NewDistributedLock 创建一个新的分布式锁实例，并确保父节点存在
func NewDistributedLock(conn *Conn, resourceID string) (*DistributedLock, error) {
	if err := conn.ensurePath(lockRoot); err != nil {
		return nil, errors.Wrap(err, "create lock root node")
	}
	lockPath := lockRoot + "/" + resourceID
	if err := conn.ensurePath(lockPath); err != nil {
		return nil, errors.Wrapf(err, "create lock path node %s", lockPath)
	}
	return &DistributedLock{conn: conn, path: lockPath}, nil
}

// Lock 阻塞直到获得锁或 ctx 结束
func (l *DistributedLock) Lock(ctx context.Context) error {
	nodePath, err := l.conn.CreateProtectedEphemeralSequential(l.path+"/lock-", []byte(""), zk.WorldACL(zk.PermAll))
	if err != nil {
		return errors.Wrap(err, "create sequential node")
	}
	l.lockNode = nodePath

	for {
		prev, err := l.predecessor()
		if err != nil {
			l.abandon()
			return err
		}
		if prev == "" {
			return nil
		}

		exists, _, eventChan, err := l.conn.ExistsW(prev)
		if err != nil {
			l.abandon()
			return errors.Wrap(err, "watch previous node")
		}
		if !exists {
			continue
		}

		select {
		case <-eventChan:
			// 前一个节点发生变化，重新竞争
		case <-ctx.Done():
			l.abandon()
			return ctx.Err()
		}
	}
}

// Unlock 释放锁
func (l *DistributedLock) Unlock() error {
	if l.lockNode == "" {
		return errors.New("no lock to unlock")
	}
	err := l.conn.Delete(l.lockNode, -1)
	if err != nil && !errors.Is(err, zk.ErrNoNode) {
		return errors.Wrap(err, "delete lock node")
	}
	l.lockNode = ""
	return nil
}

// predecessor 返回排在自己前面的节点路径，自己最小时返回空串
func (l *DistributedLock) predecessor() (string, error) {
	children, _, err := l.conn.Children(l.path)
	if err != nil {
		return "", errors.Wrap(err, "get children nodes")
	}
	// protected 节点带有 _c_<guid>- 前缀，按序号部分排序
	sort.Slice(children, func(i, j int) bool { return sequence(children[i]) < sequence(children[j]) })

	myName := strings.TrimPrefix(l.lockNode, l.path+"/")
	for i, child := range children {
		if child != myName {
			continue
		}
		if i == 0 {
			return "", nil
		}
		return l.path + "/" + children[i-1], nil
	}
	return "", errors.New("own lock node disappeared")
}

func (l *DistributedLock) abandon() {
	if l.lockNode != "" {
		_ = l.conn.Delete(l.lockNode, -1)
		l.lockNode = ""
	}
}

func sequence(node string) string {
	if i := strings.LastIndex(node, "lock-"); i >= 0 {
		return node[i+len("lock-"):]
	}
	return node
}
