// internal/pkg/session/manager.go
package session

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "zirako:session:"

// 只有当会话仍指向本节点时才删除，避免误删用户在其他节点上的新连接
var releaseScript = redis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
    return redis.call('del', KEYS[1])
end
return 0
`)

// Manager 维护 account -> push-gateway 节点的映射
type Manager struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewManager(client redis.UniversalClient, ttl time.Duration) *Manager {
	return &Manager{client: client, ttl: ttl}
}

func sessionKey(accountID int64) string {
	return keyPrefix + strconv.FormatInt(accountID, 10)
}

// SetUserGateway 记录用户连接所在的节点，并刷新过期时间
func (m *Manager) SetUserGateway(ctx context.Context, accountID int64, nodeID string) error {
	if err := m.client.Set(ctx, sessionKey(accountID), nodeID, m.ttl).Err(); err != nil {
		return errors.Wrapf(err, "set session for account %d", accountID)
	}
	return nil
}

// GetUserGateway 返回用户所在节点；用户离线时返回空串
func (m *Manager) GetUserGateway(ctx context.Context, accountID int64) (string, error) {
	node, err := m.client.Get(ctx, sessionKey(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "get session for account %d", accountID)
	}
	return node, nil
}

// RemoveUserGateway 在连接断开时清理会话
func (m *Manager) RemoveUserGateway(ctx context.Context, accountID int64, nodeID string) error {
	if err := releaseScript.Run(ctx, m.client, []string{sessionKey(accountID)}, nodeID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return errors.Wrapf(err, "remove session for account %d", accountID)
	}
	return nil
}
