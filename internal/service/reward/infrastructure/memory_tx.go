// internal/service/reward/infrastructure/memory_tx.go
package infrastructure

import (
	"context"
	"sync"
)

type serialTxKey struct{}

// SerialTx 配合内存仓储使用：事务之间串行执行，效果等同于数据库在
// 事务提交前一直持有被更新行的行锁。嵌套调用复用外层事务。
type SerialTx struct {
	mu sync.Mutex
}

func (t *SerialTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(serialTxKey{}) != nil {
		return fn(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(context.WithValue(ctx, serialTxKey{}, struct{}{}))
}
