// internal/pkg/mq/writer_pool.go
package mq

import (
	"context"
	"sync"

	"zirako/internal/pkg/logger"
)

// WriterPool 按主题缓存 writer，供需要写入动态主题的进程使用
type WriterPool struct {
	newWriter func(topic string) MessageWriter
	writers   map[string]MessageWriter // key: topic
	lock      sync.Mutex
}

// NewWriterPool 返回连接到 brokers 的 writer 池
func NewWriterPool(brokers []string) *WriterPool {
	return NewWriterPoolWith(func(topic string) MessageWriter { return NewKafkaWriter(brokers, topic) })
}

// NewWriterPoolWith 使用自定义的 writer 构造函数
func NewWriterPoolWith(newWriter func(topic string) MessageWriter) *WriterPool {
	return &WriterPool{newWriter: newWriter, writers: make(map[string]MessageWriter)}
}

// Get 返回主题对应的 writer，不存在时创建
func (p *WriterPool) Get(topic string) MessageWriter {
	p.lock.Lock()
	defer p.lock.Unlock()
	w, ok := p.writers[topic]
	if !ok {
		w = p.newWriter(topic)
		p.writers[topic] = w
	}
	return w
}

// Forward 把消息写入 topic，并注入当前追踪上下文
func (p *WriterPool) Forward(ctx context.Context, topic string, key, value []byte) error {
	return ProduceMessage(ctx, p.Get(topic), key, value)
}

// Close 关闭所有实现了 Close 的 writer
func (p *WriterPool) Close() {
	p.lock.Lock()
	defer p.lock.Unlock()
	for topic, w := range p.writers {
		c, ok := w.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			logger.Ctx(context.Background()).Error().Err(err).Str("topic", topic).Msg("failed to close writer")
		}
	}
}
