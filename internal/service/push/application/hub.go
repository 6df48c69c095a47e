// internal/service/push/application/hub.go
package application

import (
	"sync"

	"zirako/internal/pkg/metrics"
)

// Client 是一条在线连接的发送队列
type Client struct {
	AccountID int64
	send      chan []byte
}

func NewClient(accountID int64, buffer int) *Client {
	return &Client{AccountID: accountID, send: make(chan []byte, buffer)}
}

// Send 返回待写入连接的消息；Hub 注销连接时关闭该通道
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Hub 维护本节点上的所有活跃连接，每个账户保留最新的一条
type Hub struct {
	clients map[int64]*Client
	lock    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*Client)}
}

// Register 登记连接；同一账户已有连接时旧连接被关闭
func (h *Hub) Register(c *Client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if old, ok := h.clients[c.AccountID]; ok && old != c {
		close(old.send)
	}
	h.clients[c.AccountID] = c
}

// Unregister 注销连接，连接已被替换时返回 false
func (h *Hub) Unregister(c *Client) bool {
	h.lock.Lock()
	defer h.lock.Unlock()
	if cur, ok := h.clients[c.AccountID]; !ok || cur != c {
		return false
	}
	delete(h.clients, c.AccountID)
	close(c.send)
	return true
}

// Deliver 把消息放入账户连接的发送队列。账户不在线或队列已满时返回 false
func (h *Hub) Deliver(accountID int64, payload []byte) bool {
	h.lock.RLock()
	defer h.lock.RUnlock()
	c, ok := h.clients[accountID]
	if !ok {
		metrics.PushDeliveries.WithLabelValues("deliver", "offline").Inc()
		return false
	}
	select {
	case c.send <- payload:
		metrics.PushDeliveries.WithLabelValues("deliver", "ok").Inc()
		return true
	default:
		metrics.PushDeliveries.WithLabelValues("deliver", "dropped").Inc()
		return false
	}
}

// Online 返回账户是否在本节点在线
func (h *Hub) Online(accountID int64) bool {
	h.lock.RLock()
	defer h.lock.RUnlock()
	_, ok := h.clients[accountID]
	return ok
}

// Count 返回在线连接数
func (h *Hub) Count() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}
