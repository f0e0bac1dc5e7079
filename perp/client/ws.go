package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSChannel 基于 WebSocket 的字节通道。一条连接上顺序地做
// 请求-响应往返（写锁保证同一时刻只有一个在途动作），
// 服务端按到达顺序逐条回执。
type WSChannel struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// DialWS 建立 WebSocket 字节通道
func DialWS(ctx context.Context, url string) (*WSChannel, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket 连接失败: %w", err)
	}
	return &WSChannel{conn: conn}, nil
}

// RoundTrip 发送认证字节并等待回执字节
func (c *WSChannel) RoundTrip(ctx context.Context, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		_ = c.conn.SetReadDeadline(deadline)
	} else {
		_ = c.conn.SetWriteDeadline(time.Time{})
		_ = c.conn.SetReadDeadline(time.Time{})
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		return nil, fmt.Errorf("websocket 写入失败: %w", err)
	}
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("websocket 读取失败: %w", err)
		}
		// 忽略文本心跳等非二进制消息
		if msgType == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// Close 关闭连接
func (c *WSChannel) Close() error {
	return c.conn.Close()
}
