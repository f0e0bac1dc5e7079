package client

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// DefaultActionPath 动作提交端点
const DefaultActionPath = "/action"

// HTTPChannel 基于 HTTP POST 的字节通道：请求体为封帧后的认证字节，
// 响应体为封帧后的回执字节。不配置 resty 重试——单次尝试是
// 提交管线的契约，重试由调用方决定。
type HTTPChannel struct {
	client *resty.Client
	path   string
}

// NewHTTPChannel 创建 HTTP 字节通道。
// resty 会自动从环境变量读取代理配置（HTTP_PROXY / HTTPS_PROXY）。
func NewHTTPChannel(host string) *HTTPChannel {
	host = strings.TrimSuffix(host, "/")
	c := resty.New().
		SetBaseURL(host).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/octet-stream").
		SetHeader("Accept", "application/octet-stream").
		SetHeader("User-Agent", "@betbot/goperp")
	return &HTTPChannel{client: c, path: DefaultActionPath}
}

// SetPath 覆盖动作提交端点路径
func (c *HTTPChannel) SetPath(path string) {
	c.path = path
}

// SetTimeout 覆盖单次往返超时
func (c *HTTPChannel) SetTimeout(d time.Duration) {
	c.client.SetTimeout(d)
}

// RoundTrip 发送认证字节并返回回执字节
func (c *HTTPChannel) RoundTrip(ctx context.Context, payload []byte) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.path)
	if err != nil {
		return nil, errors.Wrap(err, "http post")
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("http non-2xx: %s: %s", resp.Status(), strings.TrimSpace(string(resp.Body())))
	}
	return resp.Body(), nil
}
