package client

// NonceGenerator 每个调用方持有一份的 (lastTimestamp, lastNonce) 计数器。
// 同一时间刻度内连续签发的动作得到严格递增的 nonce，新刻度从 0 重新开始。
// 读取并自增必须在任何异步挂起点（网络往返）之前同步完成。
//
// 不加锁：两个独立调用栈在无外部同步的情况下并发签发是未定义行为，
// 需要并发签发时由调用方自行加锁。
type NonceGenerator struct {
	lastTimestamp uint64
	lastNonce     uint32
}

// Next 为给定时间戳签发下一个 nonce
func (g *NonceGenerator) Next(timestamp uint64) uint32 {
	if timestamp == g.lastTimestamp {
		g.lastNonce++
		return g.lastNonce
	}
	g.lastTimestamp = timestamp
	g.lastNonce = 0
	return 0
}
