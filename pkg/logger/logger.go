// Package logger 提供全局日志实例（logrus + lumberjack 轮转）。
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger 全局日志实例
	Logger *logrus.Logger
	// initMu 初始化锁
	initMu sync.Mutex
)

// Config 日志配置
type Config struct {
	Level      string // 日志级别: debug, info, warn, error
	OutputFile string // 日志文件路径（可选，为空则只输出到控制台）
	MaxSize    int    // 日志文件最大大小（MB）
	MaxBackups int    // 保留的旧日志文件数量
	MaxAge     int    // 保留旧日志文件的天数
	Compress   bool   // 是否压缩旧日志文件
}

func init() {
	// 默认实例：info 级别，仅控制台，便于库被直接引用时开箱可用
	Logger = logrus.New()
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// Init 按配置初始化全局日志实例
func Init(cfg Config) error {
	initMu.Lock()
	defer initMu.Unlock()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	Logger.SetLevel(level)

	if cfg.OutputFile == "" {
		Logger.SetOutput(os.Stderr)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.OutputFile,
		MaxSize:    orDefault(cfg.MaxSize, 50),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAge, 14),
		Compress:   cfg.Compress,
	}
	// 同时写文件和控制台
	Logger.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Debugf 全局 debug 日志
func Debugf(format string, args ...any) {
	Logger.Debugf(format, args...)
}

// Infof 全局 info 日志
func Infof(format string, args ...any) {
	Logger.Infof(format, args...)
}

// Warnf 全局 warn 日志
func Warnf(format string, args ...any) {
	Logger.Warnf(format, args...)
}

// Errorf 全局 error 日志
func Errorf(format string, args ...any) {
	Logger.Errorf(format, args...)
}

// WithField 带字段的日志入口
func WithField(key string, value any) *logrus.Entry {
	return Logger.WithField(key, value)
}
