package log

import (
	"github.com/patrickmn/go-cache"
	"time"
)

// ThrottlingLogger drops a message that was already written within the throttling period.
type ThrottlingLogger interface {
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
}

func NewThrottlingLogger(baseLogger Logger, period time.Duration) ThrottlingLogger {
	return &throttlingLogger{
		logger: baseLogger,
		cache:  cache.New(period, period*5),
	}
}

type throttlingLogger struct {
	logger Logger
	cache  *cache.Cache
}

func (t *throttlingLogger) Debug(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Debug, ctx...)
}

func (t *throttlingLogger) Info(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Info, ctx...)
}

func (t *throttlingLogger) Warn(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Warn, ctx...)
}

func (t *throttlingLogger) Error(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Error, ctx...)
}

func (t *throttlingLogger) logIfNeeded(msg string, log func(msg string, ctx ...interface{}), ctx ...interface{}) {
	// Add fails while the message is still cached
	if err := t.cache.Add(msg, struct{}{}, cache.DefaultExpiration); err == nil {
		log(msg, ctx...)
	}
}
