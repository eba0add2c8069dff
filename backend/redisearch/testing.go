package redisearch

import (
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// NewForTest creates an Adapter over a provided rueidis client
// (test-only).
func NewForTest(c rueidis.Client, corpus string) *Adapter {
	return &Adapter{
		client: c,
		corpus: corpus,
		prefix: "vakya:",
		log:    zap.NewNop(),
	}
}
