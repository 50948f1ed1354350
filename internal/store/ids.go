package store

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh identifier starting with prefix
type IDGenerator func(prefix string) string

// UUIDGenerator uses random UUIDs, so rapid successive calls never collide
func UUIDGenerator(prefix string) string {
	return prefix + uuid.NewString()
}

// SequenceGenerator returns a monotonic counter starting after start
func SequenceGenerator(start int64) IDGenerator {
	var n atomic.Int64
	n.Store(start)
	return func(prefix string) string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	}
}
