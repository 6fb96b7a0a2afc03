package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimit 滑动窗口限流，每个客户端 IP 在 window 内最多 max 次请求，超过返回 429
func RateLimit(max int, window time.Duration) gin.HandlerFunc {
	l := newSlidingWindow(max, window)
	go l.cleanupLoop(time.Minute)

	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Demasiadas solicitudes, intente más tarde",
			})
			return
		}
		c.Next()
	}
}

type slidingWindow struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	store  map[string][]time.Time
}

func newSlidingWindow(max int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		max:    max,
		window: window,
		store:  make(map[string][]time.Time),
	}
}

// prune 移除窗口外的记录
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (l *slidingWindow) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := prune(l.store[key], now.Add(-l.window))
	if len(ts) >= l.max {
		l.store[key] = ts
		return false
	}
	l.store[key] = append(ts, now)
	return true
}

// cleanup 删除已无有效记录的 key
func (l *slidingWindow) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	for key, ts := range l.store {
		if kept := prune(ts, cutoff); len(kept) == 0 {
			delete(l.store, key)
		} else {
			l.store[key] = kept
		}
	}
}

func (l *slidingWindow) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for now := range ticker.C {
		l.cleanup(now)
	}
}
