package service

import (
	"sync"
	"time"
)

// SiteVersion holds the cache-busting token appended to asset URLs.
type SiteVersion struct {
	mu      sync.RWMutex
	current int64
	now     func() time.Time
}

// NewSiteVersion starts the version at the current unix milliseconds.
func NewSiteVersion() *SiteVersion {
	v := &SiteVersion{now: time.Now}
	v.current = v.now().UnixMilli()
	return v
}

// Current returns the version rendered into templates.
func (v *SiteVersion) Current() int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Reset moves the version to the current time; it never repeats or goes back.
func (v *SiteVersion) Reset() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := v.now().UnixMilli()
	if next <= v.current {
		next = v.current + 1
	}
	v.current = next
	return next
}
