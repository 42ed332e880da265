
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package netshare

import (
	"net"
	"sync"
	"time"
)

// RateLimitSystem layers several fixed windows so that short bursts
// and sustained abuse are both caught.
type RateLimitSystem struct {
	per5Min  *RateLimit
	per15Min *RateLimit
	per1Hour *RateLimit
}

func NewRateLimitSystem(per5Min, per15Min, per1Hour uint) *RateLimitSystem {
	return &RateLimitSystem{
		per5Min:  NewRateLimit(5*60, per5Min),
		per15Min: NewRateLimit(15*60, per15Min),
		per1Hour: NewRateLimit(60*60, per1Hour),
	}
}

func (rateSys *RateLimitSystem) CheckAndUse(ip net.IP) error {
	for _, limit := range []*RateLimit{rateSys.per5Min, rateSys.per15Min, rateSys.per1Hour} {
		if retryAfter := limit.CheckAndUse(ip); retryAfter != 0 {
			return ErrTooManyRequestsNew(retryAfter)
		}
	}

	return nil
}

// RateLimit counts uses per IP within a fixed window of limitPeriod
// seconds. A zero limitCount disables the limit.
type RateLimit struct {
	sync.Mutex

	limitPeriod int64
	limitCount  uint

	list map[string]rateLimitIP
}

type rateLimitIP struct {
	// First IP use time in the current window
	UseTime int64
	// Requests count by IP
	UseCount uint
}

func NewRateLimit(limitPeriod int64, limitCount uint) *RateLimit {
	rateLimit := &RateLimit{
		limitPeriod: limitPeriod,
		limitCount:  limitCount,
		list:        make(map[string]rateLimitIP),
	}

	go rateLimit.runWorker()

	return rateLimit
}

func (rateLimit *RateLimit) runWorker() {
	for {
		time.Sleep(time.Duration(rateLimit.limitPeriod) * time.Second)

		timeNow := time.Now().Unix()

		rateLimit.Lock()
		for ipStr, data := range rateLimit.list {
			if data.UseTime+rateLimit.limitPeriod <= timeNow {
				delete(rateLimit.list, ipStr)
			}
		}
		rateLimit.Unlock()
	}
}

// CheckAndUse consumes one use for ip. Returns 0 when allowed, or the
// number of seconds until the window resets when the limit is hit.
func (rateLimit *RateLimit) CheckAndUse(ip net.IP) int64 {
	if rateLimit.limitCount == 0 {
		return 0
	}

	rateLimit.Lock()
	defer rateLimit.Unlock()

	ipStr := ip.String()
	timeNow := time.Now().Unix()

	entry, exist := rateLimit.list[ipStr]
	if !exist || entry.UseTime+rateLimit.limitPeriod <= timeNow {
		rateLimit.list[ipStr] = rateLimitIP{
			UseTime:  timeNow,
			UseCount: 1,
		}
		return 0
	}

	if entry.UseCount < rateLimit.limitCount {
		entry.UseCount++
		rateLimit.list[ipStr] = entry
		return 0
	}

	return entry.UseTime + rateLimit.limitPeriod - timeNow
}
