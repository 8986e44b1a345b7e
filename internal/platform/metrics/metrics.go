package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-wide counters; all methods are safe for concurrent
// use.
type Collector struct {
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64

	payrollsBuilt    atomic.Uint64
	payrollsUpdated  atomic.Uint64
	payslipsRendered atomic.Uint64
	emailsSent       atomic.Uint64
	emailsFailed     atomic.Uint64

	circularsPublished atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) PayrollBuilt()    { c.payrollsBuilt.Add(1) }
func (c *Collector) PayrollUpdated()  { c.payrollsUpdated.Add(1) }
func (c *Collector) PayslipRendered() { c.payslipsRendered.Add(1) }

func (c *Collector) CircularPublished() { c.circularsPublished.Add(1) }

func (c *Collector) EmailResult(err error) {
	if err != nil {
		c.emailsFailed.Add(1)
		return
	}
	c.emailsSent.Add(1)
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":           total,
		"errorsTotal":             c.errorRequests.Load(),
		"rateLimitedTotal":        c.rateLimited.Load(),
		"avgDurationMs":           avg,
		"totalDurationMs":         totalMs,
		"payrollsBuiltTotal":      c.payrollsBuilt.Load(),
		"payrollsUpdatedTotal":    c.payrollsUpdated.Load(),
		"payslipsRenderedTotal":   c.payslipsRendered.Load(),
		"emailsSentTotal":         c.emailsSent.Load(),
		"emailsFailedTotal":       c.emailsFailed.Load(),
		"circularsPublishedTotal": c.circularsPublished.Load(),
	}
}
