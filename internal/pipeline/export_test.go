package pipeline

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// UseConstantBackOff shortens retries in tests.
func (p *Pipeline) UseConstantBackOff(d time.Duration, maxRetries uint64) {
	p.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(d), maxRetries)
	}
}
