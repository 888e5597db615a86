package driven

import "time"

// Clock abstracts time for the core services so poll schedules and
// retry backoff can be driven by a fake clock in tests. The interface
// is a subset of github.com/jonboulle/clockwork.Clock; both its real
// and fake clocks satisfy it without adaptation.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that fires once d has elapsed.
	After(d time.Duration) <-chan time.Time
}
