package manager

import "time"

const (
	// DefaultInitTimeout bounds the initial configuration fetch at startup.
	DefaultInitTimeout = 15 * time.Second

	// DefaultPollInterval is how often the watch loop refreshes from the store
	// in the absence of native change hints.
	DefaultPollInterval = 3 * time.Second

	// DefaultRetryAttempts bounds the CAS retry loop of a single update call.
	// The bound is an attempt count rather than a wall-clock timeout so that the
	// loop terminates deterministically under sustained contention.
	DefaultRetryAttempts = 5

	// defaultRetryBase and defaultRetryCap shape the backoff between CAS
	// attempts; jitter is applied on top to de-synchronize competing writers.
	defaultRetryBase = 100 * time.Millisecond
	defaultRetryCap  = 2 * time.Second

	// retryJitterPercent is the percentage jitter to introduce to each retry interval.
	retryJitterPercent = 25 // 25%

	// defaultFanoutWorkers sizes the subscriber notification pool. A single
	// worker keeps deliveries to each subscriber in version order while still
	// decoupling them from the installer.
	defaultFanoutWorkers = 1
)

type config struct {
	initTimeout   time.Duration
	pollInterval  time.Duration
	retryAttempts uint64
	retryBase     time.Duration
	retryCap      time.Duration
	fanoutWorkers int
}

func defaultConfig() config {
	return config{
		initTimeout:   DefaultInitTimeout,
		pollInterval:  DefaultPollInterval,
		retryAttempts: DefaultRetryAttempts,
		retryBase:     defaultRetryBase,
		retryCap:      defaultRetryCap,
		fanoutWorkers: defaultFanoutWorkers,
	}
}

// Opt is a functional option for the Manager.
type Opt func(*config)

// WithInitTimeout overrides the startup fetch timeout.
func WithInitTimeout(timeout time.Duration) Opt {
	return func(c *config) {
		c.initTimeout = timeout
	}
}

// WithPollInterval overrides the watch loop's poll interval.
func WithPollInterval(interval time.Duration) Opt {
	return func(c *config) {
		c.pollInterval = interval
	}
}

// WithRetryAttempts overrides the CAS retry bound of Update.
func WithRetryAttempts(attempts uint64) Opt {
	return func(c *config) {
		c.retryAttempts = attempts
	}
}

// WithRetryBackoff overrides the backoff shape of the CAS retry loop.
func WithRetryBackoff(base, cap time.Duration) Opt {
	return func(c *config) {
		c.retryBase = base
		c.retryCap = cap
	}
}

// WithFanoutWorkers overrides the size of the subscriber notification pool.
// With more than one worker, deliveries to a single subscriber may overlap.
func WithFanoutWorkers(workers int) Opt {
	return func(c *config) {
		c.fanoutWorkers = workers
	}
}
