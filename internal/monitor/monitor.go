// Package monitor implements the sweep loop: on every tick it checks each
// watched domain against the certificate-transparency source, persists newly
// observed subdomains and fans alerts out to the notification channels.
package monitor

import (
	"context"
	"time"

	"subwatch/pkg/ctlog"
	"subwatch/pkg/domain"
	"subwatch/pkg/logger"
	"subwatch/pkg/metrics"
	"subwatch/pkg/notify"
	"subwatch/pkg/serrors"
	"subwatch/pkg/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options holds the sweep loop settings.
type Options struct {
	// Domains is the list of watched domains.
	Domains []string
	// Interval is the pause between sweeps.
	Interval time.Duration
	// PacingDelay is the courtesy delay between launching per-domain checks
	// within one sweep, to avoid bursting the upstream source.
	PacingDelay time.Duration
	// FetchTimeout bounds one certificate-transparency query.
	FetchTimeout time.Duration
}

// Monitor runs the periodic sweep over the watched domains.
type Monitor struct {
	source   ctlog.Source
	store    storage.Storage
	notifier *notify.Notifier
	options  Options
}

// New constructs a Monitor.
func New(source ctlog.Source, store storage.Storage, notifier *notify.Notifier, options Options) *Monitor {
	return &Monitor{
		source:   source,
		store:    store,
		notifier: notifier,
		options:  options,
	}
}

// Run sweeps immediately, then on every interval tick until the context is
// canceled. A sweep that outlasts the interval is not stacked: the ticker
// drops missed ticks, so the next sweep starts on the following tick. Run
// only returns the context's error.
func (m *Monitor) Run(ctx context.Context) error {
	logger.Info(ctx, "monitor started",
		zap.Strings("domains", m.options.Domains),
		zap.Duration("interval", m.options.Interval))

	m.Sweep(ctx)

	ticker := time.NewTicker(m.options.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "monitor stopped")

			return ctx.Err()
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep checks every watched domain concurrently, pacing the launches by
// PacingDelay. Per-domain failures are logged and counted but never abort the
// sweep or affect sibling domains.
func (m *Monitor) Sweep(ctx context.Context) {
	startedAt := time.Now()

	logger.Info(ctx, "sweep started", zap.Int("domains", len(m.options.Domains)))

	var group errgroup.Group
	for i, dom := range m.options.Domains {
		if i > 0 && m.options.PacingDelay > 0 {
			select {
			case <-ctx.Done():
				break
			case <-time.After(m.options.PacingDelay):
			}
		}
		if ctx.Err() != nil {
			break
		}

		group.Go(func() error {
			domCtx := logger.WithFields(ctx, zap.String("domain", dom))
			if err := m.checkDomain(domCtx, dom); err != nil {
				logger.Error(domCtx, "domain check failed", zap.Error(err))
			}

			return nil
		})
	}
	_ = group.Wait()

	metrics.SweepsTotal.Inc()
	metrics.SweepDuration.Observe(time.Since(startedAt).Seconds())

	logger.Info(ctx, "sweep finished", zap.Duration("duration", time.Since(startedAt)))
}

// checkDomain runs one monitoring unit: fetch the current subdomain set,
// diff it against the persisted known set, persist the additions and refresh
// last_seen inside one transaction, then notify. Notification happens only
// after the transaction commits, so an alerted hostname is always durable.
func (m *Monitor) checkDomain(ctx context.Context, dom string) error {
	fetchCtx, cancel := context.WithTimeout(ctx, m.options.FetchTimeout)
	defer cancel()

	fetched, err := m.source.Subdomains(fetchCtx, dom)
	if err != nil {
		metrics.DomainErrors.WithLabelValues(dom, "fetch").Inc()

		return serrors.Wrap(serrors.ErrFetch, err, "could not fetch subdomains for %s", dom)
	}
	metrics.SubdomainsFetched.WithLabelValues(dom).Add(float64(len(fetched)))

	known, err := m.store.KnownSubdomains(ctx, dom)
	if err != nil {
		metrics.DomainErrors.WithLabelValues(dom, "store").Inc()

		return serrors.Wrap(serrors.ErrStore, err, "could not load known subdomains for %s", dom)
	}

	fresh := make([]string, 0)
	observed := make([]string, 0, len(fetched))
	for hostname := range fetched {
		if _, ok := known[hostname]; ok {
			observed = append(observed, hostname)
		} else {
			fresh = append(fresh, hostname)
		}
	}

	detectedAt := time.Now()

	err = m.store.WithTx(ctx, func(tx storage.AllStorage) error {
		if len(fresh) > 0 {
			records := make([]domain.Subdomain, 0, len(fresh))
			for _, hostname := range fresh {
				records = append(records, domain.Subdomain{Domain: dom, Hostname: hostname})
			}
			if _, err := tx.StoreSubdomains(ctx, records...); err != nil {
				return err
			}
		}
		if len(observed) > 0 {
			if err := tx.TouchSubdomains(ctx, dom, observed); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		metrics.DomainErrors.WithLabelValues(dom, "store").Inc()

		return serrors.Wrap(serrors.ErrStore, err, "could not persist subdomains for %s", dom)
	}
	metrics.NewSubdomains.WithLabelValues(dom).Add(float64(len(fresh)))

	batch := domain.Batch{Domain: dom, Hostnames: fresh, DetectedAt: detectedAt}

	delivered := make([]string, 0)
	for _, delivery := range m.notifier.Notify(ctx, batch) {
		if delivery.Err != nil {
			metrics.Deliveries.WithLabelValues(delivery.Channel, "error").Inc()
			logger.Error(ctx, "notification delivery failed",
				zap.String("channel", delivery.Channel), zap.Error(delivery.Err))

			continue
		}

		metrics.Deliveries.WithLabelValues(delivery.Channel, "ok").Inc()
		delivered = append(delivered, delivery.Channel)
	}

	if len(fresh) > 0 {
		logger.Info(ctx, "new subdomains detected",
			zap.Int("fetched", len(fetched)),
			zap.Int("new", len(fresh)),
			zap.Strings("hostnames", batch.Sorted()),
			zap.Strings("delivered", delivered))
	} else {
		logger.Debug(ctx, "no new subdomains", zap.Int("fetched", len(fetched)))
	}

	return nil
}
