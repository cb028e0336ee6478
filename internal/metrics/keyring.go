package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// KeyringSnapshot is the keyring state exported as gauges.
type KeyringSnapshot struct {
	Keys         int
	ActiveKeyAge time.Duration
}

// KeyringSnapshotFunc returns the current keyring state. ok is false while no
// keyring is loaded, in which case nothing is observed.
type KeyringSnapshotFunc func() (snapshot KeyringSnapshot, ok bool)

// RegisterKeyringGauges registers observable gauges for the number of keys in the
// keyring and the age of the active key. Values are read from snapshot at
// collection time. The returned registration must be unregistered on shutdown.
func RegisterKeyringGauges(
	meterProvider metric.MeterProvider,
	namespace string,
	snapshot KeyringSnapshotFunc,
) (metric.Registration, error) {
	meter := meterProvider.Meter(namespace)

	keysGauge, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_keyring_keys", namespace),
		metric.WithDescription("Number of data keys in the keyring"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyring keys gauge: %w", err)
	}

	ageGauge, err := meter.Float64ObservableGauge(
		fmt.Sprintf("%s_keyring_active_key_age_seconds", namespace),
		metric.WithDescription("Age of the active data key in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active key age gauge: %w", err)
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s, ok := snapshot()
		if !ok {
			return nil
		}
		o.ObserveInt64(keysGauge, int64(s.Keys))
		o.ObserveFloat64(ageGauge, s.ActiveKeyAge.Seconds())
		return nil
	}, keysGauge, ageGauge)
	if err != nil {
		return nil, fmt.Errorf("failed to register keyring callback: %w", err)
	}

	return reg, nil
}
