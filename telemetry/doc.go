// Package telemetry provides router observers that export navigation
// metrics to Prometheus and navigation spans to OpenTelemetry. Attach them
// with router.WithObserver or Router.AddObserver. This package is the only
// place that imports the Prometheus and OpenTelemetry clients so the core
// router stays free of them.
package telemetry
