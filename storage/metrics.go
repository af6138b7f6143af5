package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for blob store operations.
type Observer interface {
	RecordUpload(duration time.Duration, sizeBytes int, err error)
	RecordDelete(duration time.Duration, err error)
}

// PrometheusObserver exports blob store metrics to Prometheus.
type PrometheusObserver struct {
	duration    *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	uploadBytes prometheus.Counter
}

func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "blob_store"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of blob store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Count of failed blob store operations.",
		}, []string{"operation"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes successfully uploaded to the blob store.",
		}),
	}
	collectors := []prometheus.Collector{o.duration, o.errors, o.uploadBytes}
	for i, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, fmt.Errorf("register blob store metric: %w", err)
			}
			switch i {
			case 0:
				o.duration = are.ExistingCollector.(*prometheus.HistogramVec)
			case 1:
				o.errors = are.ExistingCollector.(*prometheus.CounterVec)
			case 2:
				o.uploadBytes = are.ExistingCollector.(prometheus.Counter)
			}
		}
	}
	return o, nil
}

func (o *PrometheusObserver) RecordUpload(duration time.Duration, sizeBytes int, err error) {
	o.duration.WithLabelValues("put").Observe(duration.Seconds())
	if err != nil {
		o.errors.WithLabelValues("put").Inc()
		return
	}
	o.uploadBytes.Add(float64(sizeBytes))
}

func (o *PrometheusObserver) RecordDelete(duration time.Duration, err error) {
	o.duration.WithLabelValues("delete").Observe(duration.Seconds())
	if err != nil {
		o.errors.WithLabelValues("delete").Inc()
	}
}

// ObservedStore reports every call of the wrapped store to an Observer.
type ObservedStore struct {
	BlobStore
	observer Observer
}

func NewObservedStore(store BlobStore, observer Observer) *ObservedStore {
	return &ObservedStore{BlobStore: store, observer: observer}
}

func (s *ObservedStore) Put(ctx context.Context, data []byte, key, contentType string) (string, error) {
	start := time.Now()
	url, err := s.BlobStore.Put(ctx, data, key, contentType)
	s.observer.RecordUpload(time.Since(start), len(data), err)
	return url, err
}

func (s *ObservedStore) Delete(ctx context.Context, url string) error {
	start := time.Now()
	err := s.BlobStore.Delete(ctx, url)
	s.observer.RecordDelete(time.Since(start), err)
	return err
}
