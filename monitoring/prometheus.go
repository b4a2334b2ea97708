package monitoring

import (
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

type treasuryPromMetrics struct {
	nodeUpUnixSeconds  prometheus.Gauge
	fundingRequests    prometheus.Counter
	fundingApprovals   prometheus.Counter
	fundingExecuted    prometheus.Counter
	fundingExpired     prometheus.Counter
	allocations        *prometheus.CounterVec
	rejectedOperations *prometheus.CounterVec
	trustees           prometheus.Gauge
	reserveFunds       prometheus.Gauge
	poolSupply         prometheus.Gauge
	vestingReleases    prometheus.Counter
	panicCount         prometheus.Counter
	apiLatency         *prometheus.HistogramVec
}

func newTreasuryPromMetrics() *treasuryPromMetrics {
	return &treasuryPromMetrics{
		nodeUpUnixSeconds: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "treasury_node_up_timestamp_unix_seconds",
			Help: "Unix timestamp of the treasury node start",
		}),
		fundingRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_funding_requests_total",
			Help: "The total number of funding requests created",
		}),
		fundingApprovals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_funding_approvals_total",
			Help: "The total number of trustee approvals recorded",
		}),
		fundingExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_funding_executed_total",
			Help: "The total number of funding requests that reached quorum",
		}),
		fundingExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_funding_expired_total",
			Help: "The total number of funding requests that lapsed before quorum",
		}),
		allocations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "treasury_allocations_total",
			Help: "The total number of fund allocations",
		}, []string{"category"}),
		rejectedOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "treasury_rejected_operations_total",
			Help: "The total number of rejected state-changing operations",
		}, []string{"operation", "code"}),
		trustees: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "treasury_trustees",
			Help: "The current number of trustees",
		}),
		reserveFunds: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "treasury_reserve_funds",
			Help: "Reserve funds available for executing funding requests",
		}),
		poolSupply: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "treasury_pool_supply",
			Help: "Aggregate allocated pool supply",
		}),
		vestingReleases: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_vesting_releases_total",
			Help: "The total number of vesting releases",
		}),
		panicCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treasury_panic_count",
			Help: "The number of recovered panics in background workers",
		}),
		apiLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treasury_api_request_duration_seconds",
			Help:    "Latency of API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

var (
	metricsOnce     sync.Once
	treasuryMetrics *treasuryPromMetrics
)

func metrics() *treasuryPromMetrics {
	metricsOnce.Do(func() {
		treasuryMetrics = newTreasuryPromMetrics()
	})
	return treasuryMetrics
}

// InitMetrics registers the collectors and stamps the start time
func InitMetrics() {
	metrics().nodeUpUnixSeconds.SetToCurrentTime()
}

func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("MONITORING", "registering prometheus metrics on /metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

func IncreaseFundingRequests() {
	metrics().fundingRequests.Inc()
}

func IncreaseFundingApprovals() {
	metrics().fundingApprovals.Inc()
}

func IncreaseFundingExecuted() {
	metrics().fundingExecuted.Inc()
}

func IncreaseFundingExpired() {
	metrics().fundingExpired.Inc()
}

func RecordAllocation(category string) {
	metrics().allocations.WithLabelValues(category).Inc()
}

func RecordRejectedOperation(operation, code string) {
	metrics().rejectedOperations.WithLabelValues(operation, code).Inc()
}

func SetTrusteeCount(n int) {
	metrics().trustees.Set(float64(n))
}

func SetReserveFunds(amount *uint256.Int) {
	metrics().reserveFunds.Set(toFloat(amount))
}

func SetPoolSupply(amount *uint256.Int) {
	metrics().poolSupply.Set(toFloat(amount))
}

func IncreaseVestingReleases() {
	metrics().vestingReleases.Inc()
}

func IncreasePanicCount() {
	metrics().panicCount.Inc()
}

func ObserveAPIRequest(route, status string, d time.Duration) {
	metrics().apiLatency.WithLabelValues(route, status).Observe(d.Seconds())
}

func toFloat(amount *uint256.Int) float64 {
	if amount == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(amount.ToBig()).Float64()
	return f
}
