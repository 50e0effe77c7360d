package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Constants for metric names and descriptions as well as exported labels for Vector metrics
const (
	namespace = "ops_utils"

	operationsName = "operations_total"
	operationsHelp = "The total number of namespace operations, by operation and outcome"

	execTimeName = "operation_exec_time"
	execTimeHelp = "Execution time in milliseconds of a namespace operation"

	operationLabel = "operation"
	hadErrorLabel  = "had_error"

	quantileMedian float64 = 0.5
	deltaMedian    float64 = 0.05
	quantile90th   float64 = 0.9
	delta90th      float64 = 0.01
	quantil99th    float64 = 0.99
	delta99th      float64 = 0.001
)

var (
	registry = prometheus.NewRegistry()
	initOnce sync.Once

	// quantiles e.g. the "0.5 quantile" with delta 0.05 will actually be the phi quantile for some phi in [0.5 - 0.05, 0.5 + 0.05]
	execTimeQuantiles = map[float64]float64{quantileMedian: deltaMedian, quantile90th: delta90th, quantil99th: delta99th}

	operations      *prometheus.CounterVec
	execTime        *prometheus.SummaryVec
	operationLabels = []string{operationLabel, hadErrorLabel}
)

type OperationKind string

const (
	OpenSocketOp    OperationKind = "open_socket"
	CloseSocketOp   OperationKind = "close_socket"
	MoveInterfaceOp OperationKind = "move_interface"
	ListLinksOp     OperationKind = "list_links"
)

// InitializeAll creates the metrics. Calling it again is a no-op.
func InitializeAll() {
	initOnce.Do(func() {
		operations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      operationsName,
				Help:      operationsHelp,
			},
			operationLabels,
		)
		// uses default observation TTL of 10 minutes
		execTime = prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace:  namespace,
				Name:       execTimeName,
				Help:       execTimeHelp,
				Objectives: execTimeQuantiles,
			},
			operationLabels,
		)
		registry.MustRegister(operations, execTime)
	})
}

// Registry returns the registry holding every metric of this package.
func Registry() *prometheus.Registry {
	InitializeAll()
	return registry
}

// RecordOperation counts one op and observes the time since timer started.
func RecordOperation(op OperationKind, timer *Timer, err error) {
	InitializeAll()

	labels := prometheus.Labels{
		operationLabel: string(op),
		hadErrorLabel:  strconv.FormatBool(err != nil),
	}
	operations.With(labels).Inc()
	execTime.With(labels).Observe(timer.elapsedMilliseconds())
}

// WriteTextfile writes every metric to path in the text exposition format,
// for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, Registry()), "failed to write metrics to %s", path)
}

// Timer measures one operation from StartNewTimer until it is recorded.
type Timer struct {
	start time.Time
}

func StartNewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) elapsedMilliseconds() float64 {
	return float64(time.Since(t.start)) / float64(time.Millisecond)
}
