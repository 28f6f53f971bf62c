package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	analysesCompleted atomic.Int64
	analysesFailed    atomic.Int64
	urgentFindings    atomic.Int64
	protocolFallbacks atomic.Int64
	pollTimeouts      atomic.Int64
)

func Init() {}

func ObserveAnalysisCompleted(urgent bool) {
	analysesCompleted.Add(1)
	if urgent {
		urgentFindings.Add(1)
	}
}

func ObserveAnalysisFailed() {
	analysesFailed.Add(1)
}

func ObserveProtocolFallback() {
	protocolFallbacks.Add(1)
}

func ObservePollTimeout() {
	pollTimeouts.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP seekwell_analysis_completed_total Number of lesion analyses completed successfully.\n")
	fmt.Fprintf(w, "# TYPE seekwell_analysis_completed_total counter\n")
	fmt.Fprintf(w, "seekwell_analysis_completed_total %d\n", analysesCompleted.Load())

	fmt.Fprintf(w, "# HELP seekwell_analysis_failed_total Number of lesion analyses that failed before producing a result.\n")
	fmt.Fprintf(w, "# TYPE seekwell_analysis_failed_total counter\n")
	fmt.Fprintf(w, "seekwell_analysis_failed_total %d\n", analysesFailed.Load())

	fmt.Fprintf(w, "# HELP seekwell_analysis_urgent_total Number of completed analyses that required urgent attention.\n")
	fmt.Fprintf(w, "# TYPE seekwell_analysis_urgent_total counter\n")
	fmt.Fprintf(w, "seekwell_analysis_urgent_total %d\n", urgentFindings.Load())

	fmt.Fprintf(w, "# HELP seekwell_inference_protocol_fallback_total Number of submission attempts that fell through to the next candidate protocol.\n")
	fmt.Fprintf(w, "# TYPE seekwell_inference_protocol_fallback_total counter\n")
	fmt.Fprintf(w, "seekwell_inference_protocol_fallback_total %d\n", protocolFallbacks.Load())

	fmt.Fprintf(w, "# HELP seekwell_inference_poll_timeout_total Number of deferred jobs that never reached a terminal state within the polling budget.\n")
	fmt.Fprintf(w, "# TYPE seekwell_inference_poll_timeout_total counter\n")
	fmt.Fprintf(w, "seekwell_inference_poll_timeout_total %d\n", pollTimeouts.Load())
}
