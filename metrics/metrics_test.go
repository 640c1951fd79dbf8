package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEvaluation(t *testing.T) {
	dag := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("dag"))
	cyclic := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("cyclic"))
	failed := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("error"))

	ObserveEvaluation(3, 2, true, nil)
	ObserveEvaluation(2, 2, false, nil)
	ObserveEvaluation(0, 0, false, errors.New("boom"))

	if got := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("dag")); got != dag+1 {
		t.Errorf("dag = %v, want %v", got, dag+1)
	}
	if got := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("cyclic")); got != cyclic+1 {
		t.Errorf("cyclic = %v, want %v", got, cyclic+1)
	}
	if got := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("error")); got != failed+1 {
		t.Errorf("error = %v, want %v", got, failed+1)
	}
}
