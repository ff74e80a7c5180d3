package set

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bstree_set_operations_total",
	Help: "Number of operations on the set by operation and outcome",
}, []string{"op", "result"})

var setValues = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "bstree_set_values",
	Help: "Number of values in the set",
})

var treeHeight = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "bstree_set_tree_height",
	Help: "Height of the tree holding the set, as of the last list or health check",
})

func countOperation(op string, ok bool) {
	result := "hit"
	if !ok {
		result = "miss"
	}

	operations.WithLabelValues(op, result).Inc()
}
