package set

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/eaugeas/bstree/container/tree"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRenderShapeEmpty(t *testing.T) {
	assert.Equal(t, "", renderShape(nil))
}

func TestServiceShape(t *testing.T) {
	s := newService()
	ctx := context.Background()
	for _, v := range []int{5, 2, 7, 1, 3} {
		s.Insert(ctx, v)
	}

	shape, stats := s.Shape(ctx)

	assert.Equal(t, 5, stats.Len)
	assert.Equal(t, 3, stats.Height)
	lines := strings.Split(strings.TrimSpace(shape), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "5", lines[0])
	assert.Contains(t, lines[1], "left: 2")
	assert.Contains(t, lines[2], "left: 1")
	assert.Contains(t, lines[3], "right: 3")
	assert.Contains(t, lines[4], "right: 7")
}

func TestRenderShapeRightChildOnly(t *testing.T) {
	values := tree.NewTree[int](tree.IntLesser{})
	values.Insert(1)
	values.Insert(2)

	shape := renderShape(values.Root())

	assert.Contains(t, shape, "right: 2")
	assert.NotContains(t, shape, "left")
}

func TestServiceHttpShape(t *testing.T) {
	router := newRouter(newService())
	do(t, router, "POST", "/values", `{"value": 4}`)
	do(t, router, "POST", "/values", `{"value": 9}`)

	code, res := do(t, router, "GET", "/values/shape", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, res["shape"], "right: 9")
	assert.Equal(t, float64(2), res["len"])
}

func TestServiceMetrics(t *testing.T) {
	s := newService()
	ctx := context.Background()
	hits := testutil.ToFloat64(operations.WithLabelValues("insert", "hit"))
	misses := testutil.ToFloat64(operations.WithLabelValues("insert", "miss"))

	s.Insert(ctx, 1)
	s.Insert(ctx, 2)
	s.Insert(ctx, 2)

	assert.Equal(t, hits+2, testutil.ToFloat64(operations.WithLabelValues("insert", "hit")))
	assert.Equal(t, misses+1, testutil.ToFloat64(operations.WithLabelValues("insert", "miss")))
	assert.Equal(t, float64(2), testutil.ToFloat64(setValues))

	s.List(ctx)
	assert.Equal(t, float64(2), testutil.ToFloat64(treeHeight))
}
