package set

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/eaugeas/bstree/container/tree"
	"github.com/eaugeas/bstree/logs"
	"github.com/eaugeas/bstree/rpcs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = logs.NewLogrus(logs.LogrusLoggerProperties{
	Level:  logrus.DebugLevel,
	Output: io.Discard,
})

func newService() *Service {
	return NewService(ServiceProps{
		Logger:        logger,
		Coin:          tree.NewRandomCoin(1),
		VerifyOnWrite: true,
	})
}

func newRouter(s *Service) *rpcs.HttpRouter {
	binder := rpcs.NewHttpBinder(rpcs.HttpBinderProperties{
		Encoder:        rpcs.JsonEncoder{},
		Logger:         logger,
		HandlerFactory: rpcs.NewHttpJsonHandlerFactory(logger, 1024),
	})
	s.Bind(binder)
	return binder.Build()
}

func do(t *testing.T, router http.Handler, method, path, body string) (int, map[string]interface{}) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	var res map[string]interface{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	}

	return recorder.Code, res
}

func TestServiceNoLoggerPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewService(ServiceProps{})
	})
}

func TestServiceOperations(t *testing.T) {
	s := newService()
	ctx := context.Background()

	for _, v := range []int{3, 1, 5, 2, 4, 6} {
		assert.True(t, s.Insert(ctx, v))
	}
	assert.False(t, s.Insert(ctx, 4))

	assert.True(t, s.Delete(ctx, 5))
	assert.False(t, s.Delete(ctx, 5))
	assert.False(t, s.Contains(ctx, 5))
	assert.True(t, s.Contains(ctx, 6))

	values, stats := s.List(ctx)
	assert.Equal(t, []int{1, 2, 3, 4, 6}, values)
	assert.Equal(t, 5, stats.Len)

	_, err := s.Verify(ctx)
	assert.NoError(t, err)
}

func TestServiceConcurrentAccess(t *testing.T) {
	s := newService()
	ctx := context.Background()
	wg := sync.WaitGroup{}

	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Insert(ctx, w*100+i)
				if i%3 == 0 {
					s.Delete(ctx, w*100+i)
				}
			}
		}(w)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Contains(ctx, w*100+i)
				s.List(ctx)
			}
		}(w)
	}

	wg.Wait()

	values, stats := s.List(ctx)
	assert.Equal(t, 4*66, stats.Len)
	assert.Len(t, values, stats.Len)
	_, err := s.Verify(ctx)
	assert.NoError(t, err)
}

func TestServiceHttpInsertAndList(t *testing.T) {
	router := newRouter(newService())

	code, res := do(t, router, "POST", "/values", `{"value": 7}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"value": float64(7), "inserted": true}, res)

	code, res = do(t, router, "POST", "/values", `{"value": 7}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, res["inserted"])

	do(t, router, "POST", "/values", `{"value": 2}`)

	code, res = do(t, router, "GET", "/values", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{float64(2), float64(7)}, res["values"])
	assert.Equal(t, float64(2), res["len"])
	assert.Equal(t, float64(2), res["height"])
}

func TestServiceHttpFind(t *testing.T) {
	router := newRouter(newService())
	do(t, router, "POST", "/values", `{"value": -3}`)

	code, res := do(t, router, "POST", "/values/find", `{"value": -3}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, res["found"])

	_, res = do(t, router, "POST", "/values/find", `{"value": 3}`)
	assert.Equal(t, false, res["found"])
}

func TestServiceHttpDelete(t *testing.T) {
	router := newRouter(newService())
	do(t, router, "POST", "/values", `{"value": 1}`)

	code, res := do(t, router, "DELETE", "/values", `{"value": 1}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), res["value"])

	code, res = do(t, router, "DELETE", "/values", `{"value": 1}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, float64(1003), res["errorCode"])
}

func TestServiceHttpInvalidValue(t *testing.T) {
	router := newRouter(newService())

	code, res := do(t, router, "POST", "/values", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, float64(1001), res["errorCode"])

	code, _ = do(t, router, "POST", "/values", `{"value": "seven"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, "POST", "/values", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServiceHttpListRejectsBody(t *testing.T) {
	router := newRouter(newService())

	code, _ := do(t, router, "GET", "/values", `{"value": 1}`)

	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServiceHttpHealth(t *testing.T) {
	s := newService()
	router := newRouter(s)
	for _, v := range []string{"5", "3", "8"} {
		do(t, router, "POST", "/values", `{"value": `+v+`}`)
	}

	code, res := do(t, router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", res["status"])
	assert.Equal(t, float64(3), res["len"])

	// break a back link behind the service
	s.values.Find(3).SetParent(nil)

	code, res = do(t, router, "GET", "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, float64(1004), res["errorCode"])
}

func TestServiceHttpCorruptionOnWrite(t *testing.T) {
	s := newService()
	router := newRouter(s)
	do(t, router, "POST", "/values", `{"value": 5}`)
	do(t, router, "POST", "/values", `{"value": 3}`)
	s.values.Find(3).SetParent(nil)

	code, res := do(t, router, "POST", "/values", `{"value": 9}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, float64(-1), res["errorCode"])

	// the lock is released after the panic
	assert.True(t, s.Contains(context.Background(), 9))
}
