package set

import (
	"context"
	"sync"

	"github.com/eaugeas/bstree/container/tree"
	errs "github.com/eaugeas/bstree/errors"
	"github.com/eaugeas/bstree/logs"
	"github.com/eaugeas/bstree/rpcs"
)

// ServiceProps are the properties used to create a new Service
type ServiceProps struct {
	Logger logs.Logger

	// Coin decides the side that donates the replacement of deleted
	// nodes with two children. Defaults to a time seeded coin
	Coin tree.Coin

	// VerifyOnWrite checks the whole tree after every insertion and
	// deletion. It makes writes linear in the size of the set
	VerifyOnWrite bool
}

// Service is a set of integers kept in a tree.Tree. A Tree only
// supports a single writer, so the Service serializes writes and
// lets reads run concurrently
type Service struct {
	mu            sync.RWMutex
	values        *tree.Tree[int]
	logger        logs.Logger
	verifyOnWrite bool
}

// NewService creates a new empty set
func NewService(props ServiceProps) *Service {
	if props.Logger == nil {
		panic("logger must be set")
	}

	return &Service{
		values:        tree.NewTreeWithOpts[int](tree.IntLesser{}, tree.TreeOpts[int]{Coin: props.Coin}),
		logger:        props.Logger.ForClass("set", "Service"),
		verifyOnWrite: props.VerifyOnWrite,
	}
}

// Insert adds v to the set. It returns false if v was
// already in the set
func (s *Service) Insert(ctx context.Context, v int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := s.values.Insert(v)
	s.afterWrite(ctx, "insert")
	countOperation("insert", inserted)
	setValues.Set(float64(s.values.Len()))
	return inserted
}

// Delete removes v from the set. It returns false if v
// was not in the set
func (s *Service) Delete(ctx context.Context, v int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, deleted := s.values.Delete(v)
	s.afterWrite(ctx, "delete")
	countOperation("delete", deleted)
	setValues.Set(float64(s.values.Len()))
	return deleted
}

func (s *Service) afterWrite(ctx context.Context, op string) {
	if !s.verifyOnWrite {
		return
	}

	if err := s.values.Verify(); err != nil {
		s.logger.Error(ctx, "tree verification failed", logs.MapFields{
			"op":  op,
			"err": err.Error(),
		})
		panic(err)
	}
}

// Contains returns true if v is in the set
func (s *Service) Contains(ctx context.Context, v int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := s.values.Contains(v)
	countOperation("find", found)
	return found
}

// Stats describes the shape of the set
type Stats struct {
	Len    int `json:"len"`
	Height int `json:"height"`
}

// List returns the values of the set in ascending order
func (s *Service) List(ctx context.Context) ([]int, Stats) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values.Values(), s.stats()
}

// Verify checks the consistency of the tree holding the set
func (s *Service) Verify(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats(), s.values.Verify()
}

func (s *Service) stats() Stats {
	stats := Stats{Len: s.values.Len(), Height: s.values.Height()}
	setValues.Set(float64(stats.Len))
	treeHeight.Set(float64(stats.Height))
	return stats
}

// ValueRequest is the body of the requests that refer to a value
type ValueRequest struct {
	Value *int `json:"value"`
}

// Validate returns an error if the request has no value
func (r *ValueRequest) Validate() error {
	if r.Value == nil {
		return errs.New(errs.ErrorCodeInvalidValue, "value must be set")
	}

	return nil
}

// InsertResponse is the response to an insertion
type InsertResponse struct {
	Value    int  `json:"value"`
	Inserted bool `json:"inserted"`
}

// DeleteResponse is the response to a deletion
type DeleteResponse struct {
	Value int `json:"value"`
}

// FindResponse is the response to a membership query
type FindResponse struct {
	Value int  `json:"value"`
	Found bool `json:"found"`
}

// ListResponse is the response with all the values of the set
type ListResponse struct {
	Values []int `json:"values"`
	Stats
}

// HealthResponse is the response of the health check
type HealthResponse struct {
	Status string `json:"status"`
	Stats
}

func valueRequestFactory() rpcs.EntityFactory {
	return rpcs.EntityFactoryFunc(func() interface{} {
		return &ValueRequest{}
	})
}

func decodeValue(ctx context.Context, v interface{}) (int, error) {
	req, ok := v.(*ValueRequest)
	if !ok {
		return 0, rpcs.HttpBadRequest(ctx, errs.New(errs.ErrorCodeInvalidValue, "unexpected body"))
	}

	if err := req.Validate(); err != nil {
		return 0, rpcs.HttpBadRequest(ctx, err)
	}

	return *req.Value, nil
}

// InsertHandler handles the insertion of a value
func (s *Service) InsertHandler() rpcs.Handler {
	return rpcs.HandlerFunc(func(ctx context.Context, body interface{}) (interface{}, error) {
		v, err := decodeValue(ctx, body)
		if err != nil {
			return nil, err
		}

		return InsertResponse{Value: v, Inserted: s.Insert(ctx, v)}, nil
	})
}

// DeleteHandler handles the deletion of a value. Deleting a value
// that is not in the set is a not found error
func (s *Service) DeleteHandler() rpcs.Handler {
	return rpcs.HandlerFunc(func(ctx context.Context, body interface{}) (interface{}, error) {
		v, err := decodeValue(ctx, body)
		if err != nil {
			return nil, err
		}

		if !s.Delete(ctx, v) {
			return nil, rpcs.HttpNotFound(ctx, errs.New(errs.ErrorCodeValueMissing, "value %d not found", v))
		}

		return DeleteResponse{Value: v}, nil
	})
}

// FindHandler handles membership queries
func (s *Service) FindHandler() rpcs.Handler {
	return rpcs.HandlerFunc(func(ctx context.Context, body interface{}) (interface{}, error) {
		v, err := decodeValue(ctx, body)
		if err != nil {
			return nil, err
		}

		return FindResponse{Value: v, Found: s.Contains(ctx, v)}, nil
	})
}

// ListHandler handles the listing of the values
func (s *Service) ListHandler() rpcs.Handler {
	return rpcs.HandlerFunc(func(ctx context.Context, body interface{}) (interface{}, error) {
		values, stats := s.List(ctx)
		return ListResponse{Values: values, Stats: stats}, nil
	})
}

// HealthHandler verifies the tree and reports the result
func (s *Service) HealthHandler() rpcs.Handler {
	return rpcs.HandlerFunc(func(ctx context.Context, body interface{}) (interface{}, error) {
		stats, err := s.Verify(ctx)
		if err != nil {
			s.logger.Error(ctx, "health check failed", logs.MapFields{"err": err.Error()})
			return nil, rpcs.HttpServiceUnavailable(ctx, errs.New(errs.ErrorCodeTreeCorrupted, "%s", err.Error()))
		}

		return HealthResponse{Status: "ok", Stats: stats}, nil
	})
}

// Bind binds the handlers of the service to their routes
func (s *Service) Bind(binder *rpcs.HttpBinder) {
	binder.Bind("POST", "/values", s.InsertHandler(), valueRequestFactory())
	binder.Bind("DELETE", "/values", s.DeleteHandler(), valueRequestFactory())
	binder.Bind("GET", "/values", s.ListHandler(), rpcs.NoBody)
	binder.Bind("POST", "/values/find", s.FindHandler(), valueRequestFactory())
	binder.Bind("GET", "/values/shape", s.ShapeHandler(), rpcs.NoBody)
	binder.Bind("GET", "/health", s.HealthHandler(), rpcs.NoBody)
}
