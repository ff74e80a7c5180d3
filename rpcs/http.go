package rpcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"

	errs "github.com/eaugeas/bstree/errors"
	"github.com/eaugeas/bstree/logs"
	stderr "github.com/pkg/errors"
	"github.com/rs/cors"
)

const HttpHeaderTraceID = "X-TRACE-ID"

// HttpPreProcessorResult is the outcome of an HttpPreProcessor
type HttpPreProcessorResult struct {
	// Request is the request to pass on to the next handler, which may
	// be a modified copy of the original
	Request *http.Request

	// Continue is false when the pre processor already wrote the
	// response and no further handling is required
	Continue bool
}

// HttpPreProcessor processes a request before its handler and can
// directly write a response to the writer if required
type HttpPreProcessor interface {
	ServeHTTP(w http.ResponseWriter, req *http.Request) (HttpPreProcessorResult, error)
}

// HttpMiddleware are the handlers that offer extra functionality to a request and
// that in success will forward the request to another handler
type HttpMiddleware interface {
	// ServeHTTP allows to handle an http request. The response will be serialized
	// by an HttpRouter
	ServeHTTP(req *http.Request) (interface{}, error)
}

// HttpMiddlewareFunc allows functions to implement the HttpMiddleware interface
type HttpMiddlewareFunc func(req *http.Request) (interface{}, error)

// ServeHTTP is the implementation of HttpMiddleware for HttpMiddlewareFunc
func (f HttpMiddlewareFunc) ServeHTTP(req *http.Request) (interface{}, error) {
	return f(req)
}

// HttpError holds the necessary information to return an error when
// using the http protocol
type HttpError struct {
	// Cause of the creation of this HttpError instance
	Cause error

	// StatusCode is the HTTP status code that defines the error cause
	StatusCode int

	// Message is the human-readable string that defines the error cause
	Message string
}

// Log implementation of logs.Loggable
func (e *HttpError) Log(fields logs.Fields) {
	fields.Add("status_code", e.StatusCode)

	var cause *errs.Error
	switch {
	case errors.As(e.Cause, &cause):
		cause.Log(fields)
	case e.Cause != nil:
		fields.Add("description", e.Cause.Error())
	}
}

// Error is the implementation of go's error interface for Error
func (e *HttpError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s with status code %d", e.Message, e.StatusCode)
	}

	return fmt.Sprintf("%s with status code %d", e.Cause.Error(), e.StatusCode)
}

// Unwrap returns the cause of the error
func (e *HttpError) Unwrap() error {
	return e.Cause
}

// MakeHttpError makes a new http error
func MakeHttpError(ctx context.Context, err error, statusCode int, msg string) *HttpError {
	return &HttpError{
		Cause:      err,
		StatusCode: statusCode,
		Message:    msg,
	}
}

// HttpBadRequest returns an HTTP bad request error
func HttpBadRequest(ctx context.Context, err error) *HttpError {
	return HttpBadRequestWithMessage(ctx, err, "Bad Request")
}

// HttpBadRequestWithMessage returns an HTTP bad request error with
// a custom message
func HttpBadRequestWithMessage(ctx context.Context, err error, msg string) *HttpError {
	return MakeHttpError(ctx, err, http.StatusBadRequest, msg)
}

// HttpNotFound returns an HTTP not found error
func HttpNotFound(ctx context.Context, err error) *HttpError {
	return MakeHttpError(ctx, err, http.StatusNotFound, "Not Found")
}

// HttpMethodNotAllowed returns an HTTP method not allowed error
func HttpMethodNotAllowed(ctx context.Context, err error) *HttpError {
	return MakeHttpError(ctx, err, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// HttpInternalServerError returns an HTTP internal server error
func HttpInternalServerError(ctx context.Context, err error) *HttpError {
	return MakeHttpError(ctx, err, http.StatusInternalServerError, "Internal Server Error")
}

// HttpServiceUnavailable returns an HTTP service unavailable error
func HttpServiceUnavailable(ctx context.Context, err error) *HttpError {
	return MakeHttpError(ctx, err, http.StatusServiceUnavailable, "Service Unavailable")
}

// asHttpError converts any error into an HttpError. Errors that
// are not HttpErrors are internal
func asHttpError(ctx context.Context, err error) *HttpError {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	return HttpInternalServerError(ctx, err)
}

// writeError writes the status code of err and, when err has a cause,
// a body with the error code of the cause. The description is the
// message of err, so causes never reach the client
func writeError(
	res http.ResponseWriter,
	req *http.Request,
	encoder Encoder,
	logger logs.Logger,
	err *HttpError,
) error {
	res.Header().Set(HttpHeaderTraceID, strconv.FormatInt(logs.GetTraceID(req.Context()), 10))
	res.WriteHeader(err.StatusCode)

	if err.Cause == nil {
		return nil
	}

	body := errs.Error{ErrorCode: errs.ErrorCodeUnknown, Description: err.Message}
	var cause *errs.Error
	if errors.As(err.Cause, &cause) {
		body.ErrorCode = cause.ErrorCode
	}

	if eerr := encoder.Encode(res, body); eerr != nil {
		logger.Warn(req.Context(), "failed to encode error response to response writer", logs.MapFields{
			"path":      req.URL.EscapedPath(),
			"method":    req.Method,
			"call_type": "HttpEncodeErrorError",
		}, &errs.Error{Description: eerr.Error()})
		return eerr
	}

	return nil
}

func requestFields(req *http.Request, status int, err error) logs.MapFields {
	fields := logs.MapFields{
		"path":   req.URL.EscapedPath(),
		"method": req.Method,
		"status": status,
	}

	if err != nil {
		fields["err"] = err.Error()
	}

	return fields
}

// MethodHandlers keeps the handlers for each of the methods
type MethodHandlers map[string]HttpMiddleware

// Add a new handler to the set
func (h MethodHandlers) Add(method string, middleware HttpMiddleware) {
	h[method] = middleware
}

// HttpRoute multiplexes the handling of a request to the handler
// that expects a particular method
type HttpRoute struct {
	logger        logs.Logger
	handlers      MethodHandlers
	preProcessors []HttpPreProcessor
	encoder       Encoder
}

// HttpRouteProps are the required properties to create
// a new HttpRoute instance
type HttpRouteProps struct {
	Logger        logs.Logger
	Encoder       Encoder
	Handlers      MethodHandlers
	PreProcessors []HttpPreProcessor
}

// NewHttpRoute creates a new route instance
func NewHttpRoute(props HttpRouteProps) *HttpRoute {
	return &HttpRoute{
		logger:        props.Logger,
		handlers:      props.Handlers,
		preProcessors: props.PreProcessors,
		encoder:       props.Encoder,
	}
}

// HasHandler returns true if the route has a handler that
// would handle the provided method
func (h *HttpRoute) HasHandler(method string) bool {
	_, ok := h.handlers[method]
	return ok
}

func (h *HttpRoute) reportSuccess(
	res http.ResponseWriter,
	req *http.Request,
	body interface{},
) (int, error) {
	res.Header().Set(HttpHeaderTraceID, strconv.FormatInt(logs.GetTraceID(req.Context()), 10))

	if body == nil {
		res.WriteHeader(http.StatusNoContent)
		return http.StatusNoContent, nil
	}

	res.Header().Set("Content-Type", "application/json")
	if err := h.encoder.Encode(res, body); err != nil {
		res.WriteHeader(http.StatusInternalServerError)
		return 0, err
	}

	return http.StatusOK, nil
}

// ServeHTTP is the implementation of http.Handler for HttpRoute
func (h *HttpRoute) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	h.logger.Debug(req.Context(), "handle request", logs.MapFields{
		"path":   req.URL.Path,
		"method": req.Method,
	})

	result := HttpPreProcessorResult{Continue: true, Request: req}
	var err error
	for _, preProcessor := range h.preProcessors {
		result, err = preProcessor.ServeHTTP(res, result.Request)
		if err != nil {
			h.logger.Warn(req.Context(), "error", requestFields(req, 0, err))
			return
		}

		if !result.Continue {
			return
		}
	}

	status, err := h.serveHTTP(res, result.Request)
	fields := requestFields(req, status, err)
	switch {
	case status >= http.StatusOK && status <= 299:
		h.logger.Info(req.Context(), "success", fields)
	case status > 299 && status < 400:
		h.logger.Debug(req.Context(), "redirect", fields)
	default:
		h.logger.Warn(req.Context(), "error", fields)
	}
}

func (h *HttpRoute) serveHTTP(res http.ResponseWriter, req *http.Request) (int, error) {
	handler, ok := h.handlers[req.Method]
	if !ok {
		return h.reportError(res, req, HttpMethodNotAllowed(req.Context(), nil))
	}

	v, err := handler.ServeHTTP(req)
	if err != nil {
		return h.reportError(res, req, asHttpError(req.Context(), err))
	}

	return h.reportSuccess(res, req, v)
}

func (h *HttpRoute) reportError(res http.ResponseWriter, req *http.Request, err *HttpError) (int, error) {
	if eerr := writeError(res, req, h.encoder, h.logger, err); eerr != nil {
		return 0, eerr
	}

	return err.StatusCode, err
}

// HttpRouter multiplexes the handling of server request amongst the different
// handlers
type HttpRouter struct {
	encoder Encoder
	mux     map[string]*HttpRoute
	logger  logs.Logger
}

// HasRoute returns true if the router has a route to
// handle a request to the path
func (h *HttpRouter) HasRoute(path string) bool {
	_, ok := h.mux[path]
	return ok
}

// HasHandler returns true if the router has a handle to
// handle a request to the path and method
func (h *HttpRouter) HasHandler(path, method string) bool {
	route, ok := h.mux[path]
	if !ok {
		return false
	}

	return route.HasHandler(method)
}

// ServeHTTP is the implementation of http.Handler for HttpRouter
func (h *HttpRouter) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	traceID := ParseTraceID(req.Header.Get(HttpHeaderTraceID))
	req = req.WithContext(logs.WithTraceID(req.Context(), traceID))

	h.logger.Debug(req.Context(), "", logs.MapFields{
		"path":      req.URL.EscapedPath(),
		"method":    req.Method,
		"call_type": "HttpRequestHandleAttempt",
	})

	defer func() {
		if r := recover(); r != nil {
			var err error
			switch x := r.(type) {
			case string:
				err = stderr.New(x)
			case error:
				err = x
			default:
				err = fmt.Errorf("unknown panic %+v", r)
			}

			h.logger.Error(req.Context(), "unexpected panic caught", logs.MapFields{
				"path":       req.URL.EscapedPath(),
				"method":     req.Method,
				"call_type":  "HttpRequestHandleFailure",
				"err":        err.Error(),
				"stacktrace": string(debug.Stack()),
			})

			// the panic is internal and is not exposed to the client
			h.reportError(res, req, HttpInternalServerError(
				req.Context(), stderr.New("unexpected error occurred")))
		}
	}()

	route, ok := h.mux[req.URL.Path]
	if !ok {
		h.reportError(res, req, &HttpError{StatusCode: http.StatusNotFound, Message: "Not Found"})
		return
	}

	route.ServeHTTP(res, req)
}

func (h *HttpRouter) reportError(res http.ResponseWriter, req *http.Request, err *HttpError) {
	if eerr := writeError(res, req, h.encoder, h.logger, err); eerr != nil {
		return
	}

	h.logger.Info(req.Context(), "", logs.MapFields{
		"path":      req.URL.EscapedPath(),
		"method":    req.Method,
		"call_type": "HttpRequestHandleFailure",
	}, err)
}

// HttpCorsPreProcessorProps properties used to define the behaviour
// of the CORS implementation
type HttpCorsPreProcessorProps struct {
	// Enabled if true the HttpCorsPreProcessor will verify requests, if false
	// it will just pass on a request to the next middleware
	Enabled bool

	// AllowedOrigins is a list of origins a cross-domain request can be executed from.
	// If the special "*" value is present in the list, all origins will be allowed.
	// Default value is ["*"]
	AllowedOrigins []string

	// AllowedMethods is a list of methods the client is allowed to use with
	// cross-domain requests. Default value is simple methods (HEAD, GET and POST).
	AllowedMethods []string

	// AllowedHeaders is list of non simple headers the client is allowed to use with
	// cross-domain requests.
	AllowedHeaders []string

	// ExposedHeaders indicates which headers are safe to expose to the API of a CORS
	// API specification
	ExposedHeaders []string

	// MaxAge indicates how long (in seconds) the results of a preflight request
	// can be cached
	MaxAge int

	// AllowCredentials indicates whether the request can include user credentials like
	// cookies, HTTP authentication or client side SSL certificates.
	AllowCredentials bool
}

// HttpCorsPreProcessor handles CORS https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS
// for requests
type HttpCorsPreProcessor struct {
	cors    *cors.Cors
	enabled bool
}

// NewHttpCorsPreProcessor creates a new instance of a Cors Http PreProcessor
func NewHttpCorsPreProcessor(props HttpCorsPreProcessorProps) *HttpCorsPreProcessor {
	return &HttpCorsPreProcessor{
		cors: cors.New(cors.Options{
			AllowedOrigins:     props.AllowedOrigins,
			AllowedMethods:     props.AllowedMethods,
			AllowedHeaders:     props.AllowedHeaders,
			ExposedHeaders:     props.ExposedHeaders,
			MaxAge:             props.MaxAge,
			AllowCredentials:   props.AllowCredentials,
			OptionsPassthrough: false,
		}),
		enabled: props.Enabled,
	}
}

// ServeHTTP is the implementation of HttpPreProcessor for HttpCorsPreProcessor
func (h *HttpCorsPreProcessor) ServeHTTP(w http.ResponseWriter, req *http.Request) (HttpPreProcessorResult, error) {
	if !h.enabled {
		return HttpPreProcessorResult{Request: req, Continue: true}, nil
	}

	result := HttpPreProcessorResult{}
	h.cors.ServeHTTP(w, req, func(w http.ResponseWriter, req *http.Request) {
		result = HttpPreProcessorResult{Request: req, Continue: true}
	})

	return result, nil
}

var (
	ErrHttpContentLengthMissing = errors.New("content-length header missing in request")
	ErrHttpContentLengthExceeds = errors.New("content-length value exceeds request limit")
	ErrHttpContentTypeNotJSON   = errors.New("content-type has unexpected value")
	ErrHttpHandleExpectsNoBody  = errors.New("http handle expects no request body")
	ErrHttpDecodeJSON           = errors.New("error decoding body as json")
)

// HttpJsonHandler handles requests that expect a body in the JSON format,
// decodes the body and executes the final handler with the expected type
type HttpJsonHandler struct {
	limit   uint
	decoder JsonDecoder
	handler Handler
	logger  logs.Logger
	factory EntityFactory
}

// HttpJsonHandlerProperties are the properties used to create
// a new HttpJsonHandler
type HttpJsonHandlerProperties struct {
	// Limit is the maximum number of bytes an Http body can have. Bodies
	// with a higher limit will fail to deserialize and be rejected
	Limit uint

	// Handler is the rpc handler that will be used to handle the request
	Handler Handler

	// Logger
	Logger logs.Logger

	// Factory for creating new instances of objects to which the Http body
	// will be deserialized. Those instances will be passed to the handler
	Factory EntityFactory
}

// NewHttpJsonHandler creates a new instance of an rpc handler
// that deserializes json objects into Go objects
func NewHttpJsonHandler(properties HttpJsonHandlerProperties) *HttpJsonHandler {
	limit := properties.Limit
	if limit == 0 {
		limit = 1 << 14 // 16 KB
	}

	if properties.Handler == nil {
		panic("handler must be set")
	}

	if properties.Logger == nil {
		panic("logger must be set")
	}

	factory := properties.Factory
	if factory == nil {
		factory = NoBody
	}

	return &HttpJsonHandler{
		limit:   limit,
		decoder: JsonDecoder{},
		handler: properties.Handler,
		logger:  properties.Logger.ForClass("http", "HttpJsonHandler"),
		factory: factory,
	}
}

// NewHttpJsonHandlerFactory returns the HttpHandlerFactory that wraps
// every bound Handler into an HttpJsonHandler
func NewHttpJsonHandlerFactory(logger logs.Logger, limit uint) HttpHandlerFactory {
	return HttpHandlerFactoryFunc(func(factory EntityFactory, handler Handler) HttpMiddleware {
		return NewHttpJsonHandler(HttpJsonHandlerProperties{
			Limit:   limit,
			Handler: handler,
			Logger:  logger,
			Factory: factory,
		})
	})
}

// ServeHTTP is the implementation of HttpMiddleware for HttpJsonHandler
func (h *HttpJsonHandler) ServeHTTP(req *http.Request) (interface{}, error) {
	if req.ContentLength < 0 {
		return nil, &HttpError{Cause: ErrHttpContentLengthMissing, StatusCode: http.StatusBadRequest}
	}

	if uint64(req.ContentLength) > uint64(h.limit) {
		return nil, &HttpError{Cause: ErrHttpContentLengthExceeds, StatusCode: http.StatusBadRequest}
	}

	if req.ContentLength > 0 && !isJsonContentType(req.Header.Get("Content-Type")) {
		return nil, &HttpError{Cause: ErrHttpContentTypeNotJSON, StatusCode: http.StatusBadRequest}
	}

	body := h.factory.Create()
	if body == nil && req.ContentLength > 0 {
		return nil, &HttpError{Cause: ErrHttpHandleExpectsNoBody, StatusCode: http.StatusBadRequest}
	}

	if body != nil && req.ContentLength > 0 {
		if err := h.decoder.DecodeWithLimit(req.Body, body, ReadLimitProps{
			Limit:        req.ContentLength,
			FailOnExceed: true,
		}); err != nil {
			h.logger.Debug(req.Context(), "failed to decode json", logs.MapFields{
				"path":           req.URL.EscapedPath(),
				"method":         req.Method,
				"content_length": req.ContentLength,
				"call_type":      "HttpJsonRequestHandleFailure",
				"err":            err.Error(),
			})
			return nil, &HttpError{Cause: ErrHttpDecodeJSON, StatusCode: http.StatusBadRequest, Message: "Bad Request"}
		}
	}

	return h.handler.Handle(req.Context(), body)
}

// HttpHandlerFactory converts an rpc Handler into HttpMiddleware
// that can be plugged into a router
type HttpHandlerFactory interface {
	Make(factory EntityFactory, handler Handler) HttpMiddleware
}

// HttpHandlerFactoryFunc to allow functions to act as an HttpHandlerFactory
type HttpHandlerFactoryFunc func(factory EntityFactory, handler Handler) HttpMiddleware

// Make is the implementation of HttpHandlerFactory for HttpHandlerFactoryFunc
func (f HttpHandlerFactoryFunc) Make(factory EntityFactory, handler Handler) HttpMiddleware {
	return f(factory, handler)
}

// HttpBinder is the only mechanism to build HttpRouters, so that an
// HttpRouter cannot be modified after it has been created
type HttpBinder struct {
	handlers      map[string]MethodHandlers
	preProcessors []HttpPreProcessor
	encoder       Encoder
	logger        logs.Logger
	factory       HttpHandlerFactory
}

// Bind binds the handler to the method and path
func (b *HttpBinder) Bind(method string, uri string, handler Handler, factory EntityFactory) {
	route, ok := b.handlers[uri]
	if !ok {
		route = make(MethodHandlers)
		b.handlers[uri] = route
	}

	route.Add(method, b.factory.Make(factory, handler))
}

// AddPreProcessor adds a pre processor that runs before the
// handlers of every route
func (b *HttpBinder) AddPreProcessor(preProcessor HttpPreProcessor) {
	b.preProcessors = append(b.preProcessors, preProcessor)
}

// Build creates a new HttpRouter and clears the handler map of the
// HttpBinder, so if new instances of HttpRouters need to be build
// Bind needs to be used again
func (b *HttpBinder) Build() *HttpRouter {
	mux := make(map[string]*HttpRoute)

	for path, handlers := range b.handlers {
		mux[path] = NewHttpRoute(HttpRouteProps{
			Logger:        b.logger.ForClass("http", "route"),
			Encoder:       b.encoder,
			Handlers:      handlers,
			PreProcessors: b.preProcessors,
		})
	}

	b.handlers = make(map[string]MethodHandlers)

	return &HttpRouter{
		encoder: b.encoder,
		logger:  b.logger.ForClass("http", "router"),
		mux:     mux,
	}
}

// HttpBinderProperties are the properties used to create
// a new instance of an HttpBinder
type HttpBinderProperties struct {
	Encoder        Encoder
	Logger         logs.Logger
	HandlerFactory HttpHandlerFactory
}

// NewHttpBinder creates a new instance of the HttpBinder. It will
// panic in case there are errors in the construction of the binder
func NewHttpBinder(properties HttpBinderProperties) *HttpBinder {
	if properties.Encoder == nil {
		panic("Encoder must be set")
	}

	if properties.Logger == nil {
		panic("Logger must be set")
	}

	if properties.HandlerFactory == nil {
		panic("HandlerFactory must be set")
	}

	return &HttpBinder{
		handlers: make(map[string]MethodHandlers),
		encoder:  properties.Encoder,
		logger:   properties.Logger,
		factory:  properties.HandlerFactory,
	}
}
