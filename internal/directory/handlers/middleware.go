package handlers

import (
	"context"
	"net/http"
	"time"

	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// requestLogger logs every request and turns handler panics into 500 responses.
func requestLogger(logger *zap.Logger) runtime.Middleware {
	return func(next runtime.HandlerFunc) runtime.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				if p := recover(); p != nil {
					logger.Error("Handler panicked",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", p),
						zap.Stack("stack"),
					)
					if rec.status == 0 {
						writeJSON(rec, http.StatusInternalServerError, envelope{
							Error:   e.CodeInternal,
							Message: genericMessages[e.CodeInternal],
						})
					}
				}
				logger.Info("HTTP request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", rec.status),
					zap.Duration("duration", time.Since(start)),
				)
			}()
			next(rec, r, pathParams)
		}
	}
}

// routingError answers unmatched paths and methods with the API envelope.
func routingError(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, r *http.Request, httpStatus int) {
	switch httpStatus {
	case http.StatusMethodNotAllowed:
		writeJSON(w, httpStatus, envelope{Error: "METHOD_NOT_ALLOWED", Message: r.Method + " is not allowed on " + r.URL.Path})
	case http.StatusNotFound:
		writeJSON(w, httpStatus, envelope{Error: e.CodeNotFound, Message: "route " + r.URL.Path + " not found"})
	default:
		writeJSON(w, httpStatus, envelope{Error: e.CodeValidation, Message: http.StatusText(httpStatus)})
	}
}

// UnaryInterceptor logs gRPC calls and converts panics into Internal errors.
func UnaryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		start := time.Now()
		defer func() {
			if p := recover(); p != nil {
				logger.Error("gRPC handler panicked",
					zap.String("method", info.FullMethod),
					zap.Any("panic", p),
					zap.Stack("stack"),
				)
				err = status.Error(codes.Internal, "internal server error")
			}
			logger.Debug("gRPC call",
				zap.String("method", info.FullMethod),
				zap.String("code", status.Code(err).String()),
				zap.Duration("duration", time.Since(start)),
			)
		}()
		return handler(ctx, req)
	}
}
