// Package grpcapi implements the gRPC Calculator service, evaluating token
// sequences and recording them in the shared evaluation history.
package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/lemonberrylabs/calc/pkg/store"
)

// ErrorDomain is the ErrorInfo domain attached to calculator failures.
const ErrorDomain = "calc"

// Server implements the Calculator gRPC service.
type Server struct {
	store  *store.Store
	logger *slog.Logger
	grpc   *grpc.Server
}

// New creates a new gRPC server wrapping the given store. A nil logger
// discards logs.
func New(s *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{
		store:  s,
		logger: logger.WithGroup("grpc"),
	}

	gs := grpc.NewServer()
	RegisterCalculatorServer(gs, srv)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

// Evaluate evaluates the string values of req as tokens.
func (s *Server) Evaluate(ctx context.Context, req *structpb.ListValue) (*wrapperspb.Int64Value, error) {
	tokens := make([]string, len(req.GetValues()))
	for i, v := range req.GetValues() {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "token %d must be a string", i)
		}
		tokens[i] = sv.StringValue
	}

	ev, err := s.store.Evaluate(tokens)
	if err != nil {
		s.logger.Info("evaluation failed", "id", ev.ID, "kind", ev.Kind, "error", err)
		return nil, calcStatus(err).Err()
	}
	s.logger.Debug("evaluated", "id", ev.ID, "result", ev.Result)
	return wrapperspb.Int64(int64(ev.Result)), nil
}

// calcStatus maps an evaluation error to a gRPC status. Calculator errors
// become InvalidArgument with an ErrorInfo detail naming the kind.
func calcStatus(err error) *status.Status {
	var ce *calc.Error
	if !errors.As(err, &ce) {
		return status.New(codes.Internal, err.Error())
	}

	info := &errdetails.ErrorInfo{
		Reason:   string(ce.Kind),
		Domain:   ErrorDomain,
		Metadata: map[string]string{},
	}
	switch ce.Kind {
	case calc.KindInvalidTokenCount:
		info.Metadata["count"] = strconv.Itoa(ce.Count)
	case calc.KindInvalidOperator, calc.KindInvalidNumber:
		info.Metadata["token"] = ce.Token
	}

	st := status.New(codes.InvalidArgument, err.Error())
	if withDetails, derr := st.WithDetails(info); derr == nil {
		return withDetails
	}
	return st
}

// ErrorKind extracts the calculator error kind from a gRPC error returned by
// the Calculator service, or "" if there is none.
func ErrorKind(err error) calc.Kind {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return calc.Kind(info.GetReason())
		}
	}
	return ""
}
