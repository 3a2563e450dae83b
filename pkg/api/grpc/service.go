package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The Calculator service uses well-known types only, so its descriptor is
// registered by hand rather than generated from a .proto file:
//
//	service Calculator {
//	  rpc Evaluate(google.protobuf.ListValue) returns (google.protobuf.Int64Value);
//	}
const (
	ServiceName         = "calc.v1.Calculator"
	EvaluateFullMethod  = "/" + ServiceName + "/Evaluate"
	calculatorProtoFile = "calc/v1/calculator.proto"
	evaluateMethodName  = "Evaluate"
)

// CalculatorServer is the server API for the Calculator service.
type CalculatorServer interface {
	Evaluate(context.Context, *structpb.ListValue) (*wrapperspb.Int64Value, error)
}

// RegisterCalculatorServer registers srv on s.
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&calculatorServiceDesc, srv)
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EvaluateFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).Evaluate(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: evaluateMethodName,
			Handler:    evaluateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: calculatorProtoFile,
}

// CalculatorClient is the client API for the Calculator service.
type CalculatorClient struct {
	cc grpc.ClientConnInterface
}

// NewCalculatorClient creates a client that issues calls over cc.
func NewCalculatorClient(cc grpc.ClientConnInterface) *CalculatorClient {
	return &CalculatorClient{cc: cc}
}

// Evaluate calls Calculator.Evaluate with the tokens packed in a ListValue.
func (c *CalculatorClient) Evaluate(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, EvaluateFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// EvaluateTokens is a convenience wrapper around Evaluate.
func (c *CalculatorClient) EvaluateTokens(ctx context.Context, tokens []string, opts ...grpc.CallOption) (int64, error) {
	values := make([]*structpb.Value, len(tokens))
	for i, tok := range tokens {
		values[i] = structpb.NewStringValue(tok)
	}
	out, err := c.Evaluate(ctx, &structpb.ListValue{Values: values}, opts...)
	if err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}
