package grpc

import (
	"context"
	"encoding/json"

	"github.com/LeJamon/goDoomsday/internal/rpc"
	"google.golang.org/grpc"
)

const (
	serviceName = "doomsday.Doomsday"

	submitMethod    = "/" + serviceName + "/Submit"
	quoteMethod     = "/" + serviceName + "/Quote"
	subscribeMethod = "/" + serviceName + "/Subscribe"
)

// SubmitRequest carries a signed operation. Fields is the operation's JSON
// object; PublicKey and Signature are hex.
type SubmitRequest struct {
	Operation string          `json:"operation"`
	Fields    json.RawMessage `json:"fields,omitempty"`
	PublicKey string          `json:"public_key"`
	Signature string          `json:"signature"`
}

type QuoteRequest struct {
	Amount    uint64 `json:"amount"`
	Direction string `json:"direction"`
}

type SubscribeRequest struct{}

// DoomsdayServer is the service registered on the gRPC server.
type DoomsdayServer interface {
	Submit(context.Context, *SubmitRequest) (*rpc.SubmitResult, error)
	Quote(context.Context, *QuoteRequest) (*rpc.QuoteResult, error)
	Subscribe(*SubscribeRequest, grpc.ServerStream) error
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DoomsdayServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: submitHandler},
		{MethodName: "Quote", Handler: quoteHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: subscribeHandler, ServerStreams: true},
	},
	Metadata: "doomsday",
}

func submitHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SubmitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DoomsdayServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: submitMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DoomsdayServer).Submit(ctx, req.(*SubmitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func quoteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(QuoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DoomsdayServer).Quote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: quoteMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DoomsdayServer).Quote(ctx, req.(*QuoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	in := new(SubscribeRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DoomsdayServer).Subscribe(in, stream)
}
