package grpc

import (
	"context"

	"github.com/LeJamon/goDoomsday/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls a Doomsday gRPC server.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to addr without transport security.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Submit(ctx context.Context, req *SubmitRequest) (*rpc.SubmitResult, error) {
	out := new(rpc.SubmitResult)
	if err := c.conn.Invoke(ctx, submitMethod, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Quote(ctx context.Context, req *QuoteRequest) (*rpc.QuoteResult, error) {
	out := new(rpc.QuoteResult)
	if err := c.conn.Invoke(ctx, quoteMethod, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Subscription receives operation messages from a Subscribe stream.
type Subscription struct {
	stream grpc.ClientStream
}

// Subscribe opens a stream and returns once the server has registered it.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	stream, err := c.conn.NewStream(ctx, &serviceDesc.Streams[0], subscribeMethod)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&SubscribeRequest{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	if _, err := stream.Header(); err != nil {
		return nil, err
	}
	return &Subscription{stream: stream}, nil
}

// Recv blocks for the next operation message.
func (s *Subscription) Recv() (*rpc.OperationMessage, error) {
	msg := new(rpc.OperationMessage)
	if err := s.stream.RecvMsg(msg); err != nil {
		return nil, err
	}
	return msg, nil
}
