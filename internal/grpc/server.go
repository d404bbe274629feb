package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/rpc"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const subscriberBuffer = 256

// Server serves the Doomsday gRPC service. It is also a tx.Observer and
// streams every operation to Subscribe callers.
type Server struct {
	mu sync.RWMutex

	grpcServer *grpc.Server
	service    *rpc.Service
	config     *ServerConfig
	logger     *slog.Logger

	listener net.Listener
	running  bool

	subMu    sync.Mutex
	subs     map[uuid.UUID]chan *rpc.OperationMessage
	stopping chan struct{}
	stopOnce sync.Once
}

var _ DoomsdayServer = (*Server)(nil)
var _ tx.Observer = (*Server)(nil)

// NewServer creates a gRPC server submitting to engine. Register it with
// engine.AddObserver to feed Subscribe.
func NewServer(cfg *ServerConfig, engine *tx.Engine, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		service:  rpc.NewService(engine),
		config:   cfg,
		logger:   logger.With("component", "grpc"),
		subs:     make(map[uuid.UUID]chan *rpc.OperationMessage),
		stopping: make(chan struct{}),
	}
	s.grpcServer = grpc.NewServer(
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.UnaryInterceptor(s.unaryInterceptor),
		grpc.StreamInterceptor(s.streamInterceptor),
	)
	s.grpcServer.RegisterService(&serviceDesc, s)
	return s, nil
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start() error {
	lis, err := s.listen()
	if err != nil {
		return err
	}
	return s.grpcServer.Serve(lis)
}

// StartAsync starts the gRPC server in a goroutine and returns once it is
// listening.
func (s *Server) StartAsync() error {
	lis, err := s.listen()
	if err != nil {
		return err
	}
	go func() {
		if err := s.grpcServer.Serve(lis); err != nil {
			s.logger.Error("grpc server stopped", "error", err)
		}
	}()
	return nil
}

func (s *Server) listen() (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil, errors.New("server is already running")
	}
	lis, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return nil, err
	}
	s.listener = lis
	s.running = true
	s.logger.Info("grpc server listening", "addr", lis.Addr().String())
	return lis, nil
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := s.listen()
	if err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Stop ends every subscription and gracefully stops the server.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.stopping) })

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.grpcServer.GracefulStop()
	s.running = false
}

// Address returns the address the server is listening on, or "" before it
// starts.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Subscribers returns the number of open Subscribe streams.
func (s *Server) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

func (s *Server) Submit(ctx context.Context, req *SubmitRequest) (*rpc.SubmitResult, error) {
	res, err := s.service.Submit(req.Operation, req.Fields, req.PublicKey, req.Signature)
	if err != nil {
		return nil, toStatus(err)
	}
	return res, nil
}

func (s *Server) Quote(ctx context.Context, req *QuoteRequest) (*rpc.QuoteResult, error) {
	res, err := s.service.Quote(req.Amount, req.Direction)
	if err != nil {
		return nil, toStatus(err)
	}
	return res, nil
}

// Subscribe streams operation messages until the client goes away or the
// server stops. The response header is sent once the stream is registered.
func (s *Server) Subscribe(_ *SubscribeRequest, stream grpc.ServerStream) error {
	id := uuid.New()
	ch := make(chan *rpc.OperationMessage, subscriberBuffer)

	s.subMu.Lock()
	s.subs[id] = ch
	s.subMu.Unlock()
	defer func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}()

	if err := stream.SendHeader(metadata.Pairs("subscriber", id.String())); err != nil {
		return err
	}

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case <-s.stopping:
			return status.Error(codes.Unavailable, "server is stopping")
		case msg := <-ch:
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		}
	}
}

// OperationApplied implements tx.Observer. It runs under the engine lock,
// so slow subscribers are skipped rather than waited for.
func (s *Server) OperationApplied(rec tx.Record) {
	msg := rpc.NewOperationMessage(rec)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- &msg:
		default:
			s.logger.Info("skipping slow subscriber", "subscriber", id, "seq", rec.Seq)
		}
	}
}

func toStatus(err error) error {
	switch {
	case rpc.IsBadRequest(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, tx.ErrEntryNotFound):
		return status.Error(codes.FailedPrecondition, "pool is not initialized")
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func (s *Server) unaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug("grpc call", "method", info.FullMethod, "code", status.Code(err), "duration", time.Since(start))
	return resp, err
}

func (s *Server) streamInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	err := handler(srv, ss)
	s.logger.Debug("grpc stream", "method", info.FullMethod, "code", status.Code(err), "duration", time.Since(start))
	return err
}
