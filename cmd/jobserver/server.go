package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/nixpig/jobconsole/internal/api"
	"github.com/nixpig/jobconsole/internal/auth"
	"github.com/nixpig/jobconsole/internal/jobcontrol"
	"github.com/nixpig/jobconsole/internal/jobmanager"
	"github.com/nixpig/jobconsole/internal/tlsconfig"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

type server struct {
	manager    *jobmanager.Manager
	dispatcher *jobcontrol.Dispatcher
	logger     *slog.Logger
	cfg        *config
	grpcServer *grpc.Server
}

var _ api.ConsoleServiceServer = (*server)(nil)

func newServer(
	manager *jobmanager.Manager,
	logger *slog.Logger,
	cfg *config,
) *server {
	return &server{
		manager:    manager,
		dispatcher: jobcontrol.NewDispatcher(manager, logger),
		logger:     logger,
		cfg:        cfg,
	}
}

// setup builds the gRPC server. It must be called before serve or shutdown,
// and on the same goroutine as shutdown.
func (s *server) setup() error {
	interceptors := []grpc.UnaryServerInterceptor{
		contextCheckUnaryInterceptor,
		s.loggingUnaryInterceptor,
	}

	var creds credentials.TransportCredentials

	if s.cfg.insecure {
		s.logger.Warn("serving without TLS, all clients are trusted")
		creds = insecure.NewCredentials()
	} else {
		tlsCreds, err := s.loadTLSCreds()
		if err != nil {
			return fmt.Errorf("load TLS credentials: %w", err)
		}

		creds = tlsCreds
		interceptors = append(interceptors, s.authUnaryInterceptor)
	}

	s.grpcServer = grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptors...),
		grpc.Creds(creds),
	)

	api.RegisterConsoleServiceServer(s.grpcServer, s)

	return nil
}

// serve blocks accepting connections on listener until shutdown. If shutdown
// has already run it returns grpc.ErrServerStopped.
func (s *server) serve(listener net.Listener) error {
	return s.grpcServer.Serve(listener)
}

func (s *server) shutdown() {
	s.grpcServer.GracefulStop()
}

// Exec runs a console command. Command failures are reported in the
// response, not as gRPC errors.
func (s *server) Exec(
	ctx context.Context,
	req *api.ExecRequest,
) (*api.ExecResponse, error) {
	if req.Command == "" {
		return nil, status.Error(codes.InvalidArgument, "command is empty")
	}

	res, err := s.dispatcher.Exec(req.Command, req.Args)
	if err != nil {
		s.logger.Debug(
			"console command aborted",
			"command", req.Command,
			"args", req.Args,
			"err", err,
		)
	}

	return api.NewExecResponse(res, err), nil
}

func (s *server) Complete(
	ctx context.Context,
	req *api.CompleteRequest,
) (*api.CompleteResponse, error) {
	return &api.CompleteResponse{
		Candidates: s.dispatcher.Complete(req.Command, req.Words),
	}, nil
}

func (s *server) RunJob(
	ctx context.Context,
	req *api.RunJobRequest,
) (*api.RunJobResponse, error) {
	if req.Program == "" {
		return nil, status.Error(codes.InvalidArgument, "program is empty")
	}

	id, err := s.manager.RunJob(jobmanager.ProcessSpec{
		Name:    req.Name,
		Program: req.Program,
		Args:    req.Args,
	})
	if err != nil {
		return nil, s.mapError("run job", err)
	}

	return &api.RunJobResponse{ID: id}, nil
}

// mapError translates jobmanager errors to gRPC errors.
func (s *server) mapError(logMsg string, err error) error {
	switch {
	case errors.Is(err, jobmanager.ErrJobNotFound):
		s.logger.Warn(logMsg, "err", err)
		return status.Error(codes.NotFound, err.Error())

	case errors.As(err, new(jobmanager.InvalidStateError)):
		s.logger.Warn(logMsg, "err", err)
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, exec.ErrNotFound):
		s.logger.Warn(logMsg, "err", err)
		return status.Error(codes.InvalidArgument, err.Error())

	default:
		s.logger.Error(logMsg, "err", err)
		return status.Error(codes.Internal, "internal server error")
	}
}

// loadTLSCreds creates the gRPC transport credentials with mTLS enabled.
func (s *server) loadTLSCreds() (credentials.TransportCredentials, error) {
	tlsConfig, err := tlsconfig.SetupTLS(&tlsconfig.Config{
		CertPath:   s.cfg.certPath,
		KeyPath:    s.cfg.keyPath,
		CACertPath: s.cfg.caCertPath,
		Server:     true,
	})
	if err != nil {
		return nil, err
	}

	return credentials.NewTLS(tlsConfig), nil
}

// contextCheckUnaryInterceptor rejects requests with a cancelled context.
func contextCheckUnaryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	if ctx.Err() != nil {
		return nil, status.FromContextError(ctx.Err()).Err()
	}

	return handler(ctx, req)
}

// loggingUnaryInterceptor tags each request with an ID and logs its outcome.
func (s *server) loggingUnaryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	requestID := uuid.NewString()

	resp, err := handler(ctx, req)

	s.logger.Debug(
		"handled request",
		"request_id", requestID,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)

	return resp, err
}

// authUnaryInterceptor rejects clients whose certificate role lacks the
// permission for the requested method.
func (s *server) authUnaryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	id, err := auth.Authorise(ctx, info.FullMethod)
	if err != nil {
		s.logger.Warn(
			"unauthorised request",
			"method", info.FullMethod,
			"client", id.CommonName,
			"role", id.Role,
			"err", err,
		)
		return nil, status.Error(codes.PermissionDenied, "permission denied")
	}

	return handler(ctx, req)
}
