package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
	"google.golang.org/grpc"
)

type CredentialService interface {
	Register(ctx context.Context, email, password, fullName string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	CheckStatus(ctx context.Context, account *models.Account) (*services.Session, error)
}

type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.Account, error)
}

type AccountAdmin interface {
	SetRoles(ctx context.Context, id string, roles []models.Role) (*models.Account, error)
	SetActive(ctx context.Context, id string, active bool) (*models.Account, error)
}

type GRPCServer struct {
	address     string
	credentials CredentialService
	identity    IdentityResolver
	admin       AccountAdmin
	metrics     *metrics.Metrics
	logger      logging.Logger
}

// NewGRPCServer constructs the server. m may be nil.
func NewGRPCServer(a string, l logging.Logger, cs CredentialService, ir IdentityResolver, aa AccountAdmin,
	m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address:     a,
		credentials: cs,
		identity:    ir,
		admin:       aa,
		metrics:     m,
		logger:      l.With("module", "grpc_server"),
	}
}

// NewServer creates a grpc.Server with the access token interceptor and the
// auth service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&authServiceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
