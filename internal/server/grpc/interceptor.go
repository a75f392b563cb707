package grpc

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type ctxKey string

const accountKey ctxKey = "account"

// AccountFromContext returns the account attached by the access token
// interceptor, or nil for methods that do not require a token.
func AccountFromContext(ctx context.Context) *models.Account {
	a, _ := ctx.Value(accountKey).(*models.Account)
	return a
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	roles, protected := methodRoles[info.FullMethod]
	if !protected {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}

	account, err := s.identity.Resolve(ctx, accessToken)
	if err != nil {
		return nil, toStatus(err)
	}

	d := auth.Authorize(roles, account)
	if s.metrics != nil {
		s.metrics.ObserveDecision(d)
	}
	if !d.Allowed {
		return nil, toStatus(d.Err())
	}

	return handler(context.WithValue(ctx, accountKey, account), req)
}
