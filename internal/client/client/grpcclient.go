package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gatekeeper/internal/client/models"
	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	cc          grpc.ClientConnInterface

	mu          sync.RWMutex
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewGatekeeperClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.cc = conn
	return nil
}

func (s *GRPCClient) invoke(ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := s.cc.Invoke(ctx, method, req, out); err != nil {
		return nil, s.mapError(err)
	}

	return out, nil
}

func (s *GRPCClient) Register(ctx context.Context, email string, password []byte, fullName string) (*models.Session, error) {

	resp, err := s.invoke(ctx, common.MethodRegister, map[string]any{
		"email":    email,
		"password": string(password),
		"fullName": fullName,
	})
	if err != nil {
		return nil, err
	}

	return s.session(resp)
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {

	resp, err := s.invoke(ctx, common.MethodLogin, map[string]any{
		"email":    email,
		"password": string(password),
	})
	if err != nil {
		return nil, err
	}

	return s.session(resp)
}

// CheckStatus validates the current token and replaces it with the freshly
// issued one.
func (s *GRPCClient) CheckStatus(ctx context.Context) (*models.Session, error) {

	resp, err := s.invoke(ctx, common.MethodCheckStatus, map[string]any{})
	if err != nil {
		return nil, err
	}

	return s.session(resp)
}

func (s *GRPCClient) SetRoles(ctx context.Context, id string, roles []string) (*models.Account, error) {

	list := make([]any, 0, len(roles))
	for _, r := range roles {
		list = append(list, r)
	}

	resp, err := s.invoke(ctx, common.MethodSetRoles, map[string]any{"id": id, "roles": list})
	if err != nil {
		return nil, err
	}

	return accountFromStruct(resp.GetFields()["user"].GetStructValue())
}

func (s *GRPCClient) SetActive(ctx context.Context, id string, active bool) (*models.Account, error) {

	resp, err := s.invoke(ctx, common.MethodSetActive, map[string]any{"id": id, "isActive": active})
	if err != nil {
		return nil, err
	}

	return accountFromStruct(resp.GetFields()["user"].GetStructValue())
}

// Logout forgets the access token. Tokens are stateless, so nothing is sent
// to the server.
func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) session(resp *structpb.Struct) (*models.Session, error) {
	account, err := accountFromStruct(resp.GetFields()["user"].GetStructValue())
	if err != nil {
		return nil, err
	}

	token := resp.GetFields()["token"].GetStringValue()
	if token == "" {
		return nil, ErrMalformedReply
	}

	s.setToken(token)

	return &models.Session{Account: account, Token: token}, nil
}

func accountFromStruct(st *structpb.Struct) (*models.Account, error) {
	if st == nil {
		return nil, ErrMalformedReply
	}

	f := st.GetFields()
	a := &models.Account{
		ID:       f["id"].GetStringValue(),
		Email:    f["email"].GetStringValue(),
		FullName: f["fullName"].GetStringValue(),
		IsActive: f["isActive"].GetBoolValue(),
	}
	for _, v := range f["roles"].GetListValue().GetValues() {
		a.Roles = append(a.Roles, v.GetStringValue())
	}

	if a.ID == "" {
		return nil, ErrMalformedReply
	}

	return a, nil
}

func (s *GRPCClient) mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %s", st.Message())
	}
}
