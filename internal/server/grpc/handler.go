package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/forms"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email, password, fullName := forms.Email(), forms.Password(), forms.FullName()
	if err := forms.Bind(req.AsMap(), email, password, fullName); err != nil {
		return nil, toStatus(err)
	}

	sess, err := s.credentials.Register(ctx, email.String(), password.String(), fullName.String())
	if err != nil {
		return nil, toStatus(err)
	}

	return sessionStruct(sess)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email, password := forms.Email(), forms.Password()
	if err := forms.Bind(req.AsMap(), email, password); err != nil {
		return nil, toStatus(err)
	}

	sess, err := s.credentials.Login(ctx, email.String(), password.String())
	if err != nil {
		return nil, toStatus(err)
	}

	return sessionStruct(sess)
}

func (s *GRPCServer) CheckStatus(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.credentials.CheckStatus(ctx, AccountFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return sessionStruct(sess)
}

func (s *GRPCServer) SetRoles(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := accountID(req)
	if err != nil {
		return nil, toStatus(err)
	}

	list := req.GetFields()["roles"].GetListValue()
	if list == nil || len(list.GetValues()) == 0 {
		return nil, toStatus(&common.ValidationError{Messages: []string{"roles must contain at least 1 elements"}})
	}

	roles := make([]models.Role, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		roles = append(roles, models.Role(v.GetStringValue()))
	}

	account, err := s.admin.SetRoles(ctx, id, roles)
	if err != nil {
		return nil, toStatus(err)
	}

	return userStruct(account)
}

func (s *GRPCServer) SetActive(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := accountID(req)
	if err != nil {
		return nil, toStatus(err)
	}

	v, ok := req.GetFields()["isActive"].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return nil, toStatus(&common.ValidationError{Messages: []string{"isActive must be a boolean value"}})
	}

	account, err := s.admin.SetActive(ctx, id, v.BoolValue)
	if err != nil {
		return nil, toStatus(err)
	}

	return userStruct(account)
}

func accountID(req *structpb.Struct) (string, error) {
	id, err := uuid.Parse(req.GetFields()["id"].GetStringValue())
	if err != nil {
		return "", &common.BadRequestError{Reason: "Validation failed (uuid is expected)"}
	}
	return id.String(), nil
}

func accountMap(a *models.Account) map[string]any {
	roles := make([]any, 0, len(a.Roles))
	for _, r := range a.Roles {
		roles = append(roles, string(r))
	}
	return map[string]any{
		"id":       a.ID,
		"email":    a.Email,
		"fullName": a.FullName,
		"isActive": a.IsActive,
		"roles":    roles,
	}
}

func sessionStruct(sess *services.Session) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(map[string]any{
		"user":  accountMap(sess.Account),
		"token": sess.Token,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, common.ErrInternalFailure.Error())
	}
	return out, nil
}

func userStruct(a *models.Account) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(map[string]any{"user": accountMap(a)})
	if err != nil {
		return nil, status.Error(codes.Internal, common.ErrInternalFailure.Error())
	}
	return out, nil
}

// toStatus maps the error taxonomy of package common onto gRPC codes.
// Validation messages are joined with "; ".
func toStatus(err error) error {
	var (
		dup    *common.DuplicateIdentityError
		cred   *common.InvalidCredentialError
		unauth *common.UnauthorizedError
		forb   *common.ForbiddenError
		bad    *common.BadRequestError
		val    *common.ValidationError
	)

	switch {
	case errors.As(err, &val):
		return status.Error(codes.InvalidArgument, strings.Join(val.Messages, "; "))
	case errors.As(err, &dup):
		return status.Error(codes.InvalidArgument, dup.Detail)
	case errors.As(err, &bad):
		return status.Error(codes.InvalidArgument, bad.Reason)
	case errors.As(err, &cred):
		return status.Error(codes.Unauthenticated, cred.Error())
	case errors.As(err, &unauth):
		return status.Error(codes.Unauthenticated, unauth.Reason)
	case errors.As(err, &forb):
		return status.Error(codes.PermissionDenied, forb.Reason)
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "User not found")
	default:
		return status.Error(codes.Internal, common.ErrInternalFailure.Error())
	}
}
