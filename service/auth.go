package service

import (
	"context"

	"hearthbutler/entity"
	"hearthbutler/util"
)

// memberStore is the slice of the member repository the auth flow needs.
type memberStore interface {
	CreateMember(ctx context.Context, member *entity.Member) error
	FindByEmail(ctx context.Context, email string) (*entity.Member, error)
}

// AuthService authenticates household members.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*entity.Member, string, error)
	Register(ctx context.Context, member *entity.Member) error
}

type authService struct {
	members      memberStore
	jwtSecretKey []byte
}

// NewAuthService creates and returns a new AuthService.
func NewAuthService(members memberStore, config *entity.Config) AuthService {
	return &authService{
		members:      members,
		jwtSecretKey: config.JWTSecretKey,
	}
}

// Login verifies the credentials and returns the member with a signed JWT.
func (a *authService) Login(ctx context.Context, email, password string) (*entity.Member, string, error) {
	member, err := a.members.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if err := util.CheckPassword([]byte(member.Password), password); err != nil {
		return nil, "", err
	}
	token, err := util.GenerateJWT(member.ID, member.Email, a.jwtSecretKey)
	if err != nil {
		return nil, "", err
	}
	return member, token, nil
}

// Register creates a new member account.
func (a *authService) Register(ctx context.Context, member *entity.Member) error {
	return a.members.CreateMember(ctx, member)
}
