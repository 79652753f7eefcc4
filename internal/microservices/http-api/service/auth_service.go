package service

import (
	"context"
	"strings"
	"time"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/models"
	"codeconnect/internal/microservices/http-api/repository"
	"codeconnect/internal/middleware/auth"
	"codeconnect/internal/shared"
)

type AuthService interface {
	// Authenticate verifies the bearer token and mirrors the identity into
	// the users table, creating the row on first sight.
	Authenticate(ctx context.Context, token string) (*shared.Identity, error)
	// Me returns the stored profile of the caller
	Me(ctx context.Context, caller *shared.Identity) (*dto.UserResponse, error)
}

type authService struct {
	verifier   auth.TokenVerifier
	userRepo   repository.UserRepository
	authorizer *Authorizer
	now        func() time.Time
}

func NewAuthService(verifier auth.TokenVerifier, userRepo repository.UserRepository, authorizer *Authorizer) AuthService {
	return &authService{
		verifier:   verifier,
		userRepo:   userRepo,
		authorizer: authorizer,
		now:        time.Now,
	}
}

func (s *authService) Authenticate(ctx context.Context, token string) (*shared.Identity, error) {
	if token == "" {
		return nil, unauthenticated("No token provided")
	}

	claims, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, unauthenticated("Invalid or expired token")
	}
	if claims.Email == "" {
		return nil, unauthenticated("Token carries no email")
	}

	user, err := s.upsert(ctx, claims)
	if err != nil {
		return nil, err
	}

	return &shared.Identity{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		IsAdmin:     s.authorizer.IsAdmin(&shared.Identity{Email: user.Email, IsAdmin: user.IsAdmin}),
	}, nil
}

// upsert refreshes the mirrored row from the token. The name and picture are
// only overwritten when the token carries them.
func (s *authService) upsert(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	now := s.now().UTC()
	isAdminEmail := s.authorizer.IsAdminEmail(claims.Email)

	user, err := s.userRepo.FindByID(ctx, claims.UserID())
	if repository.IsNotFound(err) {
		user = &models.User{
			ID:          claims.UserID(),
			Email:       claims.Email,
			DisplayName: displayNameFor(claims),
			PhotoURL:    claims.Picture,
			Provider:    claims.Provider(),
			IsAdmin:     isAdminEmail,
			IsActive:    true,
			LastLogin:   &now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		// a concurrent first request may have inserted the row instead of us
		return s.userRepo.FindByID(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}

	columns := []string{"email", "provider", "last_login"}
	user.Email = claims.Email
	user.Provider = claims.Provider()
	user.LastLogin = &now
	if claims.Name != "" {
		user.DisplayName = claims.Name
		columns = append(columns, "display_name")
	}
	if claims.Picture != "" {
		user.PhotoURL = claims.Picture
		columns = append(columns, "photo_url")
	}
	if isAdminEmail && !user.IsAdmin {
		user.IsAdmin = true
		columns = append(columns, "is_admin")
	}

	if err := s.userRepo.UpdateColumns(ctx, user, columns); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context, caller *shared.Identity) (*dto.UserResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, orNotFound(err, errUserNotFound)
	}
	resp := dto.FromModelToUserResponse(user)
	resp.IsAdmin = caller.IsAdmin
	return resp, nil
}

// displayNameFor falls back to the local part of the email when the token has no name
func displayNameFor(claims *auth.Claims) string {
	if claims.Name != "" {
		return claims.Name
	}
	local, _, _ := strings.Cut(claims.Email, "@")
	return local
}
