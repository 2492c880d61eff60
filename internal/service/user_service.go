package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/auth"
	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	media    MediaDelegate
	tokens   *auth.Issuer
}

func NewUserService(userRepo repository.UserRepository, media MediaDelegate, tokens *auth.Issuer) *UserService {
	return &UserService{
		userRepo: userRepo,
		media:    media,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Fullname string `json:"fullname" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,password"`
	// Local paths of the spooled uploads.
	AvatarPath     string `json:"-" validate:"-"`
	CoverImagePath string `json:"-" validate:"-"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username" validate:"required_without=Email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

type UpdateAccountInput struct {
	Fullname string `json:"fullname" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	User *domain.User `json:"user"`
	TokenPair
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.ToLower(strings.TrimSpace(input.Username))

	existing, err := s.userRepo.GetByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Email == email {
			return nil, ErrEmailTaken
		}
		return nil, ErrUsernameTaken
	}

	if input.AvatarPath == "" {
		return nil, ErrAvatarRequired
	}

	avatar, err := s.media.Upload(ctx, input.AvatarPath)
	if err != nil {
		return nil, fmt.Errorf("%w: avatar: %w", ErrMediaUpload, err)
	}

	var coverURL string
	if input.CoverImagePath != "" {
		cover, err := s.media.Upload(ctx, input.CoverImagePath)
		if err != nil {
			s.media.Delete(ctx, avatar.URL)
			return nil, fmt.Errorf("%w: cover image: %w", ErrMediaUpload, err)
		}
		coverURL = cover.URL
	}

	rollback := func() {
		cleanupCtx := context.WithoutCancel(ctx)
		s.media.Delete(cleanupCtx, avatar.URL)
		s.media.Delete(cleanupCtx, coverURL)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		Fullname:     strings.TrimSpace(input.Fullname),
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
		WatchHistory: []primitive.ObjectID{},
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		rollback()
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmailOrUsername(ctx, strings.TrimSpace(input.Email), strings.TrimSpace(input.Username))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCreds
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, TokenPair: *pair}, nil
}

// Refresh rotates the token pair. The presented refresh token must be the
// one stored for the user, so each refresh token works once.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshToken != refreshToken {
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, user)
}

func (s *UserService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	user.RefreshToken = refresh

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	return s.userRepo.SetRefreshToken(ctx, userID, "")
}

func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input ChangePasswordInput) error {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(input.OldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.userRepo.SetPassword(ctx, userID, hash)
}

func (s *UserService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateAccount(ctx context.Context, userID primitive.ObjectID, input UpdateAccountInput) (*domain.User, error) {
	user, err := s.userRepo.UpdateAccount(ctx, userID, strings.TrimSpace(input.Fullname), strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("updating account: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID primitive.ObjectID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, ErrAvatarRequired
	}
	return s.replaceImage(ctx, userID, localPath, func(u *domain.User) string { return u.Avatar }, s.userRepo.SetAvatar)
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID primitive.ObjectID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, newError(KindValidation, "cover image file is required")
	}
	return s.replaceImage(ctx, userID, localPath, func(u *domain.User) string { return u.CoverImage }, s.userRepo.SetCoverImage)
}

// replaceImage uploads the new file, stores its URL and then drops the
// previous file. The new upload is removed again if the store write fails.
func (s *UserService) replaceImage(
	ctx context.Context,
	userID primitive.ObjectID,
	localPath string,
	current func(*domain.User) string,
	set func(context.Context, primitive.ObjectID, string) (*domain.User, error),
) (*domain.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	old := current(user)

	asset, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMediaUpload, err)
	}

	updated, err := set(ctx, userID, asset.URL)
	if err != nil || updated == nil {
		s.media.Delete(ctx, asset.URL)
		if err == nil {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("storing image: %w", err)
	}

	s.media.Delete(ctx, old)
	return updated, nil
}

func (s *UserService) DeleteCoverImage(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CoverImage == "" {
		return nil, ErrNoCoverImage
	}

	updated, err := s.userRepo.SetCoverImage(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("removing cover image: %w", err)
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	s.media.Delete(ctx, user.CoverImage)
	return updated, nil
}

func (s *UserService) ChannelProfile(ctx context.Context, viewerID primitive.ObjectID, username string) (*domain.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, newError(KindValidation, "username is required")
	}

	profile, err := s.userRepo.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrChannelNotFound
	}
	return profile, nil
}

func (s *UserService) WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.VideoWithOwner, error) {
	return s.userRepo.GetWatchHistory(ctx, userID)
}
