package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/auth"
	"github.com/vedran77/vidtube/internal/config"
)

func testIssuer() *auth.Issuer {
	return auth.NewIssuer(config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
}

func registerInput() RegisterInput {
	return RegisterInput{
		Fullname:   "Jane Doe",
		Email:      "Jane@Example.com",
		Username:   "JaneDoe",
		Password:   "Secret123",
		AvatarPath: "avatar.png",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	m := newFakeMedia()
	svc := NewUserService(users, m, testIssuer())
	ctx := context.Background()

	input := registerInput()
	input.CoverImagePath = "cover.png"

	user, err := svc.Register(ctx, input)
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "jane@example.com" || user.Username != "janedoe" {
		t.Errorf("user = %+v, want lowercased email and username", user)
	}
	if user.Avatar == "" || user.CoverImage == "" {
		t.Errorf("uploaded images not stored: %+v", user)
	}
	if user.PasswordHash == "Secret123" {
		t.Error("password stored in clear text")
	}

	res, err := svc.Login(ctx, LoginInput{Username: "janedoe", Password: "Secret123"})
	if err != nil {
		t.Fatal(err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("login result = %+v", res)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCreds) {
		t.Errorf("wrong password error = %v, want ErrInvalidCreds", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Secret123"}); !errors.Is(err, ErrInvalidCreds) {
		t.Errorf("unknown user error = %v, want ErrInvalidCreds", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	existing := newUser("janedoe")
	m := newFakeMedia()
	svc := NewUserService(newFakeUserRepo(existing), m, testIssuer())

	input := registerInput()
	input.Email = "other@example.com"
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("error = %v, want ErrUsernameTaken", err)
	}

	input = registerInput()
	input.Username = "someoneelse"
	input.Email = existing.Email
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("error = %v, want ErrEmailTaken", err)
	}

	if len(m.uploaded) != 0 {
		t.Errorf("nothing should be uploaded for a duplicate, got %v", m.uploaded)
	}
}

func TestRegisterCompensation(t *testing.T) {
	t.Run("avatar required", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(), newFakeMedia(), testIssuer())
		input := registerInput()
		input.AvatarPath = ""
		if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrAvatarRequired) {
			t.Fatalf("error = %v, want ErrAvatarRequired", err)
		}
	})

	t.Run("cover upload fails", func(t *testing.T) {
		m := newFakeMedia("cover.png")
		users := newFakeUserRepo()
		svc := NewUserService(users, m, testIssuer())
		input := registerInput()
		input.CoverImagePath = "cover.png"

		if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrMediaUpload) {
			t.Fatalf("error = %v, want ErrMediaUpload", err)
		}
		if len(m.deleted) != 1 || m.deleted[0] != m.uploaded[0] {
			t.Errorf("deleted = %v, want the avatar %v", m.deleted, m.uploaded)
		}
		if len(users.users) != 0 {
			t.Error("no user should be created")
		}
	})

	t.Run("create fails", func(t *testing.T) {
		m := newFakeMedia()
		users := newFakeUserRepo()
		users.createErr = errors.New("write failed")
		svc := NewUserService(users, m, testIssuer())
		input := registerInput()
		input.CoverImagePath = "cover.png"

		if _, err := svc.Register(context.Background(), input); err == nil {
			t.Fatal("expected an error")
		}
		if len(m.deleted) != 2 {
			t.Errorf("deleted = %v, want avatar and cover", m.deleted)
		}
	})
}

func TestRefreshRotatesTokens(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, newFakeMedia(), testIssuer())
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatal(err)
	}
	login, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "Secret123"})
	if err != nil {
		t.Fatal(err)
	}

	pair, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatal(err)
	}
	if pair.RefreshToken == login.RefreshToken {
		t.Error("refresh token should rotate")
	}

	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("reusing a refresh token = %v, want ErrInvalidRefreshToken", err)
	}
	if _, err := svc.Refresh(ctx, login.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("access token as refresh = %v, want ErrInvalidRefreshToken", err)
	}

	if err := svc.Logout(ctx, login.User.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("refresh after logout = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeMedia(), testIssuer())
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ChangePassword(ctx, user.ID, ChangePasswordInput{OldPassword: "nope", NewPassword: "Another123"}); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("error = %v, want ErrWrongPassword", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, ChangePasswordInput{OldPassword: "Secret123", NewPassword: "Another123"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "Another123"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestUpdateImagesDeletesPrevious(t *testing.T) {
	u := newUser("pic")
	u.Avatar = "http://media.test/old-avatar.png"
	m := newFakeMedia()
	svc := NewUserService(newFakeUserRepo(u), m, testIssuer())
	ctx := context.Background()

	updated, err := svc.UpdateAvatar(ctx, u.ID, "new-avatar.png")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Avatar != "http://media.test/new-avatar.png" {
		t.Errorf("avatar = %q", updated.Avatar)
	}
	if len(m.deleted) != 1 || m.deleted[0] != "http://media.test/old-avatar.png" {
		t.Errorf("deleted = %v, want the old avatar", m.deleted)
	}

	if _, err := svc.DeleteCoverImage(ctx, u.ID); !errors.Is(err, ErrNoCoverImage) {
		t.Errorf("delete missing cover = %v, want ErrNoCoverImage", err)
	}

	if _, err := svc.UpdateCoverImage(ctx, u.ID, "cover.png"); err != nil {
		t.Fatal(err)
	}
	cleared, err := svc.DeleteCoverImage(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cleared.CoverImage != "" {
		t.Errorf("cover = %q, want empty", cleared.CoverImage)
	}
}

func TestChannelProfileNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(newUser("known")), newFakeMedia(), testIssuer())

	if _, err := svc.ChannelProfile(context.Background(), primitive.NilObjectID, "unknown"); !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("error = %v, want ErrChannelNotFound", err)
	}
	if p, err := svc.ChannelProfile(context.Background(), primitive.NilObjectID, "KNOWN"); err != nil || p.Username != "known" {
		t.Errorf("profile = %+v, %v", p, err)
	}
}
