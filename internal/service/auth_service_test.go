package service

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/reindeer-letter/letter-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestAuthService(users *mockUserRepo, verifications *mockVerificationRepo, sender *mockSender) *authService {
	return &authService{
		userRepo:         users,
		verificationRepo: verifications,
		jwtManager:       jwt.NewManager("test-secret", time.Hour, 24*time.Hour),
		sender:           sender,
		now:              func() time.Time { return testNow },
	}
}

func verifiedRecord(email string) *domain.EmailVerification {
	return &domain.EmailVerification{
		Email:     email,
		Code:      "ABC123",
		ExpiresAt: testNow.Add(5 * time.Minute),
		Verified:  true,
	}
}

func TestRegisterRequiresVerifiedEmail(t *testing.T) {
	users := new(mockUserRepo)
	verifications := new(mockVerificationRepo)
	svc := newTestAuthService(users, verifications, new(mockSender))

	verifications.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Register(&domain.RegisterRequest{
		Email: "new@example.com", Nickname: "루돌프", Password: "secret123",
	})

	assert.ErrorIs(t, err, common.ErrVerificationRequired)
	users.AssertNotCalled(t, "Create")
}

func TestRegisterRejectsUnverifiedRecord(t *testing.T) {
	users := new(mockUserRepo)
	verifications := new(mockVerificationRepo)
	svc := newTestAuthService(users, verifications, new(mockSender))

	pending := verifiedRecord("new@example.com")
	pending.Verified = false
	verifications.On("FindByEmail", "new@example.com").Return(pending, nil)

	_, err := svc.Register(&domain.RegisterRequest{
		Email: "new@example.com", Nickname: "루돌프", Password: "secret123",
	})

	assert.ErrorIs(t, err, common.ErrVerificationRequired)
}

func TestRegisterConflicts(t *testing.T) {
	users := new(mockUserRepo)
	verifications := new(mockVerificationRepo)
	svc := newTestAuthService(users, verifications, new(mockSender))

	verifications.On("FindByEmail", mock.Anything).Return(verifiedRecord("new@example.com"), nil)

	users.On("FindByEmail", "new@example.com").Return(&domain.User{ID: 1}, nil).Once()
	_, err := svc.Register(&domain.RegisterRequest{
		Email: "new@example.com", Nickname: "루돌프", Password: "secret123",
	})
	assert.ErrorIs(t, err, common.ErrEmailTaken)

	users.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
	users.On("FindByNickname", "루돌프").Return(&domain.User{ID: 2}, nil).Once()
	_, err = svc.Register(&domain.RegisterRequest{
		Email: "new@example.com", Nickname: "루돌프", Password: "secret123",
	})
	assert.ErrorIs(t, err, common.ErrNicknameTaken)

	users.AssertNotCalled(t, "Create")
}

func TestRegisterHashesPassword(t *testing.T) {
	users := new(mockUserRepo)
	verifications := new(mockVerificationRepo)
	svc := newTestAuthService(users, verifications, new(mockSender))

	verifications.On("FindByEmail", "new@example.com").Return(verifiedRecord("new@example.com"), nil)
	users.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("FindByNickname", "루돌프").Return(nil, gorm.ErrRecordNotFound)

	var created *domain.User
	users.On("Create", mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(0).(*domain.User)
			created.ID = 10
		}).Return(nil)

	resp, err := svc.Register(&domain.RegisterRequest{
		Email: "new@example.com", Nickname: "루돌프", Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.Email)
	assert.NotEmpty(t, created.PublicID)
	assert.NotEqual(t, "secret123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))
}

func localUser(t *testing.T) *domain.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)
	return &domain.User{
		ID: 10, Email: "user@example.com", Nickname: "루돌프", Password: string(hashed),
	}
}

func TestLoginIssuesAndStoresTokens(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))

	users.On("FindByEmail", "user@example.com").Return(localUser(t), nil)

	var stored string
	users.On("UpdateRefreshToken", uint64(10), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			stored = args.String(1)
		}).Return(nil)

	resp, err := svc.Login(&domain.LoginRequest{Email: "user@example.com", Password: "secret123"})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, resp.RefreshToken, stored)
	assert.Equal(t, "루돌프", resp.User.Nickname)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))

	users.On("FindByEmail", "user@example.com").Return(localUser(t), nil)

	_, err := svc.Login(&domain.LoginRequest{Email: "user@example.com", Password: "wrong"})

	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	users.AssertNotCalled(t, "UpdateRefreshToken")
}

func TestLoginRejectsOAuthOnlyAccount(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))

	users.On("FindByEmail", "user@example.com").Return(&domain.User{
		ID: 10, Email: "user@example.com", Provider: domain.OAuthProviderGoogle,
	}, nil)

	_, err := svc.Login(&domain.LoginRequest{Email: "user@example.com", Password: "anything"})

	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))

	user := localUser(t)
	token, err := svc.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	assert.NoError(t, err)
	user.RefreshToken = token

	users.On("FindByID", uint64(10)).Return(user, nil)
	users.On("UpdateRefreshToken", uint64(10), mock.AnythingOfType("string")).Return(nil)

	pair, err := svc.Refresh(token)

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRefreshRejectsSupersededToken(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))

	user := localUser(t)
	old, err := svc.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	assert.NoError(t, err)
	user.RefreshToken = "a-newer-token"

	users.On("FindByID", uint64(10)).Return(user, nil)

	_, err = svc.Refresh(old)

	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))

	_, err := svc.Refresh("not-a-jwt")

	assert.ErrorIs(t, err, common.ErrUnauthorized)
	users.AssertNotCalled(t, "FindByID")
}

func TestLogoutClearsRefreshToken(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))

	users.On("UpdateRefreshToken", uint64(10), "").Return(nil)

	assert.NoError(t, svc.Logout(10))
	users.AssertExpectations(t)
}

func TestSendVerificationCodeUpsertsAndMails(t *testing.T) {
	verifications := new(mockVerificationRepo)
	sender := new(mockSender)
	svc := newTestAuthService(new(mockUserRepo), verifications, sender)

	var saved *domain.EmailVerification
	verifications.On("Upsert", mock.AnythingOfType("*domain.EmailVerification")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*domain.EmailVerification)
		}).Return(nil)
	sender.On("SendVerificationCode", "new@example.com", mock.AnythingOfType("string")).Return(nil)

	err := svc.SendVerificationCode("new@example.com")

	assert.NoError(t, err)
	assert.Len(t, saved.Code, verificationCodeLength)
	assert.Equal(t, testNow.Add(verificationExpiry), saved.ExpiresAt)
	sender.AssertCalled(t, "SendVerificationCode", "new@example.com", saved.Code)
}

func TestVerifyEmail(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		verifications := new(mockVerificationRepo)
		svc := newTestAuthService(new(mockUserRepo), verifications, new(mockSender))

		stale := verifiedRecord("new@example.com")
		stale.Verified = false
		stale.ExpiresAt = testNow.Add(-time.Minute)
		verifications.On("FindByEmail", "new@example.com").Return(stale, nil)

		err := svc.VerifyEmail("new@example.com", "ABC123")
		assert.ErrorIs(t, err, common.ErrVerificationExpired)
	})

	t.Run("mismatch", func(t *testing.T) {
		verifications := new(mockVerificationRepo)
		svc := newTestAuthService(new(mockUserRepo), verifications, new(mockSender))

		pending := verifiedRecord("new@example.com")
		pending.Verified = false
		verifications.On("FindByEmail", "new@example.com").Return(pending, nil)

		err := svc.VerifyEmail("new@example.com", "WRONG1")
		assert.ErrorIs(t, err, common.ErrVerificationMismatch)
		verifications.AssertNotCalled(t, "MarkVerified")
	})

	t.Run("success", func(t *testing.T) {
		verifications := new(mockVerificationRepo)
		svc := newTestAuthService(new(mockUserRepo), verifications, new(mockSender))

		pending := verifiedRecord("new@example.com")
		pending.Verified = false
		verifications.On("FindByEmail", "new@example.com").Return(pending, nil)
		verifications.On("MarkVerified", "new@example.com").Return(nil)

		err := svc.VerifyEmail("new@example.com", "ABC123")
		assert.NoError(t, err)
		verifications.AssertExpectations(t)
	})
}

func TestMeReadsThroughUserCache(t *testing.T) {
	users := new(mockUserRepo)
	cacheMock := new(mockCache)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))
	svc.cache = cacheMock

	cacheMock.On("IsAvailable").Return(true)
	cacheMock.On("GetUser", mock.Anything, "10", mock.AnythingOfType("*domain.UserResponse")).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*domain.UserResponse)
			dest.ID = 10
			dest.Email = "user@example.com"
			dest.Nickname = "루돌프"
		}).Return(nil)

	resp, err := svc.Me(10)

	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", resp.Email)
	users.AssertNotCalled(t, "FindByID")
}

func TestMeCachesProfileOnMiss(t *testing.T) {
	users := new(mockUserRepo)
	cacheMock := new(mockCache)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))
	svc.cache = cacheMock

	user := localUser(t)
	cacheMock.On("IsAvailable").Return(true)
	cacheMock.On("GetUser", mock.Anything, "10", mock.Anything).Return(redis.Nil)
	users.On("FindByID", uint64(10)).Return(user, nil)
	cacheMock.On("SetUser", mock.Anything, "10", mock.AnythingOfType("*domain.UserResponse")).Return(nil)

	resp, err := svc.Me(10)

	assert.NoError(t, err)
	assert.Equal(t, user.Email, resp.Email)
	cacheMock.AssertCalled(t, "SetUser", mock.Anything, "10", mock.AnythingOfType("*domain.UserResponse"))
}

func TestMeWorksWithoutCache(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))

	users.On("FindByID", uint64(10)).Return(localUser(t), nil)

	resp, err := svc.Me(10)

	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", resp.Email)
}

func TestLogoutInvalidatesCachedProfile(t *testing.T) {
	users := new(mockUserRepo)
	cacheMock := new(mockCache)
	svc := newTestAuthService(users, new(mockVerificationRepo), new(mockSender))
	svc.cache = cacheMock

	users.On("UpdateRefreshToken", uint64(10), "").Return(nil)
	cacheMock.On("IsAvailable").Return(true)
	cacheMock.On("InvalidateUser", mock.Anything, "10").Return(nil)

	assert.NoError(t, svc.Logout(10))
	cacheMock.AssertCalled(t, "InvalidateUser", mock.Anything, "10")
}
