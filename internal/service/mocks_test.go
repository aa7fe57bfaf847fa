package service

import (
	"context"
	"time"

	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock LetterRepository ---

type mockLetterRepo struct {
	mock.Mock
}

func (m *mockLetterRepo) Create(letter *domain.Letter) error {
	return m.Called(letter).Error(0)
}

func (m *mockLetterRepo) FindByID(id uint64) (*domain.Letter, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Letter), args.Error(1)
}

func (m *mockLetterRepo) FindReceived(receiverID uint64, category domain.Category, page, limit int) ([]*domain.Letter, int64, error) {
	args := m.Called(receiverID, category, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Letter), args.Get(1).(int64), args.Error(2)
}

func (m *mockLetterRepo) FindSelf(userID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	args := m.Called(userID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Letter), args.Get(1).(int64), args.Error(2)
}

func (m *mockLetterRepo) FindDraft(id, senderID uint64) (*domain.Letter, error) {
	args := m.Called(id, senderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Letter), args.Error(1)
}

func (m *mockLetterRepo) FindDrafts(senderID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	args := m.Called(senderID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Letter), args.Get(1).(int64), args.Error(2)
}

func (m *mockLetterRepo) UpdateDraft(id, senderID uint64, fields map[string]interface{}) error {
	return m.Called(id, senderID, fields).Error(0)
}

func (m *mockLetterRepo) PromoteDraft(id, senderID uint64, fields map[string]interface{}) error {
	return m.Called(id, senderID, fields).Error(0)
}

func (m *mockLetterRepo) DeleteDraft(id, senderID uint64) error {
	return m.Called(id, senderID).Error(0)
}

func (m *mockLetterRepo) MarkOpened(id uint64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockLetterRepo) FindDue(now time.Time) ([]*domain.Letter, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Letter), args.Error(1)
}

func (m *mockLetterRepo) MarkDelivered(id uint64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) FindByID(id uint64) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByNickname(nickname string) (*domain.User, error) {
	args := m.Called(nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByProvider(provider domain.OAuthProvider, providerUID string) (*domain.User, error) {
	args := m.Called(provider, providerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) UpdateRefreshToken(id uint64, token string) error {
	return m.Called(id, token).Error(0)
}

func (m *mockUserRepo) Update(user *domain.User) error {
	return m.Called(user).Error(0)
}

// --- Mock VerificationRepository ---

type mockVerificationRepo struct {
	mock.Mock
}

func (m *mockVerificationRepo) Upsert(v *domain.EmailVerification) error {
	return m.Called(v).Error(0)
}

func (m *mockVerificationRepo) FindByEmail(email string) (*domain.EmailVerification, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailVerification), args.Error(1)
}

func (m *mockVerificationRepo) MarkVerified(email string) error {
	return m.Called(email).Error(0)
}

// --- Mock cache.Service ---

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) GetBgmList(ctx context.Context, dest interface{}) error {
	return m.Called(ctx, dest).Error(0)
}

func (m *mockCache) SetBgmList(ctx context.Context, data interface{}) error {
	return m.Called(ctx, data).Error(0)
}

func (m *mockCache) GetUser(ctx context.Context, userID string, dest interface{}) error {
	return m.Called(ctx, userID, dest).Error(0)
}

func (m *mockCache) SetUser(ctx context.Context, userID string, data interface{}) error {
	return m.Called(ctx, userID, data).Error(0)
}

func (m *mockCache) InvalidateUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockCache) IsAvailable() bool {
	return m.Called().Bool(0)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Mock Notifier / VerificationSender ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendLetterNotification(to, letterTitle string) error {
	return m.Called(to, letterTitle).Error(0)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendVerificationCode(to, code string) error {
	return m.Called(to, code).Error(0)
}
