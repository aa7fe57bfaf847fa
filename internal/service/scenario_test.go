package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// memLetterRepo is an in-memory letter store with the same guard semantics
// as the SQL implementation: conditional flips report whether a row changed,
// and the due query never matches drafts or delivered letters.
type memLetterRepo struct {
	mu        sync.Mutex
	nextID    uint64
	letters   map[uint64]*domain.Letter
	openFlips int
}

func newMemLetterRepo() *memLetterRepo {
	return &memLetterRepo{nextID: 1, letters: map[uint64]*domain.Letter{}}
}

func (r *memLetterRepo) Create(letter *domain.Letter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	letter.ID = r.nextID
	r.nextID++
	stored := *letter
	r.letters[letter.ID] = &stored
	return nil
}

func (r *memLetterRepo) FindByID(id uint64) (*domain.Letter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.letters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *memLetterRepo) FindReceived(receiverID uint64, category domain.Category, page, limit int) ([]*domain.Letter, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Letter
	for _, l := range r.letters {
		if l.ReceiverID == receiverID && !l.IsDraft {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memLetterRepo) FindSelf(userID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	return nil, 0, nil
}

func (r *memLetterRepo) FindDraft(id, senderID uint64) (*domain.Letter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.letters[id]
	if !ok || !stored.IsDraft || stored.SenderID == nil || *stored.SenderID != senderID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *memLetterRepo) FindDrafts(senderID uint64, page, limit int) ([]*domain.Letter, int64, error) {
	return nil, 0, nil
}

func (r *memLetterRepo) UpdateDraft(id, senderID uint64, fields map[string]interface{}) error {
	return gorm.ErrRecordNotFound
}

func (r *memLetterRepo) PromoteDraft(id, senderID uint64, fields map[string]interface{}) error {
	return gorm.ErrRecordNotFound
}

func (r *memLetterRepo) DeleteDraft(id, senderID uint64) error {
	return gorm.ErrRecordNotFound
}

func (r *memLetterRepo) MarkOpened(id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.letters[id]
	if !ok || stored.IsOpen {
		return false, nil
	}
	stored.IsOpen = true
	r.openFlips++
	return true, nil
}

func (r *memLetterRepo) FindDue(now time.Time) ([]*domain.Letter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*domain.Letter
	for _, l := range r.letters {
		if !l.IsDelivered && l.ScheduledAt != nil && !l.ScheduledAt.After(now) {
			copied := *l
			due = append(due, &copied)
		}
	}
	return due, nil
}

func (r *memLetterRepo) MarkDelivered(id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.letters[id]
	if !ok || stored.IsDelivered {
		return false, nil
	}
	stored.IsDelivered = true
	return true, nil
}

// Full lifecycle against a stateful store: a future-scheduled letter stays
// sealed until the sweep after its date delivers it, the recipient's first
// view opens it exactly once, and a stranger can never read it.
func TestScheduledLetterLifecycle(t *testing.T) {
	repo := newMemLetterRepo()
	users := new(mockUserRepo)
	notifier := new(mockNotifier)

	clock := testNow // 2025-12-24 15:30 UTC
	now := func() time.Time { return clock }

	letterSvc := &letterService{repo: repo, now: now}
	deliverySvc := &deliveryService{letterRepo: repo, userRepo: users, notifier: notifier, now: now}

	recipient := &domain.User{ID: 2, Email: "receiver@example.com", Nickname: "수신자"}
	users.On("FindByID", uint64(2)).Return(recipient, nil)
	notifier.On("SendLetterNotification", "receiver@example.com", "크리스마스 편지").Return(nil)

	// 12월 26일로 예약하여 발송
	created, err := letterSvc.Create(&domain.CreateLetterRequest{
		Title:          "크리스마스 편지",
		Body:           "메리 크리스마스!",
		Category:       domain.CategoryText,
		ReceiverID:     2,
		ScheduledAt:    "2025-12-26",
		SenderNickname: "루돌프",
	}, nil)
	assert.NoError(t, err)
	assert.False(t, created.IsDelivered)
	assert.Equal(t, domain.StateScheduled, created.State)

	// 배달 전에는 수신자 본인도 열람 불가
	_, err = letterSvc.Get(created.ID, 2)
	assert.ErrorIs(t, err, common.ErrNotDeliverable)

	// 예약일 전 스윕은 아무것도 처리하지 않음
	result, err := deliverySvc.ProcessDue(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, result.ProcessedCount)
	notifier.AssertNotCalled(t, "SendLetterNotification")

	// 예약일이 지난 뒤의 스윕이 배달하고 알림을 보냄
	clock = clock.Add(48 * time.Hour) // 2025-12-26 15:30
	result, err = deliverySvc.ProcessDue(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	notifier.AssertNumberOfCalls(t, "SendLetterNotification", 1)

	// 스윕 재실행은 멱등: 이미 배달된 편지는 다시 처리되지 않음
	result, err = deliverySvc.ProcessDue(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, result.ProcessedCount)
	notifier.AssertNumberOfCalls(t, "SendLetterNotification", 1)

	// 제3자는 배달 후에도 열람 불가
	_, err = letterSvc.Get(created.ID, 99)
	assert.ErrorIs(t, err, common.ErrForbidden)

	// 수신자의 첫 열람이 편지를 개봉함
	first, err := letterSvc.Get(created.ID, 2)
	assert.NoError(t, err)
	assert.True(t, first.IsDelivered)
	assert.True(t, first.IsOpen)
	assert.Equal(t, domain.StateDeliveredRead, first.State)

	// 재열람은 동일한 내용을 반환하고 개봉 플래그를 다시 뒤집지 않음
	second, err := letterSvc.Get(created.ID, 2)
	assert.NoError(t, err)
	assert.Equal(t, first.Body, second.Body)
	assert.True(t, second.IsOpen)
	assert.Equal(t, 1, repo.openFlips)
}
