package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/reindeer-letter/letter-backend/internal/repository"
	"gorm.io/gorm"
)

// Draft placeholder defaults; drafts never persist NULL content fields
const (
	draftDefaultTitle    = "임시저장"
	draftDefaultNickname = "익명"
)

// DraftSaveResult reports whether a draft upsert created or updated a row
type DraftSaveResult struct {
	Letter  *domain.LetterResponse `json:"letter"`
	Created bool                   `json:"created"`
}

// LetterService owns the letter lifecycle: creation, visibility, drafts.
// All state transitions go through here; repositories only persist.
type LetterService interface {
	Create(req *domain.CreateLetterRequest, senderID *uint64) (*domain.LetterResponse, error)
	Get(id, viewerID uint64) (*domain.LetterResponse, error)
	ListReceived(userID uint64, page, limit int, category domain.Category) ([]*domain.LetterListItem, *common.Meta, error)
	ListSelf(userID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error)
	SaveDraft(req *domain.SaveDraftRequest, senderID uint64, draftID *uint64) (*DraftSaveResult, error)
	GetDraft(id, senderID uint64) (*domain.LetterResponse, error)
	ListDrafts(senderID uint64, page, limit int) ([]*domain.LetterResponse, *common.Meta, error)
	UpdateDraft(id uint64, req *domain.SaveDraftRequest, senderID uint64) (*domain.LetterResponse, error)
	SendDraft(id uint64, req *domain.CreateLetterRequest, senderID uint64) (*domain.LetterResponse, error)
	DeleteDraft(id, senderID uint64) error
}

type letterService struct {
	repo repository.LetterRepository
	now  func() time.Time
}

// NewLetterService creates a new LetterService
func NewLetterService(repo repository.LetterRepository) LetterService {
	return &letterService{
		repo: repo,
		now:  time.Now,
	}
}

// scheduling evaluates a YYYY-MM-DD schedule date against today (UTC midnight).
// No date, or a date that is today or earlier, means immediate delivery.
func (s *letterService) scheduling(scheduledAt string) (*time.Time, bool, error) {
	if scheduledAt == "" {
		return nil, true, nil
	}

	date, err := domain.ParseScheduleDate(scheduledAt)
	if err != nil {
		return nil, false, fmt.Errorf("%w: 예약일 형식은 YYYY-MM-DD 입니다", common.ErrInvalidInput)
	}

	today := domain.TruncateToDay(s.now())
	return &date, !date.After(today), nil
}

// Create sends a new letter. Anonymous senders are allowed (senderID nil);
// a recipient is always required for a non-draft letter.
func (s *letterService) Create(req *domain.CreateLetterRequest, senderID *uint64) (*domain.LetterResponse, error) {
	if req.ReceiverID == 0 {
		return nil, fmt.Errorf("%w: 수신자가 필요합니다", common.ErrInvalidInput)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: 유효하지 않은 카테고리입니다", common.ErrInvalidInput)
	}

	scheduledAt, delivered, err := s.scheduling(req.ScheduledAt)
	if err != nil {
		return nil, err
	}

	letter := &domain.Letter{
		Title:          req.Title,
		Body:           req.Body,
		ImageURLs:      req.ImageURLs,
		BgmURL:         req.BgmURL,
		VoiceURL:       req.VoiceURL,
		Category:       req.Category,
		SenderID:       senderID,
		ReceiverID:     req.ReceiverID,
		SenderNickname: req.SenderNickname,
		ScheduledAt:    scheduledAt,
		IsDraft:        false,
		IsDelivered:    delivered,
		IsOpen:         false,
	}

	if err := s.repo.Create(letter); err != nil {
		return nil, fmt.Errorf("create letter: %w", err)
	}

	return letter.ToResponse(), nil
}

// Get returns a letter's full content to its recipient. The first successful
// view flips is_open exactly once; later views are no-ops. A scheduled letter
// is not visible even to the correct recipient until the sweep delivers it.
func (s *letterService) Get(id, viewerID uint64) (*domain.LetterResponse, error) {
	letter, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrLetterNotFound
		}
		return nil, fmt.Errorf("find letter: %w", err)
	}

	// Drafts are only reachable through the draft endpoints
	if letter.IsDraft {
		return nil, common.ErrLetterNotFound
	}

	if letter.ReceiverID != viewerID {
		return nil, fmt.Errorf("%w: 이 편지는 수신자만 볼 수 있습니다", common.ErrForbidden)
	}

	if !letter.IsDelivered {
		return nil, fmt.Errorf("%w: 아직 열람할 수 없는 편지입니다", common.ErrNotDeliverable)
	}

	if !letter.IsOpen {
		if _, err := s.repo.MarkOpened(letter.ID); err != nil {
			return nil, fmt.Errorf("mark opened: %w", err)
		}
		letter.IsOpen = true
	}

	return letter.ToResponse(), nil
}

// ListReceived returns a user's inbox: non-draft letters addressed to them,
// newest first, optionally filtered by category.
func (s *letterService) ListReceived(userID uint64, page, limit int, category domain.Category) ([]*domain.LetterListItem, *common.Meta, error) {
	page, limit = normalizePage(page, limit)

	if category != "" && !category.Valid() {
		return nil, nil, fmt.Errorf("%w: 유효하지 않은 카테고리입니다", common.ErrInvalidInput)
	}

	letters, total, err := s.repo.FindReceived(userID, category, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list received: %w", err)
	}

	items := make([]*domain.LetterListItem, len(letters))
	for i, l := range letters {
		items[i] = l.ToListItem()
	}

	return items, common.NewMeta(page, limit, total), nil
}

// ListSelf returns letters a user wrote to themselves
func (s *letterService) ListSelf(userID uint64, page, limit int) ([]*domain.LetterListItem, *common.Meta, error) {
	page, limit = normalizePage(page, limit)

	letters, total, err := s.repo.FindSelf(userID, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list self: %w", err)
	}

	items := make([]*domain.LetterListItem, len(letters))
	for i, l := range letters {
		items[i] = l.ToListItem()
	}

	return items, common.NewMeta(page, limit, total), nil
}

// SaveDraft upserts a draft. With a draftID it updates the caller's own draft
// (NotFound otherwise); without one it creates a new draft, filling missing
// content with placeholders so no field is ever NULL.
func (s *letterService) SaveDraft(req *domain.SaveDraftRequest, senderID uint64, draftID *uint64) (*DraftSaveResult, error) {
	if draftID != nil {
		updated, err := s.UpdateDraft(*draftID, req, senderID)
		if err != nil {
			return nil, err
		}
		return &DraftSaveResult{Letter: updated, Created: false}, nil
	}

	sid := senderID
	letter := &domain.Letter{
		Title:          draftDefaultTitle,
		Body:           "",
		ImageURLs:      req.ImageURLs,
		Category:       domain.CategoryText,
		SenderID:       &sid,
		ReceiverID:     senderID, // placeholder until the draft is sent
		SenderNickname: draftDefaultNickname,
		IsDraft:        true,
		IsDelivered:    true, // meaningless while drafted; re-evaluated on send
	}
	if req.Title != nil {
		letter.Title = *req.Title
	}
	if req.Body != nil {
		letter.Body = *req.Body
	}
	if req.BgmURL != nil {
		letter.BgmURL = *req.BgmURL
	}
	if req.VoiceURL != nil {
		letter.VoiceURL = *req.VoiceURL
	}
	if req.Category != nil && req.Category.Valid() {
		letter.Category = *req.Category
	}
	if req.ReceiverID != nil && *req.ReceiverID != 0 {
		letter.ReceiverID = *req.ReceiverID
	}
	if req.SenderNickname != nil {
		letter.SenderNickname = *req.SenderNickname
	}
	if req.ScheduledAt != nil && *req.ScheduledAt != "" {
		date, err := domain.ParseScheduleDate(*req.ScheduledAt)
		if err != nil {
			return nil, fmt.Errorf("%w: 예약일 형식은 YYYY-MM-DD 입니다", common.ErrInvalidInput)
		}
		letter.ScheduledAt = &date
	}

	if err := s.repo.Create(letter); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}

	return &DraftSaveResult{Letter: letter.ToResponse(), Created: true}, nil
}

// GetDraft returns a draft to its owner
func (s *letterService) GetDraft(id, senderID uint64) (*domain.LetterResponse, error) {
	draft, err := s.repo.FindDraft(id, senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrDraftNotFound
		}
		return nil, fmt.Errorf("find draft: %w", err)
	}
	return draft.ToResponse(), nil
}

// ListDrafts returns a sender's drafts, most recently edited first
func (s *letterService) ListDrafts(senderID uint64, page, limit int) ([]*domain.LetterResponse, *common.Meta, error) {
	page, limit = normalizePage(page, limit)

	drafts, total, err := s.repo.FindDrafts(senderID, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list drafts: %w", err)
	}

	items := make([]*domain.LetterResponse, len(drafts))
	for i, d := range drafts {
		items[i] = d.ToResponse()
	}

	return items, common.NewMeta(page, limit, total), nil
}

// UpdateDraft merges the supplied fields over an existing draft
func (s *letterService) UpdateDraft(id uint64, req *domain.SaveDraftRequest, senderID uint64) (*domain.LetterResponse, error) {
	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Body != nil {
		fields["body"] = *req.Body
	}
	if req.ImageURLs != nil {
		fields["image_urls"] = domain.StringList(req.ImageURLs)
	}
	if req.BgmURL != nil {
		fields["bgm_url"] = *req.BgmURL
	}
	if req.VoiceURL != nil {
		fields["voice_url"] = *req.VoiceURL
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, fmt.Errorf("%w: 유효하지 않은 카테고리입니다", common.ErrInvalidInput)
		}
		fields["category"] = *req.Category
	}
	if req.ReceiverID != nil && *req.ReceiverID != 0 {
		fields["receiver_id"] = *req.ReceiverID
	}
	if req.SenderNickname != nil {
		fields["sender_nickname"] = *req.SenderNickname
	}
	if req.ScheduledAt != nil {
		if *req.ScheduledAt == "" {
			fields["scheduled_at"] = nil
		} else {
			date, err := domain.ParseScheduleDate(*req.ScheduledAt)
			if err != nil {
				return nil, fmt.Errorf("%w: 예약일 형식은 YYYY-MM-DD 입니다", common.ErrInvalidInput)
			}
			fields["scheduled_at"] = date
		}
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateDraft(id, senderID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrDraftNotFound
			}
			return nil, fmt.Errorf("update draft: %w", err)
		}
	}

	draft, err := s.repo.FindDraft(id, senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrDraftNotFound
		}
		return nil, fmt.Errorf("find draft: %w", err)
	}
	return draft.ToResponse(), nil
}

// SendDraft promotes a draft to a sent letter in place, so an externally
// shared draft id keeps referring to the same row. The recipient becomes
// mandatory and the schedule is re-evaluated exactly as in Create.
func (s *letterService) SendDraft(id uint64, req *domain.CreateLetterRequest, senderID uint64) (*domain.LetterResponse, error) {
	if req.ReceiverID == 0 {
		return nil, fmt.Errorf("%w: 수신자가 필요합니다", common.ErrInvalidInput)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: 유효하지 않은 카테고리입니다", common.ErrInvalidInput)
	}

	scheduledAt, delivered, err := s.scheduling(req.ScheduledAt)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"title":           req.Title,
		"body":            req.Body,
		"image_urls":      domain.StringList(req.ImageURLs),
		"bgm_url":         req.BgmURL,
		"voice_url":       req.VoiceURL,
		"category":        req.Category,
		"receiver_id":     req.ReceiverID,
		"sender_nickname": req.SenderNickname,
		"scheduled_at":    scheduledAt,
		"is_delivered":    delivered,
		"is_open":         false,
	}

	if err := s.repo.PromoteDraft(id, senderID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrDraftNotFound
		}
		return nil, fmt.Errorf("send draft: %w", err)
	}

	letter, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("find sent letter: %w", err)
	}
	return letter.ToResponse(), nil
}

// DeleteDraft hard-deletes a draft owned by the caller
func (s *letterService) DeleteDraft(id, senderID uint64) error {
	if err := s.repo.DeleteDraft(id, senderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrDraftNotFound
		}
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit
}
