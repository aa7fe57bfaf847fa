package domain

import "time"

// Category classifies a letter as text or voice
type Category string

const (
	CategoryText  Category = "TEXT"
	CategoryVoice Category = "VOICE"
)

// Valid reports whether the category is a known value
func (c Category) Valid() bool {
	return c == CategoryText || c == CategoryVoice
}

// LetterState is the derived lifecycle state of a letter
type LetterState string

const (
	StateDraft           LetterState = "DRAFT"
	StateScheduled       LetterState = "SCHEDULED"
	StateDeliveredUnread LetterState = "DELIVERED_UNREAD"
	StateDeliveredRead   LetterState = "DELIVERED_READ"
)

// Letter represents a letter addressed to a recipient, possibly scheduled
// for future delivery. Lifecycle flags:
//   - is_draft: unsent, visible only to the sender
//   - is_delivered: content visible to the recipient; one-way false→true
//   - is_open: recipient has viewed it at least once; one-way false→true
type Letter struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title          string     `gorm:"column:title;size:255" json:"title"`
	Body           string     `gorm:"column:body;type:text" json:"body"`
	ImageURLs      StringList `gorm:"column:image_urls;type:json" json:"image_urls"`
	BgmURL         string     `gorm:"column:bgm_url;size:512" json:"bgm_url"`
	VoiceURL       string     `gorm:"column:voice_url;size:512" json:"voice_url,omitempty"`
	Category       Category   `gorm:"column:category;size:16;default:TEXT" json:"category"`
	SenderID       *uint64    `gorm:"column:sender_id;index" json:"sender_id,omitempty"`
	ReceiverID     uint64     `gorm:"column:receiver_id;index" json:"receiver_id"`
	SenderNickname string     `gorm:"column:sender_nickname;size:50" json:"sender_nickname"`
	ScheduledAt    *time.Time `gorm:"column:scheduled_at;index" json:"scheduled_at,omitempty"`
	IsDraft        bool       `gorm:"column:is_draft;default:false;index" json:"is_draft"`
	// No gorm default tag here: a default would overwrite an explicit false
	// on insert, storing scheduled letters as already delivered.
	IsDelivered bool `gorm:"column:is_delivered;index" json:"is_delivered"`
	IsOpen         bool       `gorm:"column:is_open;default:false" json:"is_open"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Letter) TableName() string {
	return "letters"
}

// State derives the lifecycle state from the boolean flags
func (l *Letter) State() LetterState {
	switch {
	case l.IsDraft:
		return StateDraft
	case !l.IsDelivered:
		return StateScheduled
	case !l.IsOpen:
		return StateDeliveredUnread
	default:
		return StateDeliveredRead
	}
}

// TruncateToDay normalizes a time to UTC midnight. Schedule dates and "today"
// both go through this helper so the create path and the sweeper can never
// disagree on the comparison.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseScheduleDate parses a YYYY-MM-DD schedule date into UTC midnight
func ParseScheduleDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateToDay(t), nil
}

// CreateLetterRequest is the payload for sending a letter
type CreateLetterRequest struct {
	Title          string   `json:"title" binding:"required"`
	Body           string   `json:"body" binding:"required"`
	ImageURLs      []string `json:"image_urls"`
	BgmURL         string   `json:"bgm_url"`
	VoiceURL       string   `json:"voice_url"`
	Category       Category `json:"category" binding:"required"`
	ReceiverID     uint64   `json:"receiver_id"`
	ScheduledAt    string   `json:"scheduled_at"` // YYYY-MM-DD, optional
	SenderNickname string   `json:"sender_nickname" binding:"required,max=20"`
}

// SaveDraftRequest is the partial payload for draft upsert; every field optional
type SaveDraftRequest struct {
	Title          *string  `json:"title"`
	Body           *string  `json:"body"`
	ImageURLs      []string `json:"image_urls"`
	BgmURL         *string  `json:"bgm_url"`
	VoiceURL       *string  `json:"voice_url"`
	Category       *Category `json:"category"`
	ReceiverID     *uint64  `json:"receiver_id"`
	ScheduledAt    *string  `json:"scheduled_at"`
	SenderNickname *string  `json:"sender_nickname"`
}

// LetterResponse is a letter in API responses
type LetterResponse struct {
	ID             uint64        `json:"id"`
	Title          string        `json:"title"`
	Body           string        `json:"body"`
	ImageURLs      []string      `json:"image_urls"`
	BgmURL         string        `json:"bgm_url,omitempty"`
	VoiceURL       string        `json:"voice_url,omitempty"`
	Category       Category      `json:"category"`
	SenderNickname string        `json:"sender_nickname"`
	ReceiverID     uint64        `json:"receiver_id"`
	ScheduledAt    *time.Time    `json:"scheduled_at,omitempty"`
	State          LetterState   `json:"state"`
	IsDraft        bool          `json:"is_draft"`
	IsDelivered    bool          `json:"is_delivered"`
	IsOpen         bool          `json:"is_open"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ToResponse converts Letter to LetterResponse
func (l *Letter) ToResponse() *LetterResponse {
	return &LetterResponse{
		ID:             l.ID,
		Title:          l.Title,
		Body:           l.Body,
		ImageURLs:      l.ImageURLs,
		BgmURL:         l.BgmURL,
		VoiceURL:       l.VoiceURL,
		Category:       l.Category,
		SenderNickname: l.SenderNickname,
		ReceiverID:     l.ReceiverID,
		ScheduledAt:    l.ScheduledAt,
		State:          l.State(),
		IsDraft:        l.IsDraft,
		IsDelivered:    l.IsDelivered,
		IsOpen:         l.IsOpen,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ListItem is a letter in paginated listings; body withheld until opened view
type LetterListItem struct {
	ID             uint64      `json:"id"`
	Title          string      `json:"title"`
	Category       Category    `json:"category"`
	SenderNickname string      `json:"sender_nickname"`
	ScheduledAt    *time.Time  `json:"scheduled_at,omitempty"`
	State          LetterState `json:"state"`
	IsDelivered    bool        `json:"is_delivered"`
	IsOpen         bool        `json:"is_open"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ToListItem converts Letter to LetterListItem
func (l *Letter) ToListItem() *LetterListItem {
	return &LetterListItem{
		ID:             l.ID,
		Title:          l.Title,
		Category:       l.Category,
		SenderNickname: l.SenderNickname,
		ScheduledAt:    l.ScheduledAt,
		State:          l.State(),
		IsDelivered:    l.IsDelivered,
		IsOpen:         l.IsOpen,
		CreatedAt:      l.CreatedAt,
	}
}
