package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/reindeer-letter/letter-backend/internal/repository"
	pkglogger "github.com/reindeer-letter/letter-backend/pkg/logger"
)

var (
	lettersDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "letters_delivered_total",
		Help: "Total number of scheduled letters promoted to delivered",
	})

	deliveryNotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "letters_notify_failures_total",
		Help: "Total number of failed delivery notification emails",
	})

	sweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "letter_sweep_runs_total",
		Help: "Total number of delivery sweep runs",
	})
)

// Notifier sends the "letter arrived" email. Failures are logged, never fatal.
type Notifier interface {
	SendLetterNotification(to, letterTitle string) error
}

// SweepResult summarizes one delivery sweep run
type SweepResult struct {
	ProcessedCount int                      `json:"processed_count"`
	Letters        []*domain.LetterResponse `json:"letters"`
}

// DeliveryService promotes due scheduled letters to delivered and notifies
// recipients. Safe to run concurrently or repeatedly: the is_delivered guard
// inside the promotion update makes re-promotion impossible.
type DeliveryService interface {
	ProcessDue(ctx context.Context) (*SweepResult, error)
}

type deliveryService struct {
	letterRepo repository.LetterRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	now        func() time.Time
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(letterRepo repository.LetterRepository, userRepo repository.UserRepository, notifier Notifier) DeliveryService {
	return &deliveryService{
		letterRepo: letterRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		now:        time.Now,
	}
}

// ProcessDue runs one sweep. Per-letter failures are isolated: one letter's
// problem never aborts the rest of the batch. The state flip commits before
// the notification attempt so a notify failure cannot roll back delivery.
func (s *deliveryService) ProcessDue(ctx context.Context) (*SweepResult, error) {
	sweepRunsTotal.Inc()
	log := pkglogger.GetLogger()

	due, err := s.letterRepo.FindDue(s.now())
	if err != nil {
		return nil, fmt.Errorf("find due letters: %w", err)
	}

	result := &SweepResult{Letters: make([]*domain.LetterResponse, 0, len(due))}

	for _, letter := range due {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		promoted, err := s.letterRepo.MarkDelivered(letter.ID)
		if err != nil {
			log.Error().Err(err).Uint64("letter_id", letter.ID).Msg("delivery promotion failed")
			continue
		}
		if !promoted {
			// Another sweep instance got there first
			continue
		}

		letter.IsDelivered = true
		lettersDeliveredTotal.Inc()
		result.ProcessedCount++
		result.Letters = append(result.Letters, letter.ToResponse())

		s.notify(letter)
	}

	log.Info().
		Int("processed", result.ProcessedCount).
		Int("due", len(due)).
		Msg("delivery sweep completed")

	return result, nil
}

// notify emails the recipient, best-effort
func (s *deliveryService) notify(letter *domain.Letter) {
	log := pkglogger.GetLogger()

	recipient, err := s.userRepo.FindByID(letter.ReceiverID)
	if err != nil {
		deliveryNotifyFailures.Inc()
		log.Error().Err(err).Uint64("letter_id", letter.ID).Msg("delivery notification skipped: recipient lookup failed")
		return
	}

	if err := s.notifier.SendLetterNotification(recipient.Email, letter.Title); err != nil {
		deliveryNotifyFailures.Inc()
		log.Error().Err(err).
			Uint64("letter_id", letter.ID).
			Str("recipient", recipient.Email).
			Msg("delivery notification failed")
	}
}
