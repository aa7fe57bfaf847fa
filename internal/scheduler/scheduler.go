package scheduler

import (
	"sync"
	"time"

	"github.com/reindeer-letter/letter-backend/pkg/logger"
)

// Task 등록된 주기적 작업
type Task struct {
	Name      string
	Interval  time.Duration
	Handler   func() error
	LastRun   time.Time
	NextRun   time.Time
	RunCount  int64
	LastError error
}

// Scheduler runs registered tasks on their intervals from a single
// background goroutine. The delivery sweep is its main customer.
type Scheduler struct {
	tasks []*Task
	mu    sync.RWMutex
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewScheduler 스케줄러 생성
func NewScheduler() *Scheduler {
	return &Scheduler{
		tasks: make([]*Task, 0),
		stop:  make(chan struct{}),
	}
}

// Register 주기적 작업 등록
func (s *Scheduler) Register(taskName string, interval time.Duration, handler func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     taskName,
		Interval: interval,
		Handler:  handler,
		NextRun:  time.Now().Add(interval),
	})

	logger.Info("Scheduled task registered: %s (every %s)", taskName, interval)
}

// Start 스케줄러 시작 (백그라운드 goroutine)
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case now := <-ticker.C:
				s.tick(now)
			}
		}
	}()
	logger.Info("Scheduler started")
}

// Stop 스케줄러 중지
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
	logger.Info("Scheduler stopped")
}

// tick 실행 대상 작업 체크 및 실행
func (s *Scheduler) tick(now time.Time) {
	s.mu.RLock()
	tasks := make([]*Task, len(s.tasks))
	copy(tasks, s.tasks)
	s.mu.RUnlock()

	for _, task := range tasks {
		if now.Before(task.NextRun) {
			continue
		}

		if err := task.Handler(); err != nil {
			logger.Error("Scheduled task error [%s]: %v", task.Name, err)
			task.LastError = err
		} else {
			task.LastError = nil
		}

		task.LastRun = now
		task.NextRun = now.Add(task.Interval)
		task.RunCount++
	}
}

// GetTasks 등록된 작업 목록 조회 (모니터링용)
func (s *Scheduler) GetTasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]TaskInfo, 0, len(s.tasks))
	for _, t := range s.tasks {
		info := TaskInfo{
			Name:     t.Name,
			Interval: t.Interval.String(),
			LastRun:  t.LastRun,
			NextRun:  t.NextRun,
			RunCount: t.RunCount,
		}
		if t.LastError != nil {
			errMsg := t.LastError.Error()
			info.LastError = &errMsg
		}
		result = append(result, info)
	}
	return result
}

// TaskInfo 작업 정보 (JSON 응답용)
type TaskInfo struct {
	Name      string    `json:"name"`
	Interval  string    `json:"interval"`
	LastRun   time.Time `json:"last_run"`
	NextRun   time.Time `json:"next_run"`
	RunCount  int64     `json:"run_count"`
	LastError *string   `json:"last_error,omitempty"`
}
