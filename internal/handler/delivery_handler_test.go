package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/reindeer-letter/letter-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockDeliveryService struct {
	mock.Mock
}

func (m *mockDeliveryService) ProcessDue(ctx context.Context) (*service.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SweepResult), args.Error(1)
}

func newSweepRouter(svc service.DeliveryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/letters/process-scheduled", NewDeliveryHandler(svc).ProcessScheduled)
	return router
}

func TestProcessScheduledReturnsSweepSummary(t *testing.T) {
	svc := new(mockDeliveryService)
	svc.On("ProcessDue", mock.Anything).Return(&service.SweepResult{
		ProcessedCount: 2,
		Letters:        []*domain.LetterResponse{},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/letters/process-scheduled", nil)
	newSweepRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"processed_count":2`)
	svc.AssertCalled(t, "ProcessDue", mock.Anything)
}

func TestProcessScheduledReportsFailure(t *testing.T) {
	svc := new(mockDeliveryService)
	svc.On("ProcessDue", mock.Anything).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/letters/process-scheduled", nil)
	newSweepRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
