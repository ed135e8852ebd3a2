package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kalevra/GiftRally_Go/internal/domain"
)

type fakeGoalService struct {
	goals      []domain.CommunityGoal
	listErr    error
	extendErr  error
	extended   map[string]int
}

func (f *fakeGoalService) Contribute(ctx context.Context, hostID string, goalType domain.GoalType, amount int64, contributorID string) error {
	return nil
}

func (f *fakeGoalService) ContributeBatch(ctx context.Context, hostID string, goalType domain.GoalType, total int64, contributions map[string]int64) error {
	return nil
}

func (f *fakeGoalService) ExtendCooldown(ctx context.Context, hostID string, minutes int) error {
	if f.extended == nil {
		f.extended = make(map[string]int)
	}
	f.extended[hostID] = minutes
	return f.extendErr
}

func (f *fakeGoalService) ListByHost(ctx context.Context, hostID string) ([]domain.CommunityGoal, error) {
	return f.goals, f.listErr
}

func (f *fakeGoalService) Forget(hostID string) {}

func TestHandleListGoals(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &fakeGoalService{
			goals: []domain.CommunityGoal{
				{HostID: "host1", Type: domain.GoalLikes, Progress: 4200, Target: 10000},
			},
		}
		h := NewGoalHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/goals?host_id=host1", nil)
		rec := httptest.NewRecorder()

		h.HandleList(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "4200")
	})

	t.Run("Missing host_id", func(t *testing.T) {
		h := NewGoalHandler(&fakeGoalService{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
		rec := httptest.NewRecorder()

		h.HandleList(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "host_id")
	})

	t.Run("Service error", func(t *testing.T) {
		h := NewGoalHandler(&fakeGoalService{listErr: errors.New("db down")})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/goals?host_id=host1", nil)
		rec := httptest.NewRecorder()

		h.HandleList(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgGenericServerError)
	})
}

func TestHandleExtendCooldown(t *testing.T) {
	InitValidator()

	t.Run("Success", func(t *testing.T) {
		svc := &fakeGoalService{}
		h := NewGoalHandler(svc)

		body, _ := json.Marshal(ExtendCooldownRequest{HostID: "host1", Minutes: 30})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/cooldown", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		h.HandleExtendCooldown(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 30, svc.extended["host1"])
	})

	t.Run("Minutes out of range", func(t *testing.T) {
		h := NewGoalHandler(&fakeGoalService{})

		body, _ := json.Marshal(ExtendCooldownRequest{HostID: "host1", Minutes: 0})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/cooldown", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		h.HandleExtendCooldown(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
