package leave

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/shared/apperror"
)

type fakeService struct {
	approverCandidatesFn func(ctx context.Context, companyID, userID string) ([]ApproverCandidate, error)
	applyFn              func(ctx context.Context, companyID, userID string, req ApplyRequest) (LeaveResponse, error)
	actionFn             func(ctx context.Context, companyID, actorID, leaveID, action string) (LeaveResponse, error)
}

func (f *fakeService) ApproverCandidates(ctx context.Context, companyID, userID string) ([]ApproverCandidate, error) {
	return f.approverCandidatesFn(ctx, companyID, userID)
}
func (f *fakeService) Apply(ctx context.Context, companyID, userID string, req ApplyRequest) (LeaveResponse, error) {
	return f.applyFn(ctx, companyID, userID, req)
}
func (f *fakeService) Action(ctx context.Context, companyID, actorID, leaveID, action string) (LeaveResponse, error) {
	return f.actionFn(ctx, companyID, actorID, leaveID, action)
}
func (f *fakeService) MyLeaves(ctx context.Context, companyID, userID string) ([]LeaveResponse, error) {
	return nil, nil
}
func (f *fakeService) PendingApprovals(ctx context.Context, companyID, approverID string) ([]LeaveResponse, error) {
	return nil, nil
}

func testRouter(claims map[string]string) (*gin.Engine, func(h gin.HandlerFunc, method, path string)) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		for k, v := range claims {
			c.Set(k, v)
		}
		c.Next()
	})
	return r, func(h gin.HandlerFunc, method, path string) { r.Handle(method, path, h) }
}

func TestHandler_Apply(t *testing.T) {
	apperror.Init()
	companyID := uuid.New().String()
	userID := uuid.New().String()
	approverID := uuid.New().String()

	svc := &fakeService{}
	svc.applyFn = func(ctx context.Context, cid, uid string, req ApplyRequest) (LeaveResponse, error) {
		assert.Equal(t, companyID, cid)
		assert.Equal(t, userID, uid)
		assert.Equal(t, TypeCasual, req.LeaveType)
		return LeaveResponse{ID: uuid.New().String(), Status: StatusPending, Days: 2}, nil
	}
	handler := NewHandler(svc)

	r, mount := testRouter(map[string]string{"company_id": companyID, "user_id": userID})
	mount(handler.Apply, http.MethodPost, "/leaves")

	body, _ := json.Marshal(ApplyRequest{
		LeaveType:   TypeCasual,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-02",
		Reason:      "family event",
		ApproverIDs: []string{approverID},
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/leaves", bytes.NewBuffer(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var res map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, true, res["ok"])
}

func TestHandler_Apply_ValidationError(t *testing.T) {
	apperror.Init()
	svc := &fakeService{}
	svc.applyFn = func(ctx context.Context, cid, uid string, req ApplyRequest) (LeaveResponse, error) {
		t.Fatal("service reached with invalid payload")
		return LeaveResponse{}, nil
	}
	handler := NewHandler(svc)

	r, mount := testRouter(map[string]string{})
	mount(handler.Apply, http.MethodPost, "/leaves")

	// Missing approver_ids and a bad leave type.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/leaves", bytes.NewBufferString(`{"leave_type":"Vacation"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Action_InsufficientBalance(t *testing.T) {
	apperror.Init()
	leaveID := uuid.New().String()

	svc := &fakeService{}
	svc.actionFn = func(ctx context.Context, cid, aid, lid, action string) (LeaveResponse, error) {
		assert.Equal(t, leaveID, lid)
		assert.Equal(t, "approve", action)
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}
	handler := NewHandler(svc)

	r, mount := testRouter(map[string]string{"company_id": uuid.New().String(), "user_id": uuid.New().String()})
	mount(handler.Action, http.MethodPost, "/leaves/:id/action")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/action", bytes.NewBufferString(`{"action":"approve"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var res map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, false, res["ok"])
}

func TestHandler_Candidates(t *testing.T) {
	apperror.Init()
	svc := &fakeService{}
	svc.approverCandidatesFn = func(ctx context.Context, cid, uid string) ([]ApproverCandidate, error) {
		return []ApproverCandidate{{ID: uuid.New().String(), Username: "sam", IsDefault: true}}, nil
	}
	handler := NewHandler(svc)

	r, mount := testRouter(map[string]string{"company_id": uuid.New().String(), "user_id": uuid.New().String()})
	mount(handler.Candidates, http.MethodGet, "/leaves/candidates")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/leaves/candidates", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
