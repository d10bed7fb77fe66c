package risk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikere/bptracker-api/internal/model"
	apperrors "github.com/chikere/bptracker-api/pkg/errors"
)

type fakeRiskService struct {
	immediateLevel model.RiskLevel
	immediateErr   error
	aiLevel        model.RiskLevel
	aiErr          error
	aiCalls        int
}

func (f *fakeRiskService) AssessImmediate(_ context.Context, _ uuid.UUID) (model.RiskLevel, error) {
	return f.immediateLevel, f.immediateErr
}

func (f *fakeRiskService) AssessWithAI(_ context.Context, _ uuid.UUID) (model.RiskLevel, error) {
	f.aiCalls++
	return f.aiLevel, f.aiErr
}

type fakeReadingService struct {
	hasMinimum bool
	err        error
}

func (f *fakeReadingService) CreateReading(_ context.Context, _ *model.CreateReadingRequest) (*model.Reading, error) {
	return nil, nil
}
func (f *fakeReadingService) GetReading(_ context.Context, _ uuid.UUID) (*model.Reading, error) {
	return nil, nil
}
func (f *fakeReadingService) DeleteReading(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeReadingService) ListForPatient(_ context.Context, _ uuid.UUID) ([]*model.Reading, error) {
	return nil, nil
}
func (f *fakeReadingService) LatestForPatient(_ context.Context, _ uuid.UUID) (*model.Reading, error) {
	return nil, nil
}
func (f *fakeReadingService) RecentForPatient(_ context.Context, _ uuid.UUID, _ int) ([]*model.Reading, error) {
	return nil, nil
}
func (f *fakeReadingService) HasMinimumReadings(_ context.Context, _ uuid.UUID) (bool, error) {
	return f.hasMinimum, f.err
}
func (f *fakeReadingService) ExportCSV(_ context.Context, _ uuid.UUID) (string, error) {
	return "", nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func riskLevelFrom(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	return data["risk_level"].(string)
}

func TestAssessImmediate(t *testing.T) {
	svc := &fakeRiskService{immediateLevel: model.RiskMildHypertensive}
	outbox := &fakeOutboxRepo{}
	r := setupRouter(NewHandler(svc, &fakeReadingService{}, outbox))

	w, body := doRequest(t, r, "/api/v1/patients/"+uuid.NewString()+"/risk/immediate")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MILD_HYPERTENSIVE", riskLevelFrom(t, body))

	// Each assessment emits an outbox event for downstream consumers.
	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventRiskAssessed, outbox.events[0].EventType)
}

func TestAssessImmediateInvalidID(t *testing.T) {
	r := setupRouter(NewHandler(&fakeRiskService{}, &fakeReadingService{}, &fakeOutboxRepo{}))

	w, _ := doRequest(t, r, "/api/v1/patients/not-a-uuid/risk/immediate")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessImmediateUnknownPatient(t *testing.T) {
	svc := &fakeRiskService{immediateErr: apperrors.NotFound("patient", nil)}
	r := setupRouter(NewHandler(svc, &fakeReadingService{}, &fakeOutboxRepo{}))

	w, body := doRequest(t, r, "/api/v1/patients/"+uuid.NewString()+"/risk/immediate")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestAssessWithAI(t *testing.T) {
	svc := &fakeRiskService{aiLevel: model.RiskSevereHypertensive}
	outbox := &fakeOutboxRepo{}
	r := setupRouter(NewHandler(svc, &fakeReadingService{hasMinimum: true}, outbox))

	w, body := doRequest(t, r, "/api/v1/patients/"+uuid.NewString()+"/risk/ai")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SEVERE_HYPERTENSIVE", riskLevelFrom(t, body))
	assert.Equal(t, 1, svc.aiCalls)
	require.Len(t, outbox.events, 1)
}

func TestAssessWithAIInsufficientHistory(t *testing.T) {
	svc := &fakeRiskService{aiLevel: model.RiskNormal}
	outbox := &fakeOutboxRepo{}
	r := setupRouter(NewHandler(svc, &fakeReadingService{hasMinimum: false}, outbox))

	w, body := doRequest(t, r, "/api/v1/patients/"+uuid.NewString()+"/risk/ai")

	// Short-circuits to UNKNOWN without calling the classifier.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UNKNOWN", riskLevelFrom(t, body))
	assert.Zero(t, svc.aiCalls)
	assert.Empty(t, outbox.events)
}

func TestAssessWithAIUnknownPatient(t *testing.T) {
	readings := &fakeReadingService{err: apperrors.NotFound("patient", nil)}
	r := setupRouter(NewHandler(&fakeRiskService{}, readings, &fakeOutboxRepo{}))

	w, _ := doRequest(t, r, "/api/v1/patients/"+uuid.NewString()+"/risk/ai")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
