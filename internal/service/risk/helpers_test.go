package risk

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chikere/bptracker-api/internal/model"
	"github.com/chikere/bptracker-api/pkg/circuitbreaker"
	apperrors "github.com/chikere/bptracker-api/pkg/errors"
	"github.com/chikere/bptracker-api/pkg/logger"
	"github.com/chikere/bptracker-api/pkg/metrics"
)

// Metrics register globally, so the whole package shares one instance.
var (
	testMetricsOnce sync.Once
	testMetricsInst *metrics.Metrics
)

func testMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetricsInst = metrics.NewMetrics("risk_test")
	})
	return testMetricsInst
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Output: io.Discard,
	})
}

// newTestBreaker returns a breaker generous enough to never trip during a
// test unless the test opens it on purpose.
func newTestBreaker() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:         "test",
		MinRequests:  1000,
		FailureRatio: 0.99,
		Timeout:      time.Minute,
	})
}

// newOpenBreaker returns a breaker already in the open state.
func newOpenBreaker() *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:         "test-open",
		MinRequests:  1,
		FailureRatio: 0.1,
		Timeout:      time.Hour,
	})
	_ = cb.Do(func() error { return context.DeadlineExceeded })
	return cb
}

type fakePatientRepo struct {
	patients  map[uuid.UUID]*model.Patient
	notes     []string
	appendErr error
}

func newFakePatientRepo(patients ...*model.Patient) *fakePatientRepo {
	repo := &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
	for _, p := range patients {
		repo.patients[p.ID] = p
	}
	return repo
}

func (f *fakePatientRepo) Create(_ context.Context, patient *model.Patient) error {
	f.patients[patient.ID] = patient
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if p, ok := f.patients[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("patient", nil)
}

func (f *fakePatientRepo) Update(_ context.Context, patient *model.Patient) error {
	f.patients[patient.ID] = patient
	return nil
}

func (f *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) List(_ context.Context) ([]*model.Patient, error) {
	out := make([]*model.Patient, 0, len(f.patients))
	for _, p := range f.patients {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePatientRepo) SearchByName(_ context.Context, _ string) ([]*model.Patient, error) {
	return nil, nil
}

func (f *fakePatientRepo) AppendNotes(_ context.Context, id uuid.UUID, note string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if _, ok := f.patients[id]; !ok {
		return apperrors.NotFound("patient", nil)
	}
	f.notes = append(f.notes, note)
	return nil
}

type fakeReadingRepo struct {
	// readings are held most recent first, matching the SQL ordering.
	readings []*model.Reading
}

func (f *fakeReadingRepo) Create(_ context.Context, reading *model.Reading) error {
	f.readings = append([]*model.Reading{reading}, f.readings...)
	return nil
}

func (f *fakeReadingRepo) Get(_ context.Context, id uuid.UUID) (*model.Reading, error) {
	for _, r := range f.readings {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.NotFound("reading", nil)
}

func (f *fakeReadingRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeReadingRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Reading, error) {
	var out []*model.Reading
	for _, r := range f.readings {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReadingRepo) Latest(ctx context.Context, patientID uuid.UUID) (*model.Reading, error) {
	all, _ := f.ListByPatient(ctx, patientID)
	if len(all) == 0 {
		return nil, apperrors.NotFound("reading", nil)
	}
	return all[0], nil
}

func (f *fakeReadingRepo) Recent(ctx context.Context, patientID uuid.UUID, n int) ([]*model.Reading, error) {
	all, _ := f.ListByPatient(ctx, patientID)
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (f *fakeReadingRepo) Count(ctx context.Context, patientID uuid.UUID) (int, error) {
	all, _ := f.ListByPatient(ctx, patientID)
	return len(all), nil
}

type stubCompleter struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testPatient() *model.Patient {
	return &model.Patient{
		ID:       uuid.New(),
		FullName: "Ada Okafor",
		Gender:   model.GenderFemale,
	}
}

func readingAt(patientID uuid.UUID, systolic, diastolic int, ts time.Time) *model.Reading {
	return &model.Reading{
		ID:           uuid.New(),
		PatientID:    patientID,
		Timestamp:    ts,
		Systolic:     systolic,
		Diastolic:    diastolic,
		HeartRate:    72,
		BodyPosition: model.PositionSitting,
		Arm:          model.ArmLeft,
	}
}
