package create_reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-ParkingService/internal/usecase/create_reservation"
	getFreeSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/get_free_slots"
)

type fakeCreateUseCase struct {
	resp *createReservation.Response
	err  error
}

func (f *fakeCreateUseCase) Execute(_ context.Context, _ *createReservation.Request) (*createReservation.Response, error) {
	return f.resp, f.err
}

type fakeFreeSlotsUseCase struct {
	resp *getFreeSlots.Response
	err  error
}

func (f *fakeFreeSlotsUseCase) Execute(_ context.Context, _ *getFreeSlots.Request) (*getFreeSlots.Response, error) {
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const reqBody = `{"zoneId":1,"slotNumber":1,"startTime":"2025-11-10T10:00:00Z","durationMinutes":60}`

func authedRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	return req.WithContext(authContext())
}

// authContext прогоняет запрос через настоящий Auth middleware,
// чтобы ключ контекста совпадал с боевым
func authContext() context.Context {
	var out context.Context
	h := middleware.Auth(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		out = r.Context()
	}))
	inner := httptest.NewRequest(http.MethodGet, "/", nil)
	inner.Header.Set(middleware.HeaderUserID, "42")
	h.ServeHTTP(httptest.NewRecorder(), inner)
	return out
}

func TestHandleConflictIncludesRecomputedAvailability(t *testing.T) {
	h := NewHandler(
		&fakeCreateUseCase{err: createReservation.ErrSlotTaken},
		&fakeFreeSlotsUseCase{resp: &getFreeSlots.Response{FreeSlots: []int{2, 3}}},
		nopLogger{},
	)

	rec := httptest.NewRecorder()
	h.Handle(rec, authedRequest(reqBody))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, []int{2, 3}, resp.FreeSlots)
}

func TestHandleConflictWithoutHintWhenRecomputeFails(t *testing.T) {
	h := NewHandler(
		&fakeCreateUseCase{err: createReservation.ErrSlotTaken},
		&fakeFreeSlotsUseCase{err: getFreeSlots.ErrAvailabilityUnknown},
		nopLogger{},
	)

	rec := httptest.NewRecorder()
	h.Handle(rec, authedRequest(reqBody))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.FreeSlots)
}

func TestHandleStoreUnavailableMapsTo503(t *testing.T) {
	h := NewHandler(
		&fakeCreateUseCase{err: createReservation.ErrStoreUnavailable},
		&fakeFreeSlotsUseCase{},
		nopLogger{},
	)

	rec := httptest.NewRecorder()
	h.Handle(rec, authedRequest(reqBody))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleRejectsUnauthenticated(t *testing.T) {
	h := NewHandler(&fakeCreateUseCase{}, &fakeFreeSlotsUseCase{}, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(reqBody))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleRejectsMalformedBody(t *testing.T) {
	h := NewHandler(&fakeCreateUseCase{}, &fakeFreeSlotsUseCase{}, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, authedRequest(`{"zoneId":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
