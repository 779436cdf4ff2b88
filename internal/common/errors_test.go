package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NewAppError("X", "failed", http.StatusBadRequest, base))
	if !errors.Is(err, base) {
		t.Fatal("expected errors.Is to reach the cause")
	}
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != "X" {
		t.Fatalf("expected AppError with code X, got %v", appErr)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewAppError("INVALID_PRICE", "bad price", http.StatusUnprocessableEntity, nil).WithDetails(map[string]int{"index": 2}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]int `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INVALID_PRICE" || body.Error.Details["index"] != 2 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	WriteError(rec, errors.New("opaque"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
