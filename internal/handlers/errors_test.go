package handlers

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		userMsg    string
		err        error
		wantStatus int
	}{
		{
			name:       "bad request with error",
			status:     400,
			userMsg:    "Invalid form data",
			err:        errors.New("parse failed"),
			wantStatus: 400,
		},
		{
			name:       "internal error without underlying error",
			status:     500,
			userMsg:    "Internal server error",
			err:        nil,
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithError(rec, tt.status, tt.userMsg, "", tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.userMsg) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.userMsg)
			}
		})
	}
}
