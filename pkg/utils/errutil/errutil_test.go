package errutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/boardsight/pkg/utils/errutil"
)

func TestHandle(t *testing.T) {
	gt.NoError(t, errutil.Handle(context.Background(), nil, "nothing"))

	err := goerr.New("boom", goerr.V("project_id", 1))
	gt.Value(t, errutil.Handle(context.Background(), err, "failed")).Equal(err)
}

func TestHandleHTTP(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantMsg string
	}{
		{name: "client error keeps message", status: http.StatusNotFound, wantMsg: "project not found"},
		{name: "server error hides message", status: http.StatusInternalServerError, wantMsg: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			errutil.HandleHTTP(context.Background(), rec, goerr.New("project not found"), tt.status)

			gt.Number(t, rec.Code).Equal(tt.status)
			var body map[string]string
			gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
			gt.String(t, body["error"]).Equal(tt.wantMsg)
		})
	}
}
