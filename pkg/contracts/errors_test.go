package contracts_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shortify/shortify/gateway/pkg/contracts"
)

func TestAPIError_Constructors(t *testing.T) {
	tests := []struct {
		err        *contracts.APIError
		wantStatus int
	}{
		{contracts.Unauthenticated("x"), 401},
		{contracts.Forbidden("x"), 403},
		{contracts.NotFound("x"), 404},
		{contracts.BackendError(502, "x"), 502},
		{contracts.Unavailable("x"), 500},
	}
	for _, tt := range tests {
		if tt.err.Status != tt.wantStatus {
			t.Errorf("Status = %d, want %d", tt.err.Status, tt.wantStatus)
		}
	}
}

func TestAPIError_WireShape(t *testing.T) {
	buf, err := json.Marshal(contracts.Forbidden("Admin access required"))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"statusCode":403,"message":"Admin access required"}`
	if string(buf) != want {
		t.Errorf("marshaled = %s, want %s", buf, want)
	}
}

func TestAsAPIError(t *testing.T) {
	apiErr := contracts.Forbidden("nope")
	if got := contracts.AsAPIError(apiErr); got != apiErr {
		t.Error("AsAPIError should return the APIError itself")
	}

	wrapped := fmt.Errorf("outer: %w", apiErr)
	if got := contracts.AsAPIError(wrapped); got != apiErr {
		t.Error("AsAPIError should unwrap to the APIError")
	}

	// Unknown errors collapse to an opaque 500 — no internals leak.
	got := contracts.AsAPIError(errors.New("pq: connection reset"))
	if got.Status != 500 || got.Message != "Internal server error" {
		t.Errorf("AsAPIError(unknown) = %+v", got)
	}
}
