package pipeline

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smartkop/apperr"

	"github.com/julienschmidt/httprouter"
)

func call(t *testing.T, re *Renderer, h Handler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	re.Wrap(h)(rec, req, nil)

	body := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestWrapPassesThroughSuccess(t *testing.T) {
	re := &Renderer{}
	rec, _ := call(t, re, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
		w.WriteHeader(http.StatusCreated)
		return nil
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWrapRendersTaxonomyStatus(t *testing.T) {
	re := &Renderer{}
	rec, body := call(t, re, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
		return apperr.New(apperr.NotFound, "Product not found")
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["success"] != false {
		t.Fatalf("body = %v", body)
	}
}

func TestGuardedModeHidesInternals(t *testing.T) {
	re := &Renderer{Verbose: false}
	rec, body := call(t, re, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
		return errors.New("pq: connection reset by peer")
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["message"] != "Internal server error" {
		t.Fatalf("internal detail leaked: %v", body)
	}
	if _, ok := body["stack"]; ok {
		t.Fatal("stack leaked in guarded mode")
	}
	if _, ok := body["errMessage"]; ok {
		t.Fatal("raw error leaked in guarded mode")
	}
}

func TestVerboseModeExposesKindAndStack(t *testing.T) {
	re := &Renderer{Verbose: true}
	_, body := call(t, re, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
		return apperr.New(apperr.Validation, "Please enter a price")
	})
	if body["error"] != "ValidationError" {
		t.Fatalf("body = %v", body)
	}
	if body["stack"] == nil || body["stack"] == "" {
		t.Fatal("verbose mode should include a stack")
	}
	if body["errMessage"] == nil {
		t.Fatal("verbose mode should include the raw error")
	}
}

// failInventoryLookup exists so its name is visible in the rendered trace.
func failInventoryLookup() error {
	return apperr.New(apperr.NotFound, "Product not found")
}

func TestVerboseStackPointsAtErrorOrigin(t *testing.T) {
	re := &Renderer{Verbose: true}
	_, body := call(t, re, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
		return failInventoryLookup()
	})

	stack, _ := body["stack"].(string)
	if !strings.Contains(stack, "failInventoryLookup") {
		t.Fatalf("trace does not include the originating frame:\n%s", stack)
	}
}

func TestGuardedModeKeepsTaxonomyMessages(t *testing.T) {
	re := &Renderer{Verbose: false}
	_, body := call(t, re, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
		return apperr.New(apperr.Validation, "Please enter a price")
	})
	if body["message"] != "Please enter a price" {
		t.Fatalf("body = %v", body)
	}
}

func TestWrapRecoversPanics(t *testing.T) {
	re := &Renderer{}
	rec, body := call(t, re, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
		panic("nil map write")
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["success"] != false {
		t.Fatalf("body = %v", body)
	}
}
