package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	rscrypto "github.com/red-safe/platform/internal/crypto"
	"github.com/red-safe/platform/internal/data"
	"github.com/red-safe/platform/internal/httpapi"
	"github.com/red-safe/platform/internal/tokens"
)

// testServer wires a Server against a sqlmock-backed *Statements and a
// throwaway secret store, mirroring internal/data's own mock harness
// since httpapi_test lives outside the data package.
func testServer(t *testing.T) (*httpapi.Server, sqlmock.Sqlmock, *tokens.Manager) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.MatchExpectationsInOrder(false)
	// statements.go's query text is private to the data package; match any
	// non-empty Prepare here, once per stable name it registers.
	const statementCount = 15
	for i := 0; i < statementCount; i++ {
		mock.ExpectPrepare(".+")
	}

	stmts, err := data.Prepare(context.Background(), db)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	store, err := rscrypto.NewSecretStore(filepath.Join(t.TempDir(), "secret.txt"))
	if err != nil {
		t.Fatalf("NewSecretStore: %v", err)
	}
	mgr := tokens.NewManager(store)

	deps := httpapi.Deps{
		Users:         data.UserModel{Stmts: stmts},
		Edges:         data.EdgeModel{Stmts: stmts},
		Bindings:      data.BindingModel{Stmts: stmts},
		IOSDevices:    data.IOSDeviceModel{Stmts: stmts},
		RefreshTokens: data.RefreshTokenModel{Stmts: stmts},
		Access:        mgr,
	}
	srv := httpapi.NewServer(deps, io.Discard, io.Discard)
	return srv, mock, mgr
}

func postJSON(t *testing.T, srv http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v, body=%s", err, rec.Body.String())
	}
	return body
}

func TestEdgeSignup_MissingFields(t *testing.T) {
	srv, _, _ := testServer(t)
	rec := postJSON(t, srv, "/edge/signup", map[string]any{}, nil)
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrMissingSerialOrVersion) {
		t.Errorf("expected error_code %d, got %v", httpapi.ErrMissingSerialOrVersion, body["error_code"])
	}
}

func TestEdgeSignup_InvalidSerial(t *testing.T) {
	srv, _, _ := testServer(t)
	rec := postJSON(t, srv, "/edge/signup", map[string]any{
		"serial_number": "not-a-serial",
		"version":       "1.0.0",
	}, nil)
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrInvalidSerialNumber) {
		t.Errorf("expected ErrInvalidSerialNumber, got %v", body["error_code"])
	}
}

func TestEdgeSignup_InvalidJSON(t *testing.T) {
	srv, _, _ := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/edge/signup", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON, got %v", body["error_code"])
	}
}

func TestUserSignup_InvalidEmail(t *testing.T) {
	srv, _, _ := testServer(t)
	rec := postJSON(t, srv, "/user/signup", map[string]any{
		"email":     "not-an-email",
		"user_name": "alice",
		"password":  "Abcdef12",
	}, nil)
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", body["error_code"])
	}
}

func TestUserSignup_InvalidPassword(t *testing.T) {
	srv, _, _ := testServer(t)
	rec := postJSON(t, srv, "/user/signup", map[string]any{
		"email":     "a@b.co",
		"user_name": "alice",
		"password":  "short",
	}, nil)
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword, got %v", body["error_code"])
	}
}

func TestAuthRefresh_MissingCookie(t *testing.T) {
	srv, _, _ := testServer(t)
	rec := postJSON(t, srv, "/auth/refresh", nil, nil)
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrMissingRefreshToken) {
		t.Errorf("expected ErrMissingRefreshToken, got %v", body["error_code"])
	}
}

func TestAuthRefresh_MalformedCookieTreatedAsMissing(t *testing.T) {
	srv, _, _ := testServer(t)
	rec := postJSON(t, srv, "/auth/refresh", nil, map[string]string{"Cookie": "refresh_token=not-hex"})
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrMissingRefreshToken) {
		t.Errorf("expected ErrMissingRefreshToken, got %v", body["error_code"])
	}
}

func TestUserAll_MissingAccessToken(t *testing.T) {
	srv, _, _ := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/user/all", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrMissingAccessToken) {
		t.Errorf("expected ErrMissingAccessToken, got %v", body["error_code"])
	}
}

func TestUnknownEndpoint(t *testing.T) {
	srv, _, _ := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrUnknownEndpoint) {
		t.Errorf("expected ErrUnknownEndpoint, got %v", body["error_code"])
	}
}

// TestKnownPathWrongMethod guards against Go 1.22 ServeMux's own bare
// 405 response: a registered path hit with the wrong method must still
// answer with the same 404/ErrUnknownEndpoint envelope as an unknown path.
func TestKnownPathWrongMethod(t *testing.T) {
	srv, _, _ := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/user/signup", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["error_code"] != float64(httpapi.ErrUnknownEndpoint) {
		t.Errorf("expected ErrUnknownEndpoint, got %v", body["error_code"])
	}
}
