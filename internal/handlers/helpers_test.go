package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"webucket/internal/config"
	"webucket/internal/handlers"
	"webucket/internal/repo"
	"webucket/internal/service"
)

var dbSeq atomic.Int64

// newTestRouter wires the full stack over an in-memory SQLite so handler tests
// exercise the real routing, auth and status-code contract.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", dbSeq.Add(1))
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		AuthSecret:      "test-secret",
		TokenTTLMinutes: 5,
		CORSOrigins:     "http://localhost:5173",
		ItemImageMax:    2,
		ImageMaxSizeMB:  1,
	}
	logger := zap.NewNop().Sugar()

	userRepo := repo.NewUserRepository(db)
	bucketRepo := repo.NewBucketRepository(db)
	memberRepo := repo.NewMembershipRepository(db)
	itemRepo := repo.NewItemRepository(db)
	imageRepo := repo.NewImageRepository(db)

	userSvc := service.NewUserService(userRepo)
	bucketSvc := service.NewBucketService(bucketRepo, memberRepo, itemRepo, userRepo)
	itemSvc := service.NewItemService(itemRepo, bucketRepo, memberRepo)
	imageSvc := service.NewImageService(imageRepo, bucketRepo, itemRepo, memberRepo, cfg.ItemImageMax)

	h := handlers.NewHandler(userSvc, bucketSvc, itemSvc, imageSvc, logger, cfg)
	return h.Router
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

// registerAndLogin creates the user over HTTP and returns a bearer token.
func registerAndLogin(t *testing.T, router http.Handler, username string) string {
	t.Helper()
	body := fmt.Sprintf(`{"firstname":"F","lastname":"L","username":%q,"email":"%s@example.com","password":"password123"}`, username, username)
	rr := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("register %s: status %d body %s", username, rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", fmt.Sprintf(`{"username":%q,"password":"password123"}`, username))
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rr.Code, rr.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, rr, &tok)
	if tok.AccessToken == "" {
		t.Fatalf("login %s: empty access_token", username)
	}
	return tok.AccessToken
}

func createBucket(t *testing.T, router http.Handler, token, title string) string {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/v1/buckets", token, fmt.Sprintf(`{"title":%q,"description":"d"}`, title))
	if rr.Code != http.StatusOK {
		t.Fatalf("create bucket: status %d body %s", rr.Code, rr.Body.String())
	}
	var buckets []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	decodeBody(t, rr, &buckets)
	for _, b := range buckets {
		if b.Title == title {
			return b.ID
		}
	}
	t.Fatalf("created bucket %q missing from list", title)
	return ""
}

func createItem(t *testing.T, router http.Handler, token, bucketID, title, itemType string) string {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"item_type":%q}`, title, itemType)
	rr := doJSON(t, router, http.MethodPost, "/api/v1/buckets/"+bucketID+"/items", token, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("create item: status %d body %s", rr.Code, rr.Body.String())
	}
	var item struct {
		ID string `json:"id"`
	}
	decodeBody(t, rr, &item)
	return item.ID
}

// pngBytes renders a real 1x1 PNG so the upload sniffer sees image/png.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func uploadImage(t *testing.T, router http.Handler, method, path, token string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "upload.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
