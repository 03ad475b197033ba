package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"reclamation-portal/internal/middleware"
	"reclamation-portal/internal/models"
	"reclamation-portal/internal/service"
	"reclamation-portal/internal/upload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// mockReclamationService implements service.ReclamationService with
// overridable behavior per test.
type mockReclamationService struct {
	createFunc       func(ctx context.Context, ownerID, title, description string, fileURL *string) (*models.Reclamation, error)
	listMineFunc     func(ctx context.Context, ownerID string) ([]models.Reclamation, error)
	listAllFunc      func(ctx context.Context) ([]models.ReclamationWithUser, error)
	updateStatusFunc func(ctx context.Context, id string, status models.Status) (*models.Reclamation, error)
	statsFunc        func(ctx context.Context) ([]models.StatusCount, error)
}

func (m *mockReclamationService) Create(ctx context.Context, ownerID, title, description string, fileURL *string) (*models.Reclamation, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, ownerID, title, description, fileURL)
	}
	return &models.Reclamation{
		ID:          "r1",
		Title:       title,
		Description: description,
		FileURL:     fileURL,
		Status:      models.StatusPending,
		UserID:      ownerID,
	}, nil
}

func (m *mockReclamationService) ListMine(ctx context.Context, ownerID string) ([]models.Reclamation, error) {
	if m.listMineFunc != nil {
		return m.listMineFunc(ctx, ownerID)
	}
	return []models.Reclamation{}, nil
}

func (m *mockReclamationService) ListAll(ctx context.Context) ([]models.ReclamationWithUser, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return []models.ReclamationWithUser{}, nil
}

func (m *mockReclamationService) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Reclamation, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockReclamationService) Stats(ctx context.Context) ([]models.StatusCount, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func setupReclamationRouter(t *testing.T, svc service.ReclamationService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploads, err := upload.NewValidator(t.TempDir(), "/uploads", 5*1024*1024, zap.NewNop())
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}
	h := NewReclamationHandler(svc, uploads, zap.NewNop())

	router := gin.New()
	identity := func(c *gin.Context) {
		middleware.SetCurrentUser(c, &models.User{ID: "u1", Role: models.RoleWorker})
	}
	router.POST("/reclamations", identity, h.Create)
	router.GET("/reclamations/me", identity, h.GetMine)
	router.PATCH("/admin/reclamations/:id/status", identity, h.UpdateStatus)
	router.GET("/admin/reclamations/stats", identity, h.GetStats)

	return router
}

type formFile struct {
	filename    string
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, fields map[string]string, file *formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("WriteField() error = %v", err)
		}
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+file.filename+`"`)
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("CreatePart() error = %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/reclamations", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestCreateReclamation_TitleAndDescriptionBounds(t *testing.T) {
	router := setupReclamationRouter(t, &mockReclamationService{})
	validDescription := strings.Repeat("d", 25)
	validTitle := "Broken helmet"

	tests := []struct {
		name        string
		title       string
		description string
		wantStatus  int
	}{
		{name: "title of 4 rejected", title: strings.Repeat("t", 4), description: validDescription, wantStatus: http.StatusBadRequest},
		{name: "title of 5 accepted", title: strings.Repeat("t", 5), description: validDescription, wantStatus: http.StatusCreated},
		{name: "title of 100 accepted", title: strings.Repeat("t", 100), description: validDescription, wantStatus: http.StatusCreated},
		{name: "title of 101 rejected", title: strings.Repeat("t", 101), description: validDescription, wantStatus: http.StatusBadRequest},
		{name: "description of 19 rejected", title: validTitle, description: strings.Repeat("d", 19), wantStatus: http.StatusBadRequest},
		{name: "description of 20 accepted", title: validTitle, description: strings.Repeat("d", 20), wantStatus: http.StatusCreated},
		{name: "description of 1000 accepted", title: validTitle, description: strings.Repeat("d", 1000), wantStatus: http.StatusCreated},
		{name: "description of 1001 rejected", title: validTitle, description: strings.Repeat("d", 1001), wantStatus: http.StatusBadRequest},
		{name: "missing title rejected", title: "", description: validDescription, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, map[string]string{"title": tt.title, "description": tt.description}, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestCreateReclamation_WithAttachment(t *testing.T) {
	var gotFileURL *string
	svc := &mockReclamationService{
		createFunc: func(ctx context.Context, ownerID, title, description string, fileURL *string) (*models.Reclamation, error) {
			gotFileURL = fileURL
			return &models.Reclamation{ID: "r1", FileURL: fileURL, Status: models.StatusPending, UserID: ownerID}, nil
		},
	}
	router := setupReclamationRouter(t, svc)

	req := multipartRequest(t,
		map[string]string{"title": "Broken helmet", "description": strings.Repeat("d", 25)},
		&formFile{filename: "photo.png", contentType: "image/png", content: []byte("png bytes")})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if gotFileURL == nil {
		t.Fatal("service did not receive a file URL")
	}
	if !strings.HasPrefix(*gotFileURL, "/uploads/") || !strings.HasSuffix(*gotFileURL, ".png") {
		t.Errorf("file URL = %q, want /uploads/<hex>.png", *gotFileURL)
	}
}

func TestCreateReclamation_AttachmentRejections(t *testing.T) {
	created := false
	svc := &mockReclamationService{
		createFunc: func(ctx context.Context, ownerID, title, description string, fileURL *string) (*models.Reclamation, error) {
			created = true
			return &models.Reclamation{}, nil
		},
	}
	router := setupReclamationRouter(t, svc)
	fields := map[string]string{"title": "Broken helmet", "description": strings.Repeat("d", 25)}

	t.Run("unsupported type", func(t *testing.T) {
		req := multipartRequest(t, fields, &formFile{filename: "a.zip", contentType: "application/zip", content: []byte("zip")})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("oversize file", func(t *testing.T) {
		req := multipartRequest(t, fields, &formFile{filename: "big.pdf", contentType: "application/pdf", content: bytes.Repeat([]byte("x"), 6*1024*1024)})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
		}
	})

	if created {
		t.Error("a reclamation was created despite a rejected attachment")
	}
}

func TestUpdateStatus_Mapping(t *testing.T) {
	svc := &mockReclamationService{
		updateStatusFunc: func(ctx context.Context, id string, status models.Status) (*models.Reclamation, error) {
			switch {
			case !status.IsValid():
				return nil, service.ErrInvalidStatus
			case id != "r1":
				return nil, service.ErrReclamationNotFound
			default:
				return &models.Reclamation{ID: id, Status: status}, nil
			}
		},
	}
	router := setupReclamationRouter(t, svc)

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{name: "resolve existing", id: "r1", body: `{"status":"RESOLVED"}`, wantStatus: http.StatusOK},
		{name: "reject existing", id: "r1", body: `{"status":"REJECTED"}`, wantStatus: http.StatusOK},
		{name: "unknown id", id: "missing", body: `{"status":"RESOLVED"}`, wantStatus: http.StatusNotFound},
		{name: "invalid status", id: "r1", body: `{"status":"DONE"}`, wantStatus: http.StatusBadRequest},
		{name: "missing status", id: "r1", body: `{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/admin/reclamations/"+tt.id+"/status", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	svc := &mockReclamationService{
		statsFunc: func(ctx context.Context) ([]models.StatusCount, error) {
			return []models.StatusCount{
				{Status: models.StatusPending, Count: 0},
				{Status: models.StatusResolved, Count: 1},
				{Status: models.StatusRejected, Count: 0},
			}, nil
		},
	}
	router := setupReclamationRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/admin/reclamations/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var stats []models.StatusCount
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(stats) != 3 {
		t.Errorf("stats has %d entries, want 3", len(stats))
	}
}
