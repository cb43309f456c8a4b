package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/vidshare/adapters/event"
	"github.com/khoahotran/vidshare/adapters/persistence"
	"github.com/khoahotran/vidshare/internal/application/service"
	authUC "github.com/khoahotran/vidshare/internal/application/usecase/auth"
	videoUC "github.com/khoahotran/vidshare/internal/application/usecase/video"
	"github.com/khoahotran/vidshare/pkg/auth"
	"github.com/khoahotran/vidshare/pkg/logger"
)

const testMediaEndpoint = "https://media.example.com"

// fakeObjectStore keeps uploaded objects in memory.
type fakeObjectStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failPut    error
	failDelete error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if s.failPut != nil {
		return s.failPut
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, key string) error {
	if s.failDelete != nil {
		return s.failDelete
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return errors.New("object not found")
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type testApp struct {
	router *gin.Engine
	store  *fakeObjectStore
	jwtSvc *auth.JWTService
}

func newTestApp(rps float64, burst int) *testApp {
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()

	videoRepo := persistence.NewMemoryVideoRepo()
	userRepo := persistence.NewMemoryUserRepo()
	cache := persistence.NewNopFeedCache()
	events := event.NewLogPublisher(log)
	store := newFakeObjectStore()
	var media service.MediaStore = service.NewMediaGateway(store, testMediaEndpoint)
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)

	videoHandler := NewVideoHandler(VideoUseCases{
		Create: videoUC.NewCreateVideoUseCase(videoRepo, media, cache, events, log, 1<<20),
		Delete: videoUC.NewDeleteVideoUseCase(videoRepo, media, cache, events, log),
		List:   videoUC.NewListVideosUseCase(videoRepo, cache, log),
		Get:    videoUC.NewGetVideoUseCase(videoRepo),
		View:   videoUC.NewRecordViewUseCase(videoRepo, events, log),
		Like:   videoUC.NewLikeVideoUseCase(videoRepo, events, log),
		RSS:    videoUC.NewRSSUseCase(videoRepo, media, "http://localhost:8080", log),
	}, media, 1<<20, log)
	authHandler := NewAuthHandler(
		authUC.NewLoginUseCase(userRepo, jwtSvc, log),
		authUC.NewRegisterUseCase(userRepo, jwtSvc, log),
		log,
	)

	router := NewRouter(RouterDeps{
		VideoHandler:   videoHandler,
		AuthHandler:    authHandler,
		JWTService:     jwtSvc,
		Logger:         log,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	})
	return &testApp{router: router, store: store, jwtSvc: jwtSvc}
}

func (a *testApp) token(ownerID string) string {
	t, err := a.jwtSvc.GenerateToken(ownerID)
	if err != nil {
		panic(err)
	}
	return t
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

type uploadForm struct {
	title       string
	description string
	fileName    string
	contentType string
	content     []byte
}

func demoUpload() uploadForm {
	return uploadForm{
		title:       "Demo",
		description: "Demo video",
		fileName:    "clip.mp4",
		contentType: "video/mp4",
		content:     bytes.Repeat([]byte{0x42}, 2048),
	}
}

func newUploadRequest(f uploadForm, token string) *http.Request {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if f.title != "" {
		_ = w.WriteField("title", f.title)
	}
	if f.description != "" {
		_ = w.WriteField("description", f.description)
	}
	if f.fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, f.fileName))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, _ := w.CreatePart(h)
		_, _ = part.Write(f.content)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/video", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func newDeleteRequest(id, token string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/api/video/"+id, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
