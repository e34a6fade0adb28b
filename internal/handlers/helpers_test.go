package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/repositories"
	"jobfit/resume-ranker/internal/services"
)

type upload struct {
	name    string
	content string
}

// newMultipartRequest builds a form with an optional job description and one
// "resumes" part per upload.
func newMultipartRequest(t *testing.T, target, jobDescription string, uploads ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if jobDescription != "" {
		if err := w.WriteField("job_description", jobDescription); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for _, u := range uploads {
		part, err := w.CreateFormFile("resumes", u.name)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write([]byte(u.content)); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close form: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func newTestRankingService() services.RankingService {
	return services.NewRankingService(services.NewTextExtractor(zap.NewNop()), zap.NewNop())
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*models.RankingRun
	err  error
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[uuid.UUID]*models.RankingRun)}
}

func (r *fakeRunRepo) Create(run *models.RankingRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	copied := *run
	r.runs[run.ID] = &copied
	return nil
}

func (r *fakeRunRepo) FindByID(id uuid.UUID) (*models.RankingRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, repositories.ErrRunNotFound
	}
	copied := *run
	return &copied, nil
}

func (r *fakeRunRepo) ClaimQueued(id uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeRunRepo) SaveResults(id uuid.UUID, results []models.RankingResult) error {
	return nil
}

func (r *fakeRunRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	return nil
}

func (r *fakeRunRepo) FindPendingRuns(limit int) ([]models.RankingRun, error) {
	return nil, nil
}

func (r *fakeRunRepo) RequeueStale(before time.Time) (int64, error) {
	return 0, nil
}

type fakeDocRepo struct {
	docs []models.Document
}

func (d *fakeDocRepo) Create(document *models.Document) error {
	d.docs = append(d.docs, *document)
	return nil
}

func (d *fakeDocRepo) FindByRunID(runID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	for _, doc := range d.docs {
		if doc.RunID == runID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

type fakeWorker struct {
	enqueued []uuid.UUID
}

func (w *fakeWorker) Start(ctx context.Context) {}

func (w *fakeWorker) Stop() {}

func (w *fakeWorker) EnqueueRun(runID uuid.UUID) {
	w.enqueued = append(w.enqueued, runID)
}

func strPtr(s string) *string {
	return &s
}
