package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/repositories"
)

// buildPDF writes a minimal PDF with one page per entry. An empty entry
// produces a page with an empty content stream.
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	total := 3 + 2*len(pages)
	offsets := make([]int, total)

	writeObj := func(num int, body string) {
		offsets[num-1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		writeObj(4+2*i, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i,
		))

		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		writeObj(5+2*i, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", total+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xref)

	return buf.Bytes()
}

// buildDocx writes a minimal .docx archive with one paragraph per entry.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}

	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	return buf.Bytes()
}

func textFile(name, text string) models.ResumeFile {
	return models.ResumeFile{Name: name, MimeType: MimeText, Data: []byte(text)}
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*models.RankingRun
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[uuid.UUID]*models.RankingRun)}
}

func (r *fakeRunRepo) Create(run *models.RankingRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok || run.Status != models.StatusQueued {
		return false, nil
	}
	run.Status = models.StatusProcessing
	run.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeRunRepo) SaveResults(id uuid.UUID, results []models.RankingResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return repositories.ErrRunNotFound
	}
	for i := range results {
		results[i].RunID = id
	}
	run.Results = append(run.Results, results...)
	run.Status = models.StatusCompleted
	return nil
}

func (r *fakeRunRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return repositories.ErrRunNotFound
	}
	run.Status = models.StatusFailed
	run.ErrorMessage = &errorMsg
	return nil
}

func (r *fakeRunRepo) FindPendingRuns(limit int) ([]models.RankingRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []models.RankingRun
	for _, run := range r.runs {
		if run.Status == models.StatusQueued && len(pending) < limit {
			pending = append(pending, *run)
		}
	}
	return pending, nil
}

func (r *fakeRunRepo) RequeueStale(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, run := range r.runs {
		if run.Status == models.StatusProcessing && run.UpdatedAt.Before(before) {
			run.Status = models.StatusQueued
			run.UpdatedAt = time.Now()
			count++
		}
	}
	return count, nil
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

type recordingNotifier struct {
	mu      sync.Mutex
	updates []models.RunStatus
}

func (n *recordingNotifier) PublishRunUpdate(_ uuid.UUID, status models.RunStatus, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, status)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func newTestRankingService() RankingService {
	return NewRankingService(NewTextExtractor(zap.NewNop()), zap.NewNop())
}
