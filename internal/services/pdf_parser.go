package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/models"
)

// NoTextFound stands in for the text of a document that has none, so it can
// still take part in ranking.
const NoTextFound = "No text found in PDF"

const (
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// ExtractionError reports a document that could not be decoded at all.
type ExtractionError struct {
	Name string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

type TextExtractor interface {
	ExtractText(file models.ResumeFile) (string, error)
	ExtractPDFText(data []byte) (string, error)
}

type textExtractor struct {
	logger *zap.Logger
}

func NewTextExtractor(logger *zap.Logger) TextExtractor {
	return &textExtractor{logger: logger}
}

// ExtractText picks a decoder from the MIME type, falling back to the file
// extension. Decode failures are returned as *ExtractionError.
func (p *textExtractor) ExtractText(file models.ResumeFile) (string, error) {
	var (
		text string
		err  error
	)

	switch DetectFileType(file.Name, file.MimeType) {
	case MimePDF:
		text, err = p.ExtractPDFText(file.Data)
	case MimeDocx:
		text, err = extractDocxText(file.Data)
	case MimeText:
		text = withSentinel(string(file.Data))
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFileType, file.Name)
	}

	if err != nil {
		return "", &ExtractionError{Name: file.Name, Err: err}
	}

	return text, nil
}

// ExtractPDFText joins the text of every page that yields some, one page per
// line, in page order.
func (p *textExtractor) ExtractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Debug("skipping unreadable page", zap.Int("page", pageIndex), zap.Error(err))
			continue
		}
		if pageText == "" {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return withSentinel(textBuilder.String()), nil
}

// ReadResumeFile loads a resume from disk, named by its path. A read failure
// is kept on the file so the resume ranks as a failed extraction.
func ReadResumeFile(filePath string) models.ResumeFile {
	file := models.ResumeFile{Name: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		file.Err = fmt.Errorf("failed to read file: %w", err)
		return file
	}

	file.Data = data
	return file
}

// DetectFileType normalises a MIME type, using the file extension when the
// MIME type is missing or generic.
func DetectFileType(name, mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch mimeType {
	case MimePDF, MimeDocx, MimeText:
		return mimeType
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDocx
	case ".txt":
		return MimeText
	}

	return mimeType
}

func withSentinel(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return NoTextFound
	}
	return text
}

// Helper function to clean and normalize text
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
