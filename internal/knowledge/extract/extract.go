package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/gitclixlogix/contentry-knowledge/internal/config"
	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/gitclixlogix/contentry-knowledge/pkg/logger_i"
	"github.com/lu4p/cat"
)

var logger = logger_i.NewLogger("Extractor")

// Text converts raw document bytes into plain UTF-8 text, dispatching on the
// filename extension. Unknown extensions return UnsupportedFormatError,
// parser failures (corrupt or encrypted files) return ExtractionError.
func Text(content []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return extractPDF(content, filename)
	case ".docx", ".odt", ".rtf":
		return extractWithCat(content, filename, ext)
	case ".txt", ".md", ".csv":
		return strings.ToValidUTF8(string(content), ""), nil
	case ".xlsx", ".xls":
		return extractWorkbook(content, filename)
	case ".pptx", ".ppt":
		return extractSlides(content, filename)
	default:
		return "", &docModel.UnsupportedFormatError{Extension: ext}
	}
}

func extractPDF(content []byte, filename string) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		logger.Error("failed opening pdf", "filename", filename, "error", err)
		return "", &docModel.ExtractionError{Filename: filename, Err: err}
	}

	var builder strings.Builder
	numPages := reader.NumPage()
	extracted := 0
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := protectExtract(page)
		if err != nil {
			// A single bad page doesn't sink the document
			logger.Warn("skipping unreadable pdf page", "filename", filename, "page", i, "error", err)
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
		extracted++
	}

	if numPages > 0 && extracted == 0 {
		return "", &docModel.ExtractionError{Filename: filename, Err: errors.New("no readable pages")}
	}
	return builder.String(), nil
}

// protectExtract guards against parser hangs on hostile pdf content.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PageExtractionTimeout):
		return "", errors.New("page extraction timeout")
	}
}

// extractWithCat spools the bytes to a temp file because cat only reads
// paths. The file is removed before returning either way.
func extractWithCat(content []byte, filename string, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "extract-*"+ext)
	if err != nil {
		return "", fmt.Errorf("temp file for extraction: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("temp file for extraction: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("temp file for extraction: %w", err)
	}

	text, err := cat.File(tmp.Name())
	if err != nil {
		logger.Error("failed extracting document content", "filename", filename, "error", err)
		return "", &docModel.ExtractionError{Filename: filename, Err: err}
	}
	return text, nil
}
