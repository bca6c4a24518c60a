package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strings"

	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/xuri/excelize/v2"
)

func extractWorkbook(content []byte, filename string) (string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		logger.Error("failed opening workbook", "filename", filename, "error", err)
		return "", &docModel.ExtractionError{Filename: filename, Err: err}
	}
	defer book.Close()

	var builder strings.Builder
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			logger.Warn("skipping unreadable sheet", "filename", filename, "sheet", sheet, "error", err)
			continue
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, " "))
			if line == "" {
				continue
			}
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}
	return builder.String(), nil
}

// extractSlides walks the pptx zip and pulls the character data out of the
// a:t runs in each slide's XML. Legacy binary .ppt files fail the zip open
// and surface as ExtractionError.
func extractSlides(content []byte, filename string) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		logger.Error("failed opening presentation", "filename", filename, "error", err)
		return "", &docModel.ExtractionError{Filename: filename, Err: err}
	}

	var slides []*zip.File
	for _, f := range archive.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Name < slides[j].Name })

	var builder strings.Builder
	for _, slide := range slides {
		text, err := slideText(slide)
		if err != nil {
			logger.Warn("skipping unreadable slide", "filename", filename, "slide", slide.Name, "error", err)
			continue
		}
		builder.WriteString(text)
	}
	return builder.String(), nil
}

func slideText(slide *zip.File) (string, error) {
	reader, err := slide.Open()
	if err != nil {
		return "", err
	}
	defer reader.Close()

	var builder strings.Builder
	decoder := xml.NewDecoder(reader)
	inTextRun := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			if element.Name.Local == "t" {
				inTextRun = false
			}
		case xml.CharData:
			if inTextRun {
				builder.Write(element)
				builder.WriteString(" ")
			}
		}
	}
	builder.WriteString("\n")
	return builder.String(), nil
}
