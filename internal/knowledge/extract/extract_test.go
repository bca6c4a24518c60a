package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gitclixlogix/contentry-knowledge/internal/domain/docModel"
	"github.com/xuri/excelize/v2"
)

func TestText_PlainFormats(t *testing.T) {
	tests := []struct {
		filename string
		content  string
	}{
		{"notes.txt", "plain text body"},
		{"README.md", "# heading\nsome markdown"},
		{"data.csv", "col1,col2\na,b"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := Text([]byte(tt.content), tt.filename)
			if err != nil {
				t.Fatalf("Text(%s) failed: %v", tt.filename, err)
			}
			if got != tt.content {
				t.Errorf("Plain formats must pass through unchanged, got %q", got)
			}
		})
	}
}

func TestText_SanitizesInvalidUTF8(t *testing.T) {
	content := append([]byte("valid"), 0xff, 0xfe)
	got, err := Text(content, "broken.txt")
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if got != "valid" {
		t.Errorf("Invalid bytes should be dropped, got %q", got)
	}
}

func TestText_UnsupportedFormat(t *testing.T) {
	tests := []string{"image.png", "archive.tar.gz", "noextension"}

	for _, filename := range tests {
		_, err := Text([]byte("irrelevant"), filename)

		var unsupported *docModel.UnsupportedFormatError
		if !errors.As(err, &unsupported) {
			t.Errorf("Text(%s): expected UnsupportedFormatError, got %v", filename, err)
		}
	}
}

func TestText_ExtensionCaseInsensitive(t *testing.T) {
	got, err := Text([]byte("upper case extension"), "SHOUTING.TXT")
	if err != nil {
		t.Fatalf("Uppercase extension should dispatch like lowercase: %v", err)
	}
	if got != "upper case extension" {
		t.Errorf("Unexpected content: %q", got)
	}
}

func TestText_CorruptPDF(t *testing.T) {
	_, err := Text([]byte("definitely not a pdf"), "corrupt.pdf")

	var extraction *docModel.ExtractionError
	if !errors.As(err, &extraction) {
		t.Errorf("Expected ExtractionError for corrupt pdf, got %v", err)
	}
}

func TestText_Workbook(t *testing.T) {
	book := excelize.NewFile()
	if err := book.SetCellValue("Sheet1", "A1", "quarterly"); err != nil {
		t.Fatal(err)
	}
	if err := book.SetCellValue("Sheet1", "B1", "guidelines"); err != nil {
		t.Fatal(err)
	}
	if err := book.SetCellValue("Sheet1", "A2", "tone: formal"); err != nil {
		t.Fatal(err)
	}
	buf, err := book.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	got, err := Text(buf.Bytes(), "brand.xlsx")
	if err != nil {
		t.Fatalf("Workbook extraction failed: %v", err)
	}
	if !strings.Contains(got, "quarterly guidelines") {
		t.Errorf("Row cells should join into one line, got %q", got)
	}
	if !strings.Contains(got, "tone: formal") {
		t.Errorf("Missing second row, got %q", got)
	}
}

func TestText_Slides(t *testing.T) {
	slideXML := `<?xml version="1.0"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
       xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>
    <a:p><a:r><a:t>brand voice</a:t></a:r><a:r><a:t>rules</a:t></a:r></a:p>
  </p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	writer, err := archive.Create("ppt/slides/slide1.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := writer.Write([]byte(slideXML)); err != nil {
		t.Fatal(err)
	}
	if err := archive.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := Text(buf.Bytes(), "deck.pptx")
	if err != nil {
		t.Fatalf("Slide extraction failed: %v", err)
	}
	if !strings.Contains(got, "brand voice") || !strings.Contains(got, "rules") {
		t.Errorf("Expected slide text runs, got %q", got)
	}
}

func TestText_LegacyPPTIsExtractionError(t *testing.T) {
	// Legacy binary decks are not zip archives.
	_, err := Text([]byte{0xd0, 0xcf, 0x11, 0xe0}, "old.ppt")

	var extraction *docModel.ExtractionError
	if !errors.As(err, &extraction) {
		t.Errorf("Expected ExtractionError for legacy ppt, got %v", err)
	}
}
