package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MaxExtractedChars caps the document text embedded into a prompt.
const MaxExtractedChars = 3000

type DocumentExtractor interface {
	// Extract returns the plain text of data, truncated to MaxExtractedChars.
	Extract(data []byte, extension string) (string, error)
	SupportedExtensions() []string
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

func (d *documentExtractor) SupportedExtensions() []string {
	return []string{"pdf", "docx", "doc", "txt"}
}

// Extract implements DocumentExtractor.
func (d *documentExtractor) Extract(data []byte, extension string) (string, error) {
	ext := NormalizeExtension(extension)

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = extractPDF(data)
	case "docx", "doc":
		text, err = extractDocx(data)
	case "txt":
		text = strings.ToValidUTF8(string(data), "�")
	default:
		return "", &UnsupportedTypeError{Extension: ext}
	}
	if err != nil {
		return "", &ExtractionError{Format: ext, Cause: err}
	}

	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Format: ext, Cause: errors.New("no text content found")}
	}

	return Truncate(text, MaxExtractedChars), nil
}

// NormalizeExtension lowercases an extension and drops a leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// ExtensionOf returns the normalized extension of a file name.
func ExtensionOf(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return NormalizeExtension(filename[idx+1:])
}

// Truncate keeps the first max characters of s.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed object streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, openErr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if openErr != nil {
		return "", fmt.Errorf("failed to open PDF: %w", openErr)
	}

	var textBuilder strings.Builder
	fonts := make(map[string]*pdf.Font)
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}

		pageText, pageErr := page.GetPlainText(fonts)
		if pageErr != nil {
			// Skip unreadable pages, the rest of the document is still useful.
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return CleanText(textBuilder.String()), nil
}

// extractDocx reads word/document.xml from an OOXML container.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a word document container: %w", err)
	}

	var body io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open document body: %w", err)
			}
			break
		}
	}
	if body == nil {
		return "", errors.New("word/document.xml not found")
	}
	defer body.Close()

	var sb strings.Builder
	decoder := xml.NewDecoder(body)
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return CleanText(sb.String()), nil
}

// CleanText trims every line and drops blank ones.
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
