package pdfutil

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Info carries what the reader surfaces about an uploaded PDF.
type Info struct {
	PageCount int
	Title     string
	Author    string
}

// Inspect opens the PDF at path and returns its page count plus a
// best-effort title/author guess from the first page.
func Inspect(path string) (*Info, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info := &Info{PageCount: r.NumPage()}

	firstPage, err := pageText(r, 1)
	if err != nil {
		// Page count alone is still useful; metadata stays empty.
		return info, nil
	}
	info.Title, info.Author = heuristicTitleAndAuthor(firstPage)

	return info, nil
}

// ExtractText returns the plain text of the whole document with
// whitespace collapsed.
func ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	content, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}

	text := extraneousWhitespace.ReplaceAllString(builder.String(), " ")
	return strings.TrimSpace(text), nil
}

// ExtractPages returns the text of pages [1..maxPages], joined. A
// maxPages of 0 means every page. Pages that fail to decode are skipped.
func ExtractPages(path string, maxPages int) (string, error) {
	return ExtractPageRange(path, 1, maxPages)
}

// ExtractPageRange returns the text of pages [first..last], joined.
// first below 1 is clamped to 1 and a last of 0 (or past the end) means
// the final page. A first beyond the document is an error.
func ExtractPageRange(path string, first, last int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	if first < 1 {
		first = 1
	}
	if last <= 0 || last > total {
		last = total
	}
	if first > last {
		return "", fmt.Errorf("page range %d-%d out of bounds for %d pages", first, last, total)
	}

	var builder strings.Builder
	for i := first; i <= last; i++ {
		text, err := pageText(r, i)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text in pages %d-%d", first, last)
	}
	return text, nil
}

func pageText(r *pdf.Reader, num int) (string, error) {
	page := r.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", num)
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d text: %w", num, err)
	}
	return text, nil
}

// heuristicTitleAndAuthor treats the first non-empty line of the first
// page as the title and the second as the author line. Research papers
// follow this layout often enough for a display default.
func heuristicTitleAndAuthor(text string) (string, string) {
	s := bufio.NewScanner(strings.NewReader(text))
	nonEmpty := make([]string, 0, 2)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		nonEmpty = append(nonEmpty, line)
		if len(nonEmpty) == 2 {
			break
		}
	}

	title := ""
	author := ""
	if len(nonEmpty) > 0 {
		title = truncateLine(nonEmpty[0], 200)
	}
	if len(nonEmpty) > 1 {
		author = truncateLine(nonEmpty[1], 200)
	}
	return title, author
}

func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
