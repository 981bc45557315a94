// Package pdftext pulls row-oriented text out of PDF statements so the
// parser can treat PDF input like any other statement text.
package pdftext

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dslipak/pdf"
)

// Rows extracts text rows from a PDF, one string per visual row, pages in
// order. Rows that render empty are dropped.
func Rows(r io.Reader) ([]string, error) {
	rAt, size, err := readerAt(r)
	if err != nil {
		return nil, err
	}

	doc, err := pdf.NewReader(rAt, size)
	if err != nil {
		return nil, err
	}

	var rows []string
	for no := 1; no <= doc.NumPage(); no++ {
		page := doc.Page(no)
		pageRows, err := page.GetTextByRow()
		if err != nil {
			log.Printf("⚠️ Skipping page %d: %v", no, err)
			continue
		}
		for _, row := range pageRows {
			var b strings.Builder
			for i, text := range row.Content {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text.S)
			}
			if b.Len() > 0 {
				rows = append(rows, b.String())
			}
		}
	}
	return rows, nil
}

// Text extracts the PDF's rows joined into one newline-separated block,
// the shape the transaction parser consumes.
func Text(r io.Reader) (string, error) {
	rows, err := Rows(r)
	if err != nil {
		return "", err
	}
	return strings.Join(rows, "\n"), nil
}

// FromFile extracts statement text from a PDF on disk.
func FromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Text(f)
}

// readerAt adapts any reader to the ReaderAt+size pair the pdf library
// wants, buffering into memory when the input cannot seek.
func readerAt(r io.Reader) (io.ReaderAt, int64, error) {
	if rAt, ok := r.(io.ReaderAt); ok {
		seeker, ok := r.(io.Seeker)
		if !ok {
			return nil, 0, errors.New("reader at without seeker, size unknown")
		}
		cur, _ := seeker.Seek(0, io.SeekCurrent)
		end, err := seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := seeker.Seek(cur, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return rAt, end, nil
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, 0, err
	}
	b := buf.Bytes()
	return bytes.NewReader(b), int64(len(b)), nil
}
