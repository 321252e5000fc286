package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/framefill/internal/model"
)

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.pdf")

	if err := ExportPDF(path, buildTestLayout()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_Fallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.pdf")
	layout := buildTestLayout()
	layout.Report.Placeholders = nil
	layout.Report.Pairs = nil
	layout.Report.Fallback = true

	if err := ExportPDF(path, layout); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}

func TestExportPDF_NoFrameSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	layout := NewLayout("Empty", model.Rect{}, model.PlacementReport{}, model.DefaultSettings())

	if err := ExportPDF(path, layout); err == nil {
		t.Fatal("expected error for a frame without size")
	}
}

func TestLabelFontSize(t *testing.T) {
	cases := []struct {
		w, h float64
		want float64
	}{
		{100, 50, 8},
		{30, 100, 7},
		{16, 9, 6},
	}
	for _, c := range cases {
		if got := labelFontSize(c.w, c.h); got != c.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", c.w, c.h, got, c.want)
		}
	}
}
