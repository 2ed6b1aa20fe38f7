package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rebeliceyang/lazyjson/internal/models"
)

var testMatches = []models.Match{
	{Path: "$.users[0].name", Type: "string", Value: `Smith, "Bob"`},
	{Path: "$.users[0].age", Type: "number", Value: "42"},
}

func TestExportToCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "test.csv")

	if err := ExportToCSV(testMatches, csvPath); err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) != 3 { // header + 2 rows
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	expectedHeader := []string{"Path", "Type", "Value"}
	if strings.Join(records[0], ",") != strings.Join(expectedHeader, ",") {
		t.Errorf("Header mismatch.\nExpected: %v\nGot: %v", expectedHeader, records[0])
	}

	// Commas and quotes survive the round trip
	if records[1][2] != `Smith, "Bob"` {
		t.Errorf("Expected quoted value, got '%s'", records[1][2])
	}
	if records[2][0] != "$.users[0].age" || records[2][1] != "number" {
		t.Errorf("Unexpected second row %v", records[2])
	}
}

func TestExportToJSON(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "test.json")

	if err := ExportToJSON(testMatches, jsonPath); err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	info, err := os.Stat(jsonPath)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("Expected file permissions 0644, got %o", info.Mode().Perm())
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}

	var parsed []models.Match
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(parsed) != 2 || parsed[0] != testMatches[0] {
		t.Errorf("Unexpected parsed matches %v", parsed)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("JSON should be indented")
	}
}

func TestExportEmpty(t *testing.T) {
	tmpDir := t.TempDir()

	csvPath := filepath.Join(tmpDir, "empty.csv")
	if err := ExportToCSV(nil, csvPath); err != nil {
		t.Fatalf("ExportToCSV with empty list failed: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if string(data) != "Path,Type,Value\n" {
		t.Errorf("Expected header only, got %q", data)
	}

	jsonPath := filepath.Join(tmpDir, "empty.json")
	if err := ExportToJSON(nil, jsonPath); err != nil {
		t.Fatalf("ExportToJSON with empty list failed: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected empty array, got %q", data)
	}
}

func TestExport(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	dir := filepath.Join(t.TempDir(), "out")

	tests := []struct {
		name     string
		source   string
		format   string
		wantFile string
		wantErr  bool
	}{
		{name: "csv default", source: "doc.json", wantFile: "doc-matches-20240305-140709.csv"},
		{name: "json", source: "data.yaml", format: "JSON", wantFile: "data-matches-20240305-140709.json"},
		{name: "stdin", source: "stdin", format: "csv", wantFile: "stdin-matches-20240305-140709.csv"},
		{name: "unknown format", source: "doc.json", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Export(testMatches, dir, tt.source, tt.format, now)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			if filepath.Base(path) != tt.wantFile {
				t.Errorf("Expected file %s, got %s", tt.wantFile, filepath.Base(path))
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("Expected exported file: %v", err)
			}
		})
	}
}
