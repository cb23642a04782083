package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
	th "github.com/desertthunder/recon/internal/testing"
)

func sampleClusters() []models.Cluster {
	created := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	primary := models.NewPrimary(models.Some("lorraine@hillvalley.edu"), models.Some("123456"), created)
	primary.ID = 1
	secondary := models.NewSecondary(models.Some("mcfly@hillvalley.edu"), models.Some("123456"), 1, created.Add(time.Hour))
	secondary.ID = 23
	solo := models.NewPrimary(models.None(), models.Some("919191"), created.Add(2*time.Hour))
	solo.ID = 40

	return []models.Cluster{
		{
			View: models.ClusterView{
				PrimaryContactID:    1,
				Emails:              []string{"lorraine@hillvalley.edu", "mcfly@hillvalley.edu"},
				PhoneNumbers:        []string{"123456"},
				SecondaryContactIDs: []int64{23},
			},
			Contacts: []models.Contact{*primary, *secondary},
		},
		{
			View: models.ClusterView{
				PrimaryContactID:    40,
				Emails:              []string{},
				PhoneNumbers:        []string{"919191"},
				SecondaryContactIDs: []int64{},
			},
			Contacts: []models.Contact{*solo},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleClusters())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("expected header plus 3 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "primary_contact_id,id,email,phone_number,link_precedence,linked_id,created_at" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if strings.Join(records[2], ",") != "1,23,mcfly@hillvalley.edu,123456,secondary,1,2023-04-01T01:00:00Z" {
			t.Errorf("unexpected secondary row %v", records[2])
		}
		if records[3][2] != "" || records[3][5] != "" {
			t.Errorf("absent values should be empty cells, got %v", records[3])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleClusters())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Identity Clusters",
			"**Clusters**: 2",
			"## Cluster 1",
			"**Emails**: lorraine@hillvalley.edu, mcfly@hillvalley.edu",
			"| 23 | mcfly@hillvalley.edu | 123456 | secondary |",
			"## Cluster 40",
			"**Emails**: -",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleClusters())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		want := "Primary: 1\nEmails: lorraine@hillvalley.edu, mcfly@hillvalley.edu\nPhone numbers: 123456\nSecondaries: 23\n\n" +
			"Primary: 40\nEmails: -\nPhone numbers: 919191\nSecondaries: -\n"
		if string(data) != want {
			t.Errorf("unexpected text output:\n%s", data)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleClusters())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []models.Cluster
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0].View.PrimaryContactID != 1 || len(decoded[0].Contacts) != 2 {
			t.Errorf("unexpected decoded clusters %+v", decoded)
		}

		empty, err := ExportToJSON(nil)
		if err != nil || string(empty) != "[]" {
			t.Errorf("expected empty array, got %s (%v)", empty, err)
		}
	})

	t.Run("Export Unsupported", func(t *testing.T) {
		if _, err := Export(sampleClusters(), "xml"); !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("Write", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, sampleClusters(), "txt"); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "Primary: 1") {
			t.Errorf("unexpected output %s", buf.String())
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		if err := Write(&th.FWriter{}, sampleClusters(), "csv"); err == nil {
			t.Error("expected error from failing writer")
		}

		var buf bytes.Buffer
		lw := th.NewLimitedWriter(0, 0, &buf)
		if err := Write(&lw, sampleClusters(), "json"); err == nil {
			t.Error("expected error once write limit is reached")
		}
	})

	t.Run("WriteFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clusters.md")
		if err := WriteFile(sampleClusters(), "markdown", path); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "## Cluster 40") {
			t.Error("written file missing cluster section")
		}

		if err := WriteFile(sampleClusters(), "markdown", filepath.Join(t.TempDir(), "missing", "x.md")); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})
}
