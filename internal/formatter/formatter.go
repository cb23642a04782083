// package formatter provides functions to export identity clusters to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

// Format names accepted by [Export].
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Formats lists every supported export format.
var Formats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// Export renders clusters in the named format.
func Export(clusters []models.Cluster, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return ExportToJSON(clusters)
	case FormatCSV:
		return ExportToCSV(clusters)
	case FormatMarkdown, "md":
		return ExportToMarkdown(clusters)
	case FormatText, "text":
		return ExportToText(clusters)
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %s)", shared.ErrUnsupportedFormat, format, strings.Join(Formats, ", "))
	}
}

// ExportToJSON renders clusters as an indented JSON array.
func ExportToJSON(clusters []models.Cluster) ([]byte, error) {
	if clusters == nil {
		clusters = []models.Cluster{}
	}
	return shared.MarshalJSON(clusters, true)
}

// ExportToCSV renders one row per contact with columns: primary_contact_id, id, email, phone_number,
// link_precedence, linked_id, created_at
func ExportToCSV(clusters []models.Cluster) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"primary_contact_id", "id", "email", "phone_number", "link_precedence", "linked_id", "created_at"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, cluster := range clusters {
		for _, c := range cluster.Contacts {
			linked := ""
			if c.LinkedID.Valid {
				linked = strconv.FormatInt(c.LinkedID.Int64, 10)
			}
			record := []string{
				strconv.FormatInt(cluster.View.PrimaryContactID, 10),
				strconv.FormatInt(c.ID, 10),
				c.Email.V,
				c.PhoneNumber.V,
				string(c.LinkPrecedence),
				linked,
				c.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders each cluster as a section with its identifiers and a member table.
func ExportToMarkdown(clusters []models.Cluster) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Identity Clusters\n\n")
	buf.WriteString(fmt.Sprintf("**Clusters**: %d\n\n", len(clusters)))

	for _, cluster := range clusters {
		v := cluster.View
		buf.WriteString(fmt.Sprintf("## Cluster %d\n\n", v.PrimaryContactID))
		buf.WriteString(fmt.Sprintf("**Emails**: %s\n", joinOrDash(v.Emails)))
		buf.WriteString(fmt.Sprintf("**Phone numbers**: %s\n", joinOrDash(v.PhoneNumbers)))
		buf.WriteString(fmt.Sprintf("**Secondaries**: %d\n\n", len(v.SecondaryContactIDs)))

		if len(cluster.Contacts) == 0 {
			continue
		}

		buf.WriteString("| ID | Email | Phone | Precedence | Created |\n")
		buf.WriteString("|---:|---|---|---|---|\n")
		for _, c := range cluster.Contacts {
			buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
				c.ID, cell(c.Email), cell(c.PhoneNumber), c.LinkPrecedence, c.CreatedAt.UTC().Format(time.RFC3339)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText renders clusters in plain text format
func ExportToText(clusters []models.Cluster) ([]byte, error) {
	var buf bytes.Buffer

	for i, cluster := range clusters {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.Write(FormatView(cluster.View))
	}

	return buf.Bytes(), nil
}

// FormatView renders a single cluster view as plain text.
func FormatView(v models.ClusterView) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Primary: %d\n", v.PrimaryContactID))
	buf.WriteString(fmt.Sprintf("Emails: %s\n", joinOrDash(v.Emails)))
	buf.WriteString(fmt.Sprintf("Phone numbers: %s\n", joinOrDash(v.PhoneNumbers)))

	ids := make([]string, len(v.SecondaryContactIDs))
	for i, id := range v.SecondaryContactIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	buf.WriteString(fmt.Sprintf("Secondaries: %s\n", joinOrDash(ids)))

	return buf.Bytes()
}

// Write renders clusters in format and writes them to w.
func Write(w io.Writer, clusters []models.Cluster, format string) error {
	data, err := Export(clusters, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteFile renders clusters in format into the file at path.
func WriteFile(clusters []models.Cluster, format, path string) error {
	data, err := Export(clusters, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func cell(o models.Optional) string {
	if !o.Usable() {
		return ""
	}
	return strings.ReplaceAll(o.V, "|", `\|`)
}
