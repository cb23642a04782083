package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recon/internal/tasks"
)

type importRowOutput struct {
	Line             int    `json:"line"`
	Email            string `json:"email,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	PrimaryContactID int64  `json:"primaryContactId,omitempty"`
	Error            string `json:"error,omitempty"`
}

type importOutput struct {
	TotalRows  int               `json:"totalRows"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	PrimaryIDs []int64           `json:"primaryContactIds"`
	Rows       []importRowOutput `json:"rows"`
}

// Import reconciles every row of a CSV file through the local engine or a remote server.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	useJSON := cmd.Bool("json")

	opts := tasks.BulkImportOpts{
		NumWorkers: r.config.Import.Workers,
		RateLimit:  r.config.Import.RateLimit,
	}
	if w := cmd.Int("workers"); w > 0 {
		opts.NumWorkers = w
	}
	if rate := cmd.Float("rate"); rate > 0 {
		opts.RateLimit = rate
	}

	rows, err := tasks.ReadCSVFile(path)
	if err != nil {
		return err
	}

	rec, err := r.reconciler(ctx, cmd.String("remote"))
	if err != nil {
		return err
	}

	r.logger.Info("starting import", "file", path, "rows", len(rows), "workers", opts.NumWorkers, "rate", opts.RateLimit)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if useJSON {
				continue
			}
			switch update.Phase {
			case tasks.ReadRows:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ReconcileRows:
				r.writePlain("   %s\n", update.Message)
			case tasks.Summarize:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := tasks.NewImportEngine(rec, r.logger).BulkImport(ctx, progressCh, rows, opts)
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	if useJSON {
		if jsonErr := r.writeJSON(toImportOutput(result), true); jsonErr != nil {
			return jsonErr
		}
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	r.writePlain("Rows: %d\n", result.TotalRows)
	r.writePlain("Succeeded: %d\n", result.Succeeded)
	r.writePlain("Failed: %d\n", result.Failed)
	r.writePlain("Clusters: %d %v\n", len(result.PrimaryIDs), result.PrimaryIDs)

	if result.Failed > 0 {
		r.writePlain("\nFailed rows:\n")
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - line %d: %v\n", res.Line, res.Error)
			}
		}
	}

	if err != nil {
		return fmt.Errorf("import interrupted: %w", err)
	}
	return nil
}

func toImportOutput(result *tasks.BulkImportResult) importOutput {
	out := importOutput{
		TotalRows:  result.TotalRows,
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		PrimaryIDs: result.PrimaryIDs,
		Rows:       make([]importRowOutput, 0, len(result.Results)),
	}
	if out.PrimaryIDs == nil {
		out.PrimaryIDs = []int64{}
	}

	for _, res := range result.Results {
		row := importRowOutput{
			Line:        res.Line,
			Email:       res.Identity.Email.V,
			PhoneNumber: res.Identity.PhoneNumber.V,
		}
		if res.View != nil {
			row.PrimaryContactID = res.View.PrimaryContactID
		}
		if res.Error != nil {
			row.Error = res.Error.Error()
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
