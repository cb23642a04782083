package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recon/internal/formatter"
	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

// ClusterShow prints the cluster containing the contact given by --id.
func (r *Runner) ClusterShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int64("id")
	if id <= 0 {
		return fmt.Errorf("%w: --id must be positive", shared.ErrInvalidArgument)
	}

	rec, err := r.reconciler(ctx, cmd.String("remote"))
	if err != nil {
		return err
	}

	cluster, err := rec.Cluster(ctx, id)
	if err != nil {
		return err
	}

	return r.export([]models.Cluster{*cluster}, cmd.String("format"), cmd.String("output"))
}

// ClusterList prints a page of clusters from the local database.
func (r *Runner) ClusterList(ctx context.Context, cmd *cli.Command) error {
	limit, offset := cmd.Int("limit"), cmd.Int("offset")
	if limit <= 0 || offset < 0 {
		return fmt.Errorf("%w: --limit must be positive and --offset must not be negative", shared.ErrInvalidArgument)
	}

	engine, err := r.openEngine(ctx)
	if err != nil {
		return err
	}

	clusters, err := engine.Clusters(ctx, limit, offset)
	if err != nil {
		return err
	}

	total, err := engine.Count(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("listing clusters", "shown", len(clusters), "total", total, "offset", offset)

	return r.export(clusters, cmd.String("format"), cmd.String("output"))
}

func (r *Runner) export(clusters []models.Cluster, format, path string) error {
	if path == "" {
		return formatter.Write(r.output, clusters, format)
	}

	if err := formatter.WriteFile(clusters, format, path); err != nil {
		return err
	}
	r.logger.Info("export written", "file", path, "clusters", len(clusters))
	return nil
}
