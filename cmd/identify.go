package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recon/internal/formatter"
	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

// Identify reconciles one identity and prints the consolidated contact.
func (r *Runner) Identify(ctx context.Context, cmd *cli.Command) error {
	identity := models.NewIdentity(cmd.String("email"), cmd.String("phone"))
	if identity.Empty() {
		return fmt.Errorf("%w: --email or --phone is required", shared.ErrMissingArgument)
	}

	rec, err := r.reconciler(ctx, cmd.String("remote"))
	if err != nil {
		return err
	}

	r.logger.Debug("identifying", "email", identity.Email, "phone", identity.PhoneNumber)

	view, err := rec.Reconcile(ctx, identity)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(models.IdentifyResponse{Contact: *view}, cmd.Bool("pretty"))
	}

	_, err = r.output.Write(formatter.FormatView(*view))
	return err
}
