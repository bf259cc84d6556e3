package db

import (
	"context"

	"visitdesk/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
)

// Migrate applies the SQL migration directory to the target database
// using the atlas CLI. dirURL is e.g. "file://migrations".
func Migrate(ctx context.Context, dsn, dirURL string) error {
	client, err := atlasexec.NewClient(".", "atlas")
	if err != nil {
		return errs.Wrap(err, "failed to create atlas client")
	}

	_, err = client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    dsn,
		DirURL: dirURL,
	})
	if err != nil {
		return errs.Wrap(err, "failed to apply migrations")
	}
	return nil
}
