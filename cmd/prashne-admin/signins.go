package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ujwal209/prashne-ui-api/internal/bootstrap"
	"github.com/ujwal209/prashne-ui-api/internal/data"
)

func runListSignIns(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-sign-ins", flag.ContinueOnError)
	limit := fs.Int("limit", 50, "number of events to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: ctx.Config.Postgres,
		Logger:   ctx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := data.NewSignInAuditRepo(db)
	events, err := repo.ListRecent(ctx.Ctx, *limit)
	if err != nil {
		return fmt.Errorf("list sign-in events: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(w, "OCCURRED\tKIND\tEMAIL\tROLE\tREMOTE\n"); err != nil {
		return err
	}
	for _, ev := range events {
		if err := writef(w, "%s\t%s\t%s\t%s\t%s\n",
			ev.OccurredAt.Format(time.RFC3339), ev.Kind, ev.Email, ev.Role, ev.RemoteAddr); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return writef(os.Stdout, "%d event(s)\n", len(events))
}
