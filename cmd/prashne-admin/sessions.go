package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ujwal209/prashne-ui-api/internal/bootstrap"
	domainauth "github.com/ujwal209/prashne-ui-api/internal/domain/auth"
)

const (
	sessionKeyPrefix    = "prashne:sess:"
	credentialKeyPrefix = "prashne:cred:"
	scanBatchSize       = 100
)

func connectRedis(ctx *commandContext) (redis.UniversalClient, error) {
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: ctx.Config.Redis,
		Logger:      ctx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// scanSessions walks the session key space and hands each record to fn.
func scanSessions(ctx *commandContext, client redis.UniversalClient, fn func(key string, sess domainauth.Session) error) error {
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx.Ctx, cursor, sessionKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("scan sessions: %w", err)
		}

		for _, key := range keys {
			data, getErr := client.Get(ctx.Ctx, key).Result()
			if getErr != nil {
				// The key may have expired between SCAN and GET.
				continue
			}
			var sess domainauth.Session
			if jsonErr := json.Unmarshal([]byte(data), &sess); jsonErr != nil {
				ctx.Logger.Warn("skipping unreadable session record", "key", key, "error", jsonErr)
				continue
			}
			if fnErr := fn(key, sess); fnErr != nil {
				return fnErr
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func runListSessions(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	email := fs.String("email", "", "only show sessions for this email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := connectRedis(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(w, "SESSION\tEMAIL\tROLE\tEXPIRES\n"); err != nil {
		return err
	}

	count := 0
	err = scanSessions(ctx, client, func(_ string, sess domainauth.Session) error {
		if *email != "" && !strings.EqualFold(sess.Email, *email) {
			return nil
		}
		count++
		return writef(w, "%s\t%s\t%s\t%s\n",
			sess.ID, sess.Email, sess.Role, sess.ExpiresAt.Format(time.RFC3339))
	})
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return writef(os.Stdout, "%d session(s)\n", count)
}

func runClearSessions(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	email := fs.String("email", "", "only revoke sessions for this email")
	all := fs.Bool("all", false, "revoke every session")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" && !*all {
		return fmt.Errorf("pass -email <address> or -all")
	}

	client, err := connectRedis(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	cleared := 0
	err = scanSessions(ctx, client, func(key string, sess domainauth.Session) error {
		if !*all && !strings.EqualFold(sess.Email, *email) {
			return nil
		}
		// Drop the credential pair with the session record so nothing can
		// reach the core API on behalf of this user afterwards.
		if delErr := client.Del(ctx.Ctx, key, credentialKeyPrefix+sess.ID).Err(); delErr != nil {
			return fmt.Errorf("delete session %s: %w", sess.ID, delErr)
		}
		cleared++
		return nil
	})
	if err != nil {
		return err
	}

	ctx.Logger.Info("sessions revoked", "count", cleared)
	return writef(os.Stdout, "revoked %d session(s)\n", cleared)
}
