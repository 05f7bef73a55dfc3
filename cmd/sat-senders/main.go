// Command sat-senders manages the authorized sender registry from the
// command line.
//
// Usage:
//
//	sat-senders list
//	sat-senders add <address>
//	sat-senders remove <address>
//	sat-senders requests <address>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	satbrowse "github.com/psagers/sat-browse"
	"github.com/psagers/sat-browse/internal/validation"
	"github.com/psagers/sat-browse/postgres"
)

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: sat-senders <list|add|remove> [address]")
	}

	pool, err := pgxpool.New(ctx, databaseURL(getenv))
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	db := postgres.NewDB(pool)

	switch args[0] {
	case "list":
		return listSenders(ctx, db.SenderService)
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: sat-senders add <address>")
		}
		return addSender(ctx, db.SenderService, args[1])
	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: sat-senders remove <address>")
		}
		return removeSender(ctx, db.SenderService, args[1])
	case "requests":
		if len(args) != 2 {
			return fmt.Errorf("usage: sat-senders requests <address>")
		}
		return listRequests(ctx, db.RequestService, args[1])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func listSenders(ctx context.Context, svc satbrowse.SenderService) error {
	senders, err := svc.ListSenders(ctx)
	if err != nil {
		return err
	}
	for _, s := range senders {
		fmt.Printf("%s\t%s\n", s.Address, s.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func addSender(ctx context.Context, svc satbrowse.SenderService, address string) error {
	if err := validation.New().Var(address, "required,email"); err != nil {
		return fmt.Errorf("%q is not a valid email address", address)
	}
	if err := svc.AddSender(ctx, address); err != nil {
		return err
	}
	fmt.Printf("added %s\n", address)
	return nil
}

// listRequests prints a sender's recent requests, newest first.
func listRequests(ctx context.Context, svc satbrowse.RequestService, address string) error {
	requests, err := svc.FindRequestsByEmail(ctx, address, 20)
	if err != nil {
		return err
	}
	for _, r := range requests {
		status := "pending"
		switch {
		case r.Completed != nil && r.Success:
			status = "ok"
		case r.Completed != nil:
			status = "failed: " + r.Error
		}
		fmt.Printf("%s\t%s\t%s\t%s\n",
			r.Received.Format("2006-01-02 15:04"), r.ID, r.URL, status)
	}
	return nil
}

func removeSender(ctx context.Context, svc satbrowse.SenderService, address string) error {
	if err := svc.RemoveSender(ctx, address); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", address)
	return nil
}

func databaseURL(getenv func(string) string) string {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		env("DB_USER", "postgres"),
		env("DB_PASSWORD", ""),
		env("DB_HOSTNAME", "localhost"),
		env("DB_PORT", "5432"),
		env("DB_NAME", "satbrowse"),
	)
}
