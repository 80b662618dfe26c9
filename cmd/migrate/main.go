package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"phone8ez/adapters/postgres"
	"phone8ez/domain/account"
	"phone8ez/domain/core"
	"phone8ez/internal"
	"phone8ez/internal/migration"
	"phone8ez/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const usage = `Usage: migrate <database_url> <command>

Commands:
  up               apply the schema and promote ADMIN_EMAILS
  users            list registered users
  promote <email>  give a user the admin role
  demote <email>   return a user to the user role`

func main() {
	logger := internal.DefaultLogger
	defer logger.Sync()

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", os.Args[1])
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := run(ctx, db, logger, os.Args[2:]); err != nil {
		logger.Error("%v", err)
		db.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, db *sqlx.DB, logger *internal.Logger, args []string) error {
	users := postgres.NewUserRepository(db)

	switch args[0] {
	case "up":
		runner := migration.NewRunner(logger)
		if err := runner.Run(ctx, db); err != nil {
			return err
		}
		admins := adminEmails(os.Getenv("ADMIN_EMAILS"))
		if err := runner.SeedAdmins(ctx, db, admins); err != nil {
			return err
		}
		logger.Info("Migration complete: schema %s, %d administrators", runner.Version(), len(admins))
		return nil
	case "users":
		return listUsers(ctx, users)
	case "promote", "demote":
		if len(args) < 2 {
			return fmt.Errorf("%s needs an email", args[0])
		}
		role := account.RoleAdmin
		if args[0] == "demote" {
			role = account.RoleUser
		}
		email := core.NormalizeEmail(args[1])
		if err := users.SetRole(ctx, email, role); err != nil {
			return fmt.Errorf("failed to set role for %s: %w", email, err)
		}
		logger.Info("%s is now %s", email, role)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func listUsers(ctx context.Context, users ports.UserRepository) error {
	list, err := users.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tROLE\tCREATED")
	for _, u := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.Email, u.Role, u.CreatedAt.Format(time.DateOnly))
	}
	return w.Flush()
}

func adminEmails(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if email := core.NormalizeEmail(part); email != "" {
			out = append(out, string(email))
		}
	}
	return out
}
