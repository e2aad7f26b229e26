// Command mailroom-admin drives the admin CRUD panels and the mailroom desk
// from a terminal, talking to a running mailroom API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const usage = `usage: mailroom-admin [flags] <command> [args]

commands:
  panels                                  list panel schemas
  <panel> list                            panel is students, staff, spend-categories or professors
  <panel> create field=value ...
  <panel> edit <id> field=value ...
  <panel> delete <id>
  packages list [status]
  packages check-in <id> <employeeId> [location]
  packages check-out <id> <employeeId>

flags:
`

func main() {
	fs := flag.NewFlagSet("mailroom-admin", flag.ExitOnError)
	apiURL := fs.String("api", envOr("MAILROOM_API_URL", "http://localhost:8080/api"), "API base URL")
	password := fs.String("password", os.Getenv("MAILROOM_ADMIN_PASSWORD"), "shared admin password")
	yes := fs.Bool("yes", false, "confirm deletes without prompting")
	timeout := fs.Duration("timeout", 30*time.Second, "overall timeout")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cli := &cli{
		apiURL:   *apiURL,
		password: *password,
		confirm:  *yes,
		in:       os.Stdin,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	if err := cli.run(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

