// Command allocator runs allocation sessions against the order API from a
// terminal: inspecting an order's units and batches, applying a YAML plan,
// and retrying a status change after a partial commit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/masala/backend/internal/application/notification"
	"github.com/masala/backend/internal/application/planner"
	"github.com/masala/backend/internal/domain/order"
	"github.com/masala/backend/internal/infrastructure/auth"
	"github.com/masala/backend/internal/infrastructure/config"
	"github.com/masala/backend/internal/infrastructure/logger"
	"github.com/masala/backend/internal/infrastructure/orderclient"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var terr *planner.StatusTransitionError
		if errors.As(err, &terr) {
			fmt.Fprintf(os.Stderr, "allocations are saved; run `allocator retry-status -order %s` to change the status\n", terr.OrderID)
		}
		os.Exit(1)
	}
}

var commands = map[string]bool{"show": true, "apply": true, "retry-status": true, "token": true}

func run(ctx context.Context, command string, args []string, out io.Writer) error {
	if !commands[command] {
		printUsage(out)
		return fmt.Errorf("unknown command %q", command)
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	orderFlag := fs.String("order", "", "Order ID")
	planPath := fs.String("plan", "", "YAML allocation plan (apply)")
	commit := fs.Bool("commit", false, "Move the order to processing after saving (apply)")
	changedBy := fs.String("changed-by", "", "Operator recorded in the status history")
	notes := fs.String("notes", "", "Notes recorded in the status history")
	operator := fs.String("operator", "", "Operator the token is issued to (token)")
	lang := fs.String("lang", "en", "Locale for number formatting")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	log, err := logger.New(logger.Config{Level: *logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if command == "token" {
		if *operator == "" {
			return errors.New("-operator is required")
		}
		token, expires, err := auth.NewJWTService(cfg.JWT).GenerateToken(*operator)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, token)
		log.Info("token issued", zap.String("operator", *operator), zap.Time("expires_at", expires))
		return nil
	}

	orderID, err := uuid.Parse(*orderFlag)
	if err != nil {
		return fmt.Errorf("-order must be an order ID: %w", err)
	}
	var plan *planFile
	if command == "apply" {
		if plan, err = readPlan(*planPath); err != nil {
			return err
		}
	}

	client, err := orderclient.New(cfg.Client, orderclient.WithLogger(log))
	if err != nil {
		return err
	}
	notices := notification.NewService(cfg.Allocation.NoticeQueueSize)
	notices.Subscribe(notification.LogSubscriber(log))
	notices.Subscribe(noticeWriter(out))

	p := planner.New(client, client, notices, planner.Config{
		Tolerance:        cfg.Allocation.Tolerance,
		SaveInterval:     cfg.Allocation.SaveInterval,
		FetchConcurrency: cfg.Allocation.FetchConcurrency,
		CommitStatus:     order.StatusProcessing,
	}, log)

	session, err := p.Open(ctx, order.Reference(orderID))
	if err != nil {
		return err
	}
	defer session.Close()
	pr := newPrinter(*lang)

	switch command {
	case "show":
		pr.showSession(out, session)
		return nil

	case "apply":
		adjustments, err := applyPlan(session, plan)
		pr.showAdjustments(out, adjustments)
		if err != nil {
			return err
		}
		who, why := firstNonEmpty(*changedBy, plan.ChangedBy), firstNonEmpty(*notes, plan.Notes)
		if *commit {
			return session.Commit(ctx, who, why)
		}
		return session.Save(ctx)

	default:
		return session.RetryTransition(ctx, *changedBy, *notes)
	}
}

func readPlan(path string) (*planFile, error) {
	if path == "" {
		return nil, errors.New("-plan is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loadPlan(f)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Masala allocation CLI

Usage:
  allocator show -order <id>
  allocator apply -order <id> -plan plan.yaml [-commit] [-changed-by name] [-notes text]
  allocator retry-status -order <id> [-changed-by name] [-notes text]
  allocator token -operator <name>

The API address and token come from client.base_url and client.token
(MASALA_CLIENT_BASE_URL, MASALA_CLIENT_TOKEN).`)
}
