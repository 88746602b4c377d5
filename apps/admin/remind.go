package main

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

type remindRequest struct {
	process string
	to      string
	now     string
	dryRun  bool
}

// remind emails the digest of overdue entities of a process, or prints it with dryRun.
func (cli *commandLine) remind(req remindRequest) error {
	pt := lifecycle.ParseProcessType(req.process)
	if !cli.reg.Has(pt) {
		return &lifecycle.UnknownProcessTypeError{Type: pt}
	}
	now, err := parseTimestamp("now", req.now)
	if err != nil {
		return err
	}

	var recipients []mail.Address
	if !req.dryRun {
		if req.to == "" {
			return snapshot.ErrNoRecipients
		}
		list, err := mail.ParseAddressList(req.to)
		if err != nil {
			return errors.Wrap(err, "-to must be a list of email addresses")
		}
		for _, addr := range list {
			recipients = append(recipients, *addr)
		}
	}

	store, err := cli.openStore()
	if err != nil {
		return errors.Wrap(err, "opening store")
	}
	defer func() { _ = store.Close() }()

	svc := snapshot.NewService(cli.reg, store.Repo, store.Trans, cli.logger)
	reminder := snapshot.NewReminder(svc, cli.mailer, cli.logger)
	ctx := context.Background()

	if req.dryRun {
		digest, err := reminder.Digest(ctx, pt, now)
		if err != nil {
			return err
		}
		return cli.printJSON(digest)
	}

	n, err := reminder.SendOverdueDigest(ctx, pt, recipients, now)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(cli.out, "no overdue items")
		return nil
	}
	fmt.Fprintf(cli.out, "sent a digest of %d overdue item(s) to %d recipient(s)\n", n, len(recipients))
	return nil
}
