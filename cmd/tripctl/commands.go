package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/mmynk/tripplanner/internal/calculator"
	"github.com/mmynk/tripplanner/internal/client"
	"github.com/mmynk/tripplanner/internal/config"
	"github.com/mmynk/tripplanner/internal/models"
	"github.com/mmynk/tripplanner/internal/session"
)

var errUsage = errors.New("usage: tripctl [-server url] [-token token] <register|login|groups|create|join|status|vote|rsvp|pay|finalize|watch> args...")

type command struct {
	args int // minimum positional arguments after the command name
	run  func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"register": {3, register},
	"login":    {2, login},
	"groups":   {0, groups},
	"create":   {1, create},
	"join":     {1, join},
	"status":   {1, status},
	"vote":     {2, vote},
	"rsvp":     {2, rsvp},
	"pay":      {2, pay},
	"finalize": {1, finalize},
	"watch":    {1, watch},
}

// env is what every command runs with.
type env struct {
	cfg    config.CLI
	client *client.Client
	out    io.Writer
}

func run(ctx context.Context, cfg config.CLI, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok || len(args)-1 < cmd.args {
		return errUsage
	}
	e := &env{
		cfg:    cfg,
		client: client.New(nil, cfg.Server, cfg.Token),
		out:    out,
	}
	return cmd.run(ctx, e, args[1:])
}

func register(ctx context.Context, e *env, args []string) error {
	user, token, err := e.client.Register(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "registered %s (%s)\nexport TRIP_TOKEN=%s\n", user.Name, user.ID, token)
	return nil
}

func login(ctx context.Context, e *env, args []string) error {
	user, token, err := e.client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "signed in as %s\nexport TRIP_TOKEN=%s\n", user.Name, token)
	return nil
}

func groups(ctx context.Context, e *env, _ []string) error {
	list, err := e.client.ListMyGroups(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCODE\tMEMBERS")
	for _, g := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", g.ID, g.Name, g.JoinCode, len(g.Members))
	}
	return w.Flush()
}

func create(ctx context.Context, e *env, args []string) error {
	g, err := e.client.CreateGroup(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "created %s (%s), join code %s\n", g.Name, g.ID, g.JoinCode)
	return nil
}

func join(ctx context.Context, e *env, args []string) error {
	g, err := e.client.JoinGroup(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "joined %s (%s), %d members\n", g.Name, g.ID, len(g.Members))
	return nil
}

// open loads a session for the signed-in user in groupID.
func (e *env) open(ctx context.Context, groupID string) (*session.Session, error) {
	me, err := e.client.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	s := session.New(e.client, groupID, me.ID,
		session.WithRefreshInterval(e.cfg.PollInterval),
		session.WithLogger(slog.Default()),
	)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func status(ctx context.Context, e *env, args []string) error {
	s, err := e.open(ctx, args[0])
	if err != nil {
		return err
	}
	return render(e.out, s)
}

func vote(ctx context.Context, e *env, args []string) error {
	s, err := e.open(ctx, args[0])
	if err != nil {
		return err
	}
	v, err := s.CastVote(ctx, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "voted for %s at %s\n", v.DestinationID, time.UnixMilli(v.CastAt).Format(time.RFC3339))
	return render(e.out, s)
}

func rsvp(ctx context.Context, e *env, args []string) error {
	s, err := e.open(ctx, args[0])
	if err != nil {
		return err
	}
	if _, err := s.UpdateParticipantStatus(ctx, s.UserID(), models.ParticipantStatus(args[1])); err != nil {
		return err
	}
	return render(e.out, s)
}

func pay(ctx context.Context, e *env, args []string) error {
	var amount *float64
	if len(args) > 2 {
		v, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[2], err)
		}
		amount = &v
	}

	s, err := e.open(ctx, args[0])
	if err != nil {
		return err
	}
	if _, err := s.UpdatePaymentStatus(ctx, s.UserID(), models.PaymentStatus(args[1]), amount); err != nil {
		return err
	}
	return render(e.out, s)
}

func finalize(ctx context.Context, e *env, args []string) error {
	s, err := e.open(ctx, args[0])
	if err != nil {
		return err
	}
	t, err := s.FinalizeVoting(ctx)
	if errors.Is(err, session.ErrNoQuorum) {
		return errors.New("nobody has voted yet")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "trip confirmed: %s\n", t.SelectedDestinationID)
	return render(e.out, s)
}

// watch prints the group's state whenever a background refresh changes it.
func watch(ctx context.Context, e *env, args []string) error {
	s, err := e.open(ctx, args[0])
	if err != nil {
		return err
	}
	if err := render(e.out, s); err != nil {
		return err
	}

	s.Start(ctx)
	defer s.Stop()

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	last := fingerprint(s.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if fp := fingerprint(s.Snapshot()); fp != last {
				last = fp
				fmt.Fprintln(e.out)
				if err := render(e.out, s); err != nil {
					return err
				}
			}
		}
	}
}

// fingerprint summarizes the parts of the state watch prints.
func fingerprint(st session.State) string {
	fp := fmt.Sprintf("%d|", len(st.Members))
	for _, v := range st.AllVotes {
		fp += v.UserID + "=" + v.DestinationID + ","
	}
	if t := st.Trip; t != nil {
		fp += "|" + string(t.Status) + ":" + t.SelectedDestinationID
		for _, p := range t.Participants {
			fp += fmt.Sprintf("|%s:%s:%s", p.UserID, p.Status, p.PaymentStatus)
		}
	}
	return fp
}

func render(out io.Writer, s *session.Session) error {
	st := s.Snapshot()
	t := s.Tally()

	names := make(map[string]string, len(st.Members))
	for _, u := range st.Members {
		names[u.ID] = u.Name
	}
	resorts := make(map[string]string, len(st.Destinations))
	for _, d := range st.Destinations {
		resorts[d.ID] = d.Resort
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if st.Group != nil {
		fmt.Fprintf(w, "%s\tjoin code %s\n", st.Group.Name, st.Group.JoinCode)
	}
	if st.Trip != nil {
		line := string(st.Trip.Status)
		if st.Trip.SelectedDestinationID != "" {
			line += ": " + resorts[st.Trip.SelectedDestinationID]
		}
		fmt.Fprintf(w, "trip\t%s\n", line)
	}

	fmt.Fprintln(w, "\nDESTINATION\tVOTES\tSHARE\t")
	for _, e := range t.Entries() {
		mark := ""
		if st.UserVote != nil && st.UserVote.DestinationID == e.DestinationID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%d\t%d%%\t%s\n", resorts[e.DestinationID], e.Votes, e.Percent, mark)
	}

	if st.Trip != nil {
		summary, err := calculator.ForTrip(st.Trip, st.Destinations)
		if err != nil {
			return err
		}
		outstanding := make(map[string]float64)
		if summary != nil {
			for _, b := range summary.Balances {
				outstanding[b.UserID] = b.Outstanding
			}
		}

		fmt.Fprintln(w, "\nMEMBER\tSTATUS\tPAYMENT\tOWES")
		for _, p := range st.Trip.Participants {
			payment := string(p.PaymentStatus)
			if p.PaymentAmount != nil {
				payment += fmt.Sprintf(" (%.2f)", *p.PaymentAmount)
			}
			name := names[p.UserID]
			if name == "" {
				name = p.UserID
			}
			owes := "-"
			if summary != nil {
				owes = fmt.Sprintf("%.2f", outstanding[p.UserID])
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p.Status, payment, owes)
		}
		if summary != nil {
			fmt.Fprintf(w, "total\t\t%.2f paid\t%.2f\n", summary.TotalPaid, summary.TotalOutstanding)
		}
	}
	return w.Flush()
}
