// Command bookctl walks through a booking against a running API from the
// terminal, one step at a time.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/apiclient"
	"github.com/BruksfildServices01/service-booking/internal/bookingflow"
)

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "API base URL")
	slug := flag.String("slug", "", "business slug")
	timeout := flag.Duration("timeout", apiclient.DefaultTimeout, "per request timeout")
	advance := flag.Duration("advance", bookingflow.DefaultAutoAdvance, "pause after a covered zip")
	verbose := flag.Bool("v", false, "log requests")
	flag.Parse()

	if *slug == "" {
		fmt.Fprintln(os.Stderr, "bookctl: -slug is required")
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := bookingflow.NewRunner(
		apiclient.New(*baseURL, *slug, *timeout),
		log,
		bookingflow.WithAutoAdvance(*advance),
	)

	if err := run(ctx, runner, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "bookctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, runner *bookingflow.Runner, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	st := runner.State()

	for {
		render(out, st)
		if st.Step == bookingflow.StepSubmitted {
			return nil
		}

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		cmd, err := parse(st, scanner.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		switch cmd.kind {
		case cmdQuit:
			return nil
		case cmdHelp:
			fmt.Fprintln(out, helpText)
			continue
		case cmdSubmit:
			st = runner.Confirm(ctx)
		case cmdEvent:
			st = runner.Dispatch(ctx, cmd.event)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// ======================================================
// Commands
// ======================================================

const helpText = `commands:
  zip <code>                 check a zip code
  toggle <service id>        select or unselect a service
  set <option id> <value>    set an option value
  name|email|phone|address|date|time|notes <value>
                             fill in customer details
  code <discount code>       apply a discount code (review step)
  next | back                move between steps
  submit                     confirm the booking (review step)
  quit`

type cmdKind int

const (
	cmdEvent cmdKind = iota
	cmdSubmit
	cmdHelp
	cmdQuit
)

type command struct {
	kind  cmdKind
	event bookingflow.Event
}

func parse(st bookingflow.State, line string) (command, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "", "help", "?":
		return command{kind: cmdHelp}, nil
	case "quit", "exit":
		return command{kind: cmdQuit}, nil
	case "submit", "confirm":
		return command{kind: cmdSubmit}, nil
	case "next":
		return event(bookingflow.Next{}), nil
	case "back", "prev":
		return event(bookingflow.Prev{}), nil
	case "zip":
		return event(bookingflow.ZipEntered{Zip: arg}), nil
	case "code":
		return event(bookingflow.SetDiscountCode{Code: arg}), nil

	case "toggle":
		var id uint
		if _, err := fmt.Sscan(arg, &id); err != nil {
			return command{}, fmt.Errorf("usage: toggle <service id>")
		}
		return event(bookingflow.ToggleService{ServiceID: id}), nil

	case "set":
		idStr, value, _ := strings.Cut(arg, " ")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil {
			return command{}, fmt.Errorf("usage: set <option id> <value>")
		}
		return event(bookingflow.SetOption{OptionID: id, Value: strings.TrimSpace(value)}), nil

	case "name", "email", "phone", "address", "date", "time", "notes":
		c := st.Customer
		switch strings.ToLower(verb) {
		case "name":
			c.Name = arg
		case "email":
			c.Email = arg
		case "phone":
			c.Phone = arg
		case "address":
			c.Address = arg
		case "date":
			c.ServiceDate = arg
		case "time":
			c.ServiceTime = arg
		case "notes":
			c.Notes = arg
		}
		return event(bookingflow.SetCustomer{Customer: c}), nil
	}

	return command{}, fmt.Errorf("unknown command %q, type help", verb)
}

func event(ev bookingflow.Event) command {
	return command{kind: cmdEvent, event: ev}
}

// ======================================================
// Rendering
// ======================================================

func render(out io.Writer, st bookingflow.State) {
	fmt.Fprintf(out, "\n== %s ==\n", st.Step)

	if st.Notice != "" {
		fmt.Fprintln(out, st.Notice)
	}
	if st.Failure != nil {
		fmt.Fprintln(out, "!", st.Failure.UserMessage())
	}

	switch st.Step {
	case bookingflow.StepZipEntry:
		if st.Zip != "" && !st.ZipCovered {
			fmt.Fprintf(out, "zip %s\n", st.Zip)
		}

	case bookingflow.StepServiceSelection:
		for _, s := range st.Services {
			mark := " "
			if st.IsSelected(s.ID) {
				mark = "x"
			}
			fmt.Fprintf(out, "[%s] %d  %-30s %s\n", mark, s.ID, s.Name, s.Price.StringFixed(2))
		}

	case bookingflow.StepOptionConfiguration:
		for _, o := range st.SelectedOptions() {
			req := ""
			if o.IsRequired {
				req = " *"
			}
			fmt.Fprintf(out, "%d  %s (%s)%s = %q\n", o.ID, o.Name, o.Type, req, st.Values[o.ID])
			for _, ch := range o.Choices {
				fmt.Fprintf(out, "     %s: %s  +%s\n", ch.Value, ch.Label, ch.Price.StringFixed(2))
			}
		}

	case bookingflow.StepCustomerInfo:
		c := st.Customer
		fmt.Fprintf(out, "name=%q email=%q phone=%q\naddress=%q date=%q time=%q\n",
			c.Name, c.Email, c.Phone, c.Address, c.ServiceDate, c.ServiceTime)

	case bookingflow.StepReview:
		renderPreview(out, st)

	case bookingflow.StepSubmitted:
		fmt.Fprintf(out, "Booking confirmed. Reference %s\n", st.Reference)
	}

	if st.Loading {
		fmt.Fprintln(out, "...")
	}
}

func renderPreview(out io.Writer, st bookingflow.State) {
	p := st.Preview
	for _, l := range p.Services {
		fmt.Fprintf(out, "  %-34s %10s\n", l.Name, l.Total.StringFixed(2))
	}
	for _, l := range p.Options {
		fmt.Fprintf(out, "    %-32s %10s\n", l.Name+": "+l.Value, l.Impact.StringFixed(2))
	}
	fmt.Fprintf(out, "  %-34s %10s\n", "Subtotal", p.Subtotal.StringFixed(2))
	if st.DiscountCode != "" {
		fmt.Fprintf(out, "  %-34s %10s\n", "Discount "+st.DiscountCode, "-"+p.DiscountAmount.StringFixed(2))
	}
	fmt.Fprintf(out, "  %-34s %10s\n", "Total", p.Total.StringFixed(2))
}

