package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Domenick1991/skybook/internal/app"
	"github.com/Domenick1991/skybook/internal/catalog"
	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/notify"
)

const help = `Commands:
  login [email|id]               sign in
  logout                         sign out
  flights                        list displayed flights
  search FROM TO [DATE] [PAX] [CLASS]
                                 search flights (use _ for any)
  filter [TEXT]                  filter displayed flights
  book FLIGHT [PASSENGERS]       book a flight (defaults to the searched party size)
  alert FLIGHT                   send an SMS delay alert
  status FLIGHT                  check live flight status
  contact PHONE                  register your SMS number
  bookings                       show your bookings
  stats                          show admin statistics
  health                         probe the backend
  view                           show session state
  quit                           exit`

type shell struct {
	app *app.App
	out io.Writer
}

// run executes one command line and reports whether the shell should exit.
func (s *shell) run(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(s.out, help)
		return false
	case "login":
		_ = s.app.Login(ctx, strings.Join(args, " "))
	case "logout":
		s.app.Logout(ctx)
	case "flights":
		s.printFlights(s.app.View().Flights)
		return false
	case "search":
		flights, err := s.app.Search(ctx, criteria(args))
		if err == nil {
			s.printFlights(flights)
		}
	case "filter":
		s.printFlights(s.app.SetFilter(strings.Join(args, " ")))
		return false
	case "book":
		if len(args) == 0 {
			fmt.Fprintln(s.out, "usage: book FLIGHT [PASSENGERS]")
			return false
		}
		_ = s.app.BookFlight(ctx, args[0], atoi(args, 1, 0))
	case "alert":
		if len(args) == 0 {
			fmt.Fprintln(s.out, "usage: alert FLIGHT")
			return false
		}
		_, _ = s.app.SendDelayAlert(ctx, args[0])
	case "status":
		if len(args) == 0 {
			fmt.Fprintln(s.out, "usage: status FLIGHT")
			return false
		}
		_, _ = s.app.CheckFlightStatus(ctx, args[0])
	case "contact":
		if len(args) == 0 {
			fmt.Fprintln(s.out, "usage: contact PHONE")
			return false
		}
		_ = s.app.RegisterContact(ctx, strings.Join(args, ""))
	case "bookings":
		if err := s.app.ReloadBookings(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(s.out, "could not load bookings")
		}
		s.printBookings(s.app.View().Bookings)
	case "stats":
		if err := s.app.LoadAdminStats(ctx); err != nil {
			fmt.Fprintln(s.out, "could not load admin stats")
		}
		if st := s.app.View().Stats; st != nil {
			fmt.Fprintf(s.out, "users=%d bookings=%d revenue=$%d alerts=%d sms=%t aviationstack=%t\n",
				st.TotalUsers, st.TotalBookings, st.TotalRevenue, st.ActiveAlerts, st.SMSConfigured, st.AviationStackConfigured)
		}
	case "health":
		fmt.Fprintf(s.out, "backend: %s\n", s.app.CheckHealth(ctx))
		return false
	case "view":
		s.printView(s.app.View())
		return false
	default:
		fmt.Fprintf(s.out, "unknown command %q, type 'help'\n", cmd)
		return false
	}

	s.printNotification(s.app.View())
	return false
}

func criteria(args []string) catalog.Criteria {
	get := func(i int) string {
		if i >= len(args) || args[i] == "_" {
			return ""
		}
		return args[i]
	}
	return catalog.Criteria{
		From:       get(0),
		To:         get(1),
		Date:       get(2),
		Passengers: atoi(args, 3, 1),
		Class:      get(4),
	}
}

func atoi(args []string, i, def int) int {
	if i >= len(args) {
		return def
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (s *shell) printNotification(v app.View) {
	if v.Notification != nil {
		fmt.Fprintf(s.out, "* %s\n", v.Notification.Message)
	}
	switch v.Surface {
	case notify.SurfaceSignIn:
		fmt.Fprintln(s.out, "  (use 'login' to sign in)")
	case notify.SurfaceContactRegistration:
		fmt.Fprintln(s.out, "  (use 'contact PHONE' to register your number)")
	}
}

func (s *shell) printFlights(flights []domain.Flight) {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FLIGHT\tAIRLINE\tROUTE\tDEPARTS\tPRICE\tCLASS\tSEATS\tSTATUS")
	for _, f := range flights {
		fmt.Fprintf(w, "%s\t%s\t%s → %s\t%s\t$%d\t%s\t%d\t%s\n",
			f.FlightNumber, f.Airline, f.From, f.To, f.Departure.Format("2006-01-02 15:04"), f.Price, f.Class, f.SeatsAvailable, f.StatusLabel())
	}
	_ = w.Flush()
}

func (s *shell) printBookings(bookings []app.BookingView) {
	if len(bookings) == 0 {
		fmt.Fprintln(s.out, "no bookings")
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PNR\tFLIGHT\tROUTE\tDATE\tPAX\tTOTAL\tSTATUS\tFLIGHT STATUS")
	for _, b := range bookings {
		flightStatus := "-"
		if b.Flight != nil {
			flightStatus = b.Flight.StatusLabel()
		}
		fmt.Fprintf(w, "%s\t%s\t%s → %s\t%s\t%d\t$%d\t%s\t%s\n",
			b.Booking.PNR, b.Booking.FlightNumber, b.Booking.From, b.Booking.To, b.Booking.BookingDate,
			b.Booking.Passengers, b.Booking.TotalAmount, b.Booking.Status, flightStatus)
	}
	_ = w.Flush()
}

func (s *shell) printView(v app.View) {
	if v.Identity != nil {
		fmt.Fprintf(s.out, "signed in: %s <%s>\n", v.Identity.DisplayName, v.Identity.Email)
	} else {
		fmt.Fprintln(s.out, "signed in: no")
	}
	fmt.Fprintf(s.out, "backend: %s\nflights shown: %d\nbookings: %d\n", v.Health, len(v.Flights), len(v.Bookings))
	s.printNotification(v)
}
