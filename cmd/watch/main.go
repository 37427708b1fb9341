// Command watch is a headless member client: it lists bookable appointments,
// keeps them current from the capacity feed and can book one.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymhub/internal/browse"
	"gymhub/internal/capacity"
	"gymhub/internal/client"
	"gymhub/internal/config"
	"gymhub/internal/coordinator"
	"gymhub/internal/logger"
	"gymhub/internal/session"
	"gymhub/internal/stream"
)

func main() {
	bookID := flag.Int64("book", 0, "appointment id to book once the list is loaded")
	interval := flag.Duration("interval", 10*time.Second, "how often to print the list")
	once := flag.Bool("once", false, "print the list once and exit")
	flag.Parse()

	logger.Init()

	cfg, err := config.LoadClient()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	sess := session.New(session.NewFileStore(cfg.SessionFile))
	if err := sess.Init(); err != nil {
		logger.Warn("discarding stored session", "error", err)
	}

	api := client.New(cfg.APIURL, sess, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !sess.IsAuthenticated() {
		if cfg.Email == "" || cfg.Password == "" {
			logger.Fatal("not logged in; set GYMHUB_EMAIL and GYMHUB_PASSWORD")
		}
		resp, err := api.Login(ctx, cfg.Email, cfg.Password)
		if err != nil {
			logger.Fatalf("Login failed: %s", client.MessageOf(err, "Login failed"))
		}
		if err := sess.Login(resp); err != nil {
			logger.Fatalf("Failed to store session: %v", err)
		}
	}

	newFeed := func() browse.Feed {
		return stream.New(cfg.WSURL, cfg.Topic, stream.Options{
			ReconnectDelay: cfg.ReconnectDelay,
			Heartbeat:      cfg.Heartbeat,
		})
	}
	view := browse.New(api, newFeed(), browse.Options{
		RefetchOnReconnect: cfg.RefetchOnReconnect,
		Credits:            coordinator.NewCredits(),
		NewFeed:            newFeed,
	})
	if err := view.Mount(ctx); err != nil {
		logger.Error("initial load failed", "error", err)
	}
	defer view.Unmount()

	if *bookID > 0 {
		if sess.IsMember() {
			out := view.Book(ctx, *bookID)
			fmt.Printf("booking %d: %s\n", *bookID, out.Message)
		} else {
			fmt.Println("only members can book appointments")
		}
	}

	render(view)
	if *once {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			render(view)
		}
	}
}

func render(v *browse.View) {
	status := "offline"
	if v.Live() {
		status = "live"
	}
	fmt.Printf("\n== Available appointments (%s) ==\n", status)

	if n, ok := v.Banner().Current(); ok {
		fmt.Printf("[%s] %s\n", n.Kind, n.Message)
	}

	items := v.Appointments()
	if len(items) == 0 {
		fmt.Println("No appointments available")
		return
	}
	credits := v.Coordinator().Credits()
	for _, a := range items {
		left := "?"
		if n, ok := credits.Get(a.ServiceID); ok {
			left = fmt.Sprint(n)
		}
		book := "book"
		if !v.Coordinator().CanBook(a) {
			book = "-"
		}
		fmt.Printf("%s#%-5d %s - %s  %-20s %-20s %3d/%-3d credits:%-3s %s\033[0m\n",
			color(capacity.BandFor(a.CurrentBookings, a.MaxCapacity)),
			a.ID,
			capacity.FormatEU(a.StartTime),
			a.EndTime.Local().Format("15:04"),
			a.ServiceName,
			a.LocationName,
			a.CurrentBookings,
			a.MaxCapacity,
			left,
			book,
		)
	}
}

func color(b capacity.Band) string {
	switch b {
	case capacity.BandOpen:
		return "\033[32m"
	case capacity.BandBusy:
		return "\033[33m"
	default:
		return "\033[31m"
	}
}
