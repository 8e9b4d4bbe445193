package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jusunglee/station-hours/pkg/station"
)

func main() {
	var (
		stationID  = flag.Int("station", 0, "Station id to query (all stations when 0)")
		at         = flag.String("at", "", "Reference instant as YYYY-MM-DD HH:MM:SS (now when empty)")
		tablesFile = flag.String("tables-file", os.Getenv("TABLES_FILE"), "Schedule tables YAML file")
	)
	flag.Parse()

	config := station.DefaultConfig()
	config.TablesFile = *tablesFile
	config.ReloadSchedule = ""

	// Pin the clock when an explicit instant is given
	if *at != "" {
		ref, err := time.ParseInLocation(time.DateTime, *at, time.Local)
		if err != nil {
			slog.Error("Invalid -at value", "at", *at, "error", err)
			os.Exit(1)
		}
		config.Clock = station.ClockFunc(func() time.Time { return ref })
	}

	client, err := station.NewLocal(config, slog.Default(), nil)
	if err != nil {
		slog.Error("Failed to create station client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ids := []int{*stationID}
	if *stationID == 0 {
		ids, err = client.Stations()
		if err != nil {
			slog.Error("Failed to list stations", "error", err)
			os.Exit(1)
		}
	}

	for _, id := range ids {
		open, err := client.IsOpen(id)
		if err != nil {
			slog.Error("Failed to check station", "station", id, "error", err)
			os.Exit(1)
		}
		action, err := client.NextAction(id)
		if err != nil {
			slog.Error("Failed to get next action", "station", id, "error", err)
			os.Exit(1)
		}

		status := "closed"
		if open {
			status = "open"
		}
		fmt.Printf("Station %d: %s\n", id, status)
		fmt.Printf("  %s\n", action.Message())
	}
}
