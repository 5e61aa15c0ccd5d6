package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"github.com/RichardToddFidelis/reporting-backend/models"
)

// seed-dev loads a small demo data set: a handful of events, one group,
// one report with a modifier, and a pending job. Intended for local
// development against an empty database only.
func main() {
	confirm := flag.Bool("yes", false, "Required: confirms this is a dev database")
	flag.Parse()

	if !*confirm {
		fmt.Fprintln(os.Stderr, "--yes is required (refusing to seed without confirmation)")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	models.MigrateTable()

	ctx := context.Background()

	lat, lon, radius := 29.95, -90.07, 100.0
	ring, err := models.CreateRingEvent(ctx, &models.NewRingEvent{
		Name:        "New Orleans landfall",
		Description: "Ring around landfall point",
		Latitude:    &lat,
		Longitude:   &lon,
		Radius:      &radius,
	})
	if err != nil {
		fail("create ring event", err)
	}

	maxLat, minLat, maxLon, minLon := 31.0, 24.0, -80.0, -88.0
	box, err := models.CreateBoxEvent(ctx, &models.NewBoxEvent{
		Name:        "Florida box",
		Description: "Bounding box over Florida",
		MaxLat:      &maxLat,
		MinLat:      &minLat,
		MaxLon:      &maxLon,
		MinLon:      &minLon,
	})
	if err != nil {
		fail("create box event", err)
	}

	country := "US"
	geo, err := models.CreateGeoEvent(ctx, &models.NewGeoEvent{
		Name:        "US wind",
		Description: "Country-level geo event",
		Country:     &country,
	})
	if err != nil {
		fail("create geo event", err)
	}

	group, err := models.CreateEventGroup(ctx, &models.NewEventGroup{
		Name:     "Gulf landfall set",
		EventIds: []int{ring.ID, box.ID, geo.ID},
	})
	if err != nil {
		fail("create event group", err)
	}

	cron := "0 6 * * 1"
	report, err := models.CreateReport(ctx, &models.NewReport{
		Name:            "Weekly gulf wind",
		Peril:           "WS",
		LossPerspective: "Gross",
		Cron:            &cron,
		EventGroups:     []int{group.ID},
	})
	if err != nil {
		fail("create report", err)
	}

	asAt := "2026-06-30"
	modifier, err := models.CreateReportModifier(ctx, &models.NewReportModifier{
		AsAtDate:  &asAt,
		ReportIds: []int{report.ID},
	})
	if err != nil {
		fail("create report modifier", err)
	}

	job, err := models.CreateJob(ctx, &models.NewJob{
		ReportID:         report.ID,
		ReportModifierID: &modifier.ID,
	})
	if err != nil {
		fail("create job", err)
	}

	fmt.Printf("seeded: events=[%d %d %d] group=%d report=%d modifier=%d job=%d\n",
		ring.ID, box.ID, geo.ID, group.ID, report.ID, modifier.ID, job.ID)
}

func fail(op string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", op, err)
	os.Exit(1)
}
