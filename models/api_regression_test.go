package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"github.com/RichardToddFidelis/reporting-backend/models"
	"github.com/RichardToddFidelis/reporting-backend/utils"
)

func TestCatalogFlowEndToEnd(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "reporting_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()
	db := config.GetDB()
	if db == nil {
		t.Fatalf("db is nil after ConnectDatabaseWithRetry")
	}

	// 1) Events of all three variants.
	lat, lon, radius := 29.95, -90.07, 100.0
	ring, err := models.CreateRingEvent(ctx, &models.NewRingEvent{
		Name: "ring", Description: "d", Latitude: &lat, Longitude: &lon, Radius: &radius,
	})
	if err != nil {
		t.Fatalf("CreateRingEvent: %v", err)
	}
	maxLat, minLat, maxLon, minLon := 31.0, 24.0, -80.0, -88.0
	box, err := models.CreateBoxEvent(ctx, &models.NewBoxEvent{
		Name: "box", Description: "d",
		MaxLat: &maxLat, MinLat: &minLat, MaxLon: &maxLon, MinLon: &minLon,
	})
	if err != nil {
		t.Fatalf("CreateBoxEvent: %v", err)
	}
	country := "US"
	geo, err := models.CreateGeoEvent(ctx, &models.NewGeoEvent{
		Name: "geo", Description: "d", Country: &country,
	})
	if err != nil {
		t.Fatalf("CreateGeoEvent: %v", err)
	}

	// Variant isolation: a ring id is not retrievable as a box event.
	if _, err := models.GetEventByType(ctx, ring.ID, models.EventTypeBox); !utils.IsNotFound(err) {
		t.Fatalf("ring fetched as box: got %v, want not-found", err)
	}

	// Repeat reads are served from the cache; the discriminator and the
	// variant columns must survive the round trip.
	if _, err := models.GetEventByType(ctx, ring.ID, models.EventTypeRing); err != nil {
		t.Fatalf("GetEventByType first read: %v", err)
	}
	ringAgain, err := models.GetEventByType(ctx, ring.ID, models.EventTypeRing)
	if err != nil {
		t.Fatalf("GetEventByType cache hit: %v", err)
	}
	if ringAgain.Latitude == nil || *ringAgain.Latitude != lat {
		t.Fatalf("cache-hit ring lost coordinates: %+v", ringAgain)
	}
	if _, err := models.GetEventByType(ctx, ring.ID, models.EventTypeBox); !utils.IsNotFound(err) {
		t.Fatalf("cached ring fetched as box: got %v, want not-found", err)
	}

	// 2) Group creation is atomic: a bad member id leaves no group behind.
	_, err = models.CreateEventGroup(ctx, &models.NewEventGroup{
		Name: "bad", EventIds: []int{ring.ID, 999999},
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("group with bad event id: got %v, want validation error", err)
	}
	var groupCount int64
	if err := db.Model(&models.EventGroup{}).Count(&groupCount).Error; err != nil {
		t.Fatalf("count groups: %v", err)
	}
	if groupCount != 0 {
		t.Fatalf("partial group write persisted: count=%d", groupCount)
	}

	group, err := models.CreateEventGroup(ctx, &models.NewEventGroup{
		Name: "gulf", EventIds: []int{ring.ID, box.ID, geo.ID},
	})
	if err != nil {
		t.Fatalf("CreateEventGroup: %v", err)
	}
	if len(group.Info().EventIds) != 3 {
		t.Fatalf("group members: got %v, want 3 ids", group.Info().EventIds)
	}
	groupAgain, err := models.GetEventGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetEventGroup cache hit: %v", err)
	}
	if len(groupAgain.Info().EventIds) != 3 {
		t.Fatalf("cache-hit group lost members: got %v", groupAgain.Info().EventIds)
	}

	// 3) Report creation is atomic and links groups in the same transaction.
	_, err = models.CreateReport(ctx, &models.NewReport{
		Name: "bad", Peril: "WS", LossPerspective: "Gross",
		EventGroups: []int{999999},
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("report with bad group id: got %v, want validation error", err)
	}
	var reportCount int64
	if err := db.Model(&models.Report{}).Count(&reportCount).Error; err != nil {
		t.Fatalf("count reports: %v", err)
	}
	if reportCount != 0 {
		t.Fatalf("partial report write persisted: count=%d", reportCount)
	}

	badCron := "not a cron"
	_, err = models.CreateReport(ctx, &models.NewReport{
		Name: "bad-cron", Peril: "WS", LossPerspective: "Gross", Cron: &badCron,
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("report with bad cron: got %v, want validation error", err)
	}

	cron := "0 6 * * 1"
	report, err := models.CreateReport(ctx, &models.NewReport{
		Name: "weekly", Peril: "WS", LossPerspective: "Gross", Cron: &cron,
		EventGroups: []int{group.ID},
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	// Round trip: the stored report carries exactly the linked group ids.
	fetched, err := models.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	info := fetched.Info()
	if len(info.EventGroups) != 1 || info.EventGroups[0] != group.ID {
		t.Fatalf("report groups round trip: got %v, want [%d]", info.EventGroups, group.ID)
	}
	if info.Priority != "AboveNormal" || info.Ncores != 24 {
		t.Fatalf("report defaults not applied: priority=%q ncores=%d", info.Priority, info.Ncores)
	}

	// A second read with no intervening mutation is a cache hit and must
	// still carry the linked group ids.
	fetched, err = models.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetReport cache hit: %v", err)
	}
	info = fetched.Info()
	if len(info.EventGroups) != 1 || info.EventGroups[0] != group.ID {
		t.Fatalf("cache-hit report groups: got %v, want [%d]", info.EventGroups, group.ID)
	}

	// 4) Group linking rejects duplicates and invalidates the cache.
	group2, err := models.CreateEventGroup(ctx, &models.NewEventGroup{
		Name: "second", EventIds: []int{box.ID},
	})
	if err != nil {
		t.Fatalf("CreateEventGroup second: %v", err)
	}
	if err := models.LinkReportEventGroup(ctx, report.ID, group2.ID); err != nil {
		t.Fatalf("LinkReportEventGroup: %v", err)
	}
	if err := models.LinkReportEventGroup(ctx, report.ID, group2.ID); !utils.IsValidationError(err) {
		t.Fatalf("duplicate link: got %v, want validation error", err)
	}
	fetched, err = models.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetReport after link: %v", err)
	}
	if len(fetched.Info().EventGroups) != 2 {
		t.Fatalf("stale report after link: groups=%v", fetched.Info().EventGroups)
	}

	// 5) Modifiers: derived date parts and report linkage.
	asAt := "2026-06-30"
	modifier, err := models.CreateReportModifier(ctx, &models.NewReportModifier{
		AsAtDate: &asAt, ReportIds: []int{report.ID},
	})
	if err != nil {
		t.Fatalf("CreateReportModifier: %v", err)
	}
	mInfo := modifier.Info()
	if mInfo.Quarter == nil || *mInfo.Quarter != 2 || mInfo.Year == nil || *mInfo.Year != 2026 {
		t.Fatalf("derived date parts wrong: %+v", mInfo)
	}
	if len(mInfo.ReportIds) != 1 || mInfo.ReportIds[0] != report.ID {
		t.Fatalf("modifier report ids: got %v, want [%d]", mInfo.ReportIds, report.ID)
	}

	if _, err := models.LinkModifierReports(ctx, modifier.ID, []int{999999}); !utils.IsValidationError(err) {
		t.Fatalf("link to bad report id: got %v, want validation error", err)
	}

	// 6) Jobs: referenced report must exist; a modifier must be linked
	// to the job's report.
	if _, err := models.CreateJob(ctx, &models.NewJob{ReportID: 999999}); !utils.IsNotFound(err) {
		t.Fatalf("job for missing report: got %v, want not-found", err)
	}

	orphan, err := models.CreateReportModifier(ctx, &models.NewReportModifier{})
	if err != nil {
		t.Fatalf("CreateReportModifier orphan: %v", err)
	}
	_, err = models.CreateJob(ctx, &models.NewJob{
		ReportID: report.ID, ReportModifierID: &orphan.ID,
	})
	if !utils.IsValidationError(err) {
		t.Fatalf("job with unlinked modifier: got %v, want validation error", err)
	}
	var jobCount int64
	if err := db.Model(&models.Job{}).Count(&jobCount).Error; err != nil {
		t.Fatalf("count jobs: %v", err)
	}
	if jobCount != 0 {
		t.Fatalf("partial job write persisted: count=%d", jobCount)
	}

	job, err := models.CreateJob(ctx, &models.NewJob{
		ReportID: report.ID, ReportModifierID: &modifier.ID,
	})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.Status != models.JobStatusPending {
		t.Fatalf("job default status: got %s, want PENDING", job.Status)
	}
	updated, err := models.UpdateJobStatus(ctx, job.ID, &models.JobStatusUpdate{Status: models.JobStatusRunning})
	if err != nil {
		t.Fatalf("UpdateJobStatus: %v", err)
	}
	if updated.Status != models.JobStatusRunning {
		t.Fatalf("job status after patch: got %s, want RUNNING", updated.Status)
	}
	if _, err := models.UpdateJobStatus(ctx, job.ID, &models.JobStatusUpdate{Status: models.JobStatus("DONE")}); !utils.IsValidationError(err) {
		t.Fatalf("bogus job status: got %v, want validation error", err)
	}

	// 7) Pagination: out-of-range pages error instead of clamping.
	if _, err := models.ListReports(ctx, 99, 10); !utils.IsValidationError(err) {
		t.Fatalf("out-of-range page: got %v, want validation error", err)
	}
	page, err := models.ListJobs(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if page.Total != 1 || page.TotalPages != 1 || len(page.Items) != 1 {
		t.Fatalf("job page: total=%d totalPages=%d items=%d", page.Total, page.TotalPages, len(page.Items))
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("reporting-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("reporting-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=reporting_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
