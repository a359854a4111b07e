package reminder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gardenlore/internal/mailer"
	"gardenlore/internal/model"
	"gardenlore/internal/mq"
	"gardenlore/internal/service/schedule"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type fakeProfiles struct {
	profiles []*model.GrowingProfile
}

func (f *fakeProfiles) ListReminderCandidates(_ context.Context) ([]*model.GrowingProfile, error) {
	return f.profiles, nil
}

// fakeLogStore enforces the same (user, type, date) uniqueness the real
// table does, so InsertIfAbsent behaves like ON CONFLICT DO NOTHING.
type fakeLogStore struct {
	mu        sync.Mutex
	entries   []*model.PlantingReminderLogEntry
	insertErr error
}

func (f *fakeLogStore) ListForUserYear(_ context.Context, userID int64, year int) ([]*model.PlantingReminderLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.PlantingReminderLogEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.Year == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLogStore) InsertIfAbsent(_ context.Context, entry *model.PlantingReminderLogEntry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return false, f.insertErr
	}
	for _, e := range f.entries {
		if e.UserID == entry.UserID && e.ReminderType == entry.ReminderType && e.TargetDate.Equal(entry.TargetDate) {
			return false, nil
		}
	}
	f.entries = append(f.entries, entry)
	return true, nil
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []mailer.Message
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) messages() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (f *fakePublisher) Publish(routingKey string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, routingKey)
	return nil
}

func (f *fakePublisher) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type fakeZones struct {
	zones map[string]*model.HardinessZoneInfo
}

func (f *fakeZones) GetByZone(_ context.Context, zone string) (*model.HardinessZoneInfo, error) {
	return f.zones[zone], nil
}

type fakeInventory struct {
	byUser map[int64][]*model.SeedInventoryItem
}

func (f *fakeInventory) ListActiveByUser(_ context.Context, userID int64) ([]*model.SeedInventoryItem, error) {
	return f.byUser[userID], nil
}

type fakeWishlist struct {
	byUser map[int64][]*model.WishlistItem
}

func (f *fakeWishlist) ListUnpurchasedByUser(_ context.Context, userID int64) ([]*model.WishlistItem, error) {
	return f.byUser[userID], nil
}

type emptyGuides struct{}

func (emptyGuides) ListByCategory(_ context.Context, _ string) ([]*model.PlantGuide, error) {
	return nil, nil
}

type runnerFixture struct {
	profiles  *fakeProfiles
	logStore  *fakeLogStore
	mail      *fakeMailer
	publisher *fakePublisher
	inventory *fakeInventory
	wishlist  *fakeWishlist
	runner    *Runner
}

func newRunnerFixture(profiles ...*model.GrowingProfile) *runnerFixture {
	f := &runnerFixture{
		profiles:  &fakeProfiles{profiles: profiles},
		logStore:  &fakeLogStore{},
		mail:      &fakeMailer{},
		publisher: &fakePublisher{},
		inventory: &fakeInventory{byUser: make(map[int64][]*model.SeedInventoryItem)},
		wishlist:  &fakeWishlist{byUser: make(map[int64][]*model.WishlistItem)},
	}
	resolver := schedule.NewFrostDateResolver(&fakeZones{
		zones: map[string]*model.HardinessZoneInfo{
			"7a": {Zone: "7a", LastFrostSpring: "Apr 15", FirstFrostFall: "Oct 29"},
		},
	})
	aggregator := schedule.NewAggregator(emptyGuides{}, f.inventory, f.wishlist)
	f.runner = NewRunner(f.profiles, f.logStore, resolver, aggregator, f.mail, f.publisher, nil, 2, zap.NewNop())
	return f
}

func zoneProfile(userID int64, email string) *model.GrowingProfile {
	zone := "7a"
	return &model.GrowingProfile{
		UserID:        userID,
		Email:         email,
		HardinessZone: &zone,
	}
}

// Apr 10 2025: a direct-sow date of Apr 15 (zone 7a, offset 0) sits inside
// the default 7-day window.
var runNow = time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC)

func seedDueAtFrost(userID int64, name string) *model.SeedInventoryItem {
	weeks := 0
	return &model.SeedInventoryItem{
		UserID:        userID,
		PlantName:     name,
		CustomOffsets: model.ScheduleOffsets{OutdoorStartWeeks: &weeks},
	}
}

func TestRunSendsOnceAndIsIdempotent(t *testing.T) {
	profile := zoneProfile(1, "grower@example.com")
	profile.EnableDirectSowReminders = true
	f := newRunnerFixture(profile)
	f.inventory.byUser[1] = []*model.SeedInventoryItem{seedDueAtFrost(1, "Carrot")}

	result := f.runner.Run(context.Background(), runNow)
	if result.Sent != 1 || result.Failed != 0 {
		t.Fatalf("first run: %+v, want 1 sent", result)
	}
	if got := len(f.mail.messages()); got != 1 {
		t.Fatalf("first run sent %d emails, want 1", got)
	}
	if got := len(f.logStore.entries); got != 1 {
		t.Fatalf("first run wrote %d log rows, want 1", got)
	}

	// Same run again: everything already logged, nothing goes out.
	result = f.runner.Run(context.Background(), runNow)
	if result.Sent != 0 || result.Skipped != 1 {
		t.Fatalf("second run: %+v, want 1 skipped", result)
	}
	if got := len(f.mail.messages()); got != 1 {
		t.Fatalf("second run sent more email, total %d, want 1", got)
	}
	if got := len(f.logStore.entries); got != 1 {
		t.Fatalf("second run wrote more log rows, total %d, want 1", got)
	}
}

func TestRunTransportFailureRetriesNextRun(t *testing.T) {
	profile := zoneProfile(1, "grower@example.com")
	profile.EnableDirectSowReminders = true
	f := newRunnerFixture(profile)
	f.inventory.byUser[1] = []*model.SeedInventoryItem{seedDueAtFrost(1, "Carrot")}
	f.mail.sendErr = errors.New("smtp: connection refused")

	result := f.runner.Run(context.Background(), runNow)
	if result.Failed != 1 || result.Sent != 0 {
		t.Fatalf("failing run: %+v, want 1 failed", result)
	}
	if got := len(f.logStore.entries); got != 0 {
		t.Fatalf("failing run wrote %d log rows, want 0", got)
	}
	if keys := f.publisher.published(); len(keys) != 1 || keys[0] != mq.RoutingKeyReminderFailed {
		t.Fatalf("published %v, want only a failure event", keys)
	}

	// Transport recovers; the same candidates go out on the next run.
	f.mail.sendErr = nil
	result = f.runner.Run(context.Background(), runNow)
	if result.Sent != 1 {
		t.Fatalf("recovery run: %+v, want 1 sent", result)
	}
	if got := len(f.logStore.entries); got != 1 {
		t.Fatalf("recovery run wrote %d log rows, want 1", got)
	}
}

func TestRunPerItemToggles(t *testing.T) {
	// All global toggles off: only seeds with their own flags participate.
	profile := zoneProfile(1, "grower@example.com")
	f := newRunnerFixture(profile)

	toggled := seedDueAtFrost(1, "Pepper")
	toggled.Toggles = model.ReminderToggles{DirectSow: true}
	untoggled := seedDueAtFrost(1, "Cucumber")
	f.inventory.byUser[1] = []*model.SeedInventoryItem{toggled, untoggled}

	result := f.runner.Run(context.Background(), runNow)
	if result.Sent != 1 {
		t.Fatalf("run: %+v, want 1 sent", result)
	}
	msgs := f.mail.messages()
	if len(msgs) != 1 {
		t.Fatalf("sent %d emails, want exactly 1", len(msgs))
	}
	if !strings.Contains(msgs[0].Body, "Pepper") {
		t.Errorf("email body omits the toggled plant:\n%s", msgs[0].Body)
	}
	if strings.Contains(msgs[0].Body, "Cucumber") {
		t.Errorf("email body includes a plant with no toggle:\n%s", msgs[0].Body)
	}
}

func TestRunCollapsesSameTypeAndDateToOneLogRow(t *testing.T) {
	profile := zoneProfile(1, "grower@example.com")
	profile.EnableDirectSowReminders = true
	f := newRunnerFixture(profile)
	f.inventory.byUser[1] = []*model.SeedInventoryItem{
		seedDueAtFrost(1, "Carrot"),
		seedDueAtFrost(1, "Radish"),
	}

	result := f.runner.Run(context.Background(), runNow)
	if result.Sent != 1 {
		t.Fatalf("run: %+v, want 1 sent", result)
	}
	if got := len(f.logStore.entries); got != 1 {
		t.Fatalf("wrote %d log rows, want 1 for a shared (type, date)", got)
	}
	entry := f.logStore.entries[0]
	if entry.PlantNames != "Carrot, Radish" {
		t.Errorf("PlantNames = %q, want both plants in the snapshot", entry.PlantNames)
	}

	msgs := f.mail.messages()
	if len(msgs) != 1 {
		t.Fatalf("sent %d emails, want 1 consolidated one", len(msgs))
	}
	for _, name := range []string{"Carrot", "Radish"} {
		if !strings.Contains(msgs[0].Body, name) {
			t.Errorf("email body omits %s:\n%s", name, msgs[0].Body)
		}
	}
}

func TestRunSkipsUserWithoutFrostAnchor(t *testing.T) {
	profile := &model.GrowingProfile{
		UserID:                   1,
		Email:                    "nowhere@example.com",
		EnableDirectSowReminders: true,
	}
	f := newRunnerFixture(profile)
	f.inventory.byUser[1] = []*model.SeedInventoryItem{seedDueAtFrost(1, "Carrot")}

	result := f.runner.Run(context.Background(), runNow)
	if result.Skipped != 1 || result.Sent != 0 {
		t.Fatalf("run: %+v, want 1 skipped", result)
	}
	if got := len(f.mail.messages()); got != 0 {
		t.Fatalf("sent %d emails, want 0", got)
	}
}

func TestRunOverrideDateBeatsZone(t *testing.T) {
	// The explicit override (Mar 20) moves the due date out of the window
	// that the zone date (Apr 15) would have matched.
	override := time.Date(2019, time.March, 20, 0, 0, 0, 0, time.UTC)
	profile := zoneProfile(1, "grower@example.com")
	profile.LastFrostDate = &override
	profile.EnableDirectSowReminders = true
	f := newRunnerFixture(profile)
	f.inventory.byUser[1] = []*model.SeedInventoryItem{seedDueAtFrost(1, "Carrot")}

	result := f.runner.Run(context.Background(), runNow)
	if result.Skipped != 1 || result.Sent != 0 {
		t.Fatalf("run: %+v, want skip because the override date already passed", result)
	}
}

func TestRunDuplicateKeyOnLogWriteIsBenign(t *testing.T) {
	// A concurrent run winning the insert race surfaces as a 23505 unique
	// violation; that is "already sent", not a log-write failure.
	profile := zoneProfile(1, "grower@example.com")
	profile.EnableDirectSowReminders = true
	f := newRunnerFixture(profile)
	f.inventory.byUser[1] = []*model.SeedInventoryItem{seedDueAtFrost(1, "Carrot")}
	f.logStore.insertErr = &pgconn.PgError{Code: "23505", ConstraintName: "planting_reminder_log_key"}

	result := f.runner.Run(context.Background(), runNow)
	if result.Sent != 1 {
		t.Fatalf("run: %+v, want 1 sent", result)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("errors = %v, want none for a duplicate-key race", result.Errors)
	}
}

func TestRunLogWriteFailureStillCountsAsSent(t *testing.T) {
	profile := zoneProfile(1, "grower@example.com")
	profile.EnableDirectSowReminders = true
	f := newRunnerFixture(profile)
	f.inventory.byUser[1] = []*model.SeedInventoryItem{seedDueAtFrost(1, "Carrot")}
	f.logStore.insertErr = errors.New("pq: connection reset")

	result := f.runner.Run(context.Background(), runNow)
	if result.Sent != 1 {
		t.Fatalf("run: %+v, want sent despite log failure", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "log write after send") {
		t.Fatalf("errors = %v, want the log-write failure surfaced", result.Errors)
	}
	if got := len(f.mail.messages()); got != 1 {
		t.Fatalf("sent %d emails, want 1", got)
	}
}
