package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gardenlore/internal/mailer"
	"gardenlore/internal/model"
	"gardenlore/internal/mq"
	"gardenlore/internal/service/schedule"
	"gardenlore/pkg/metrics"
	"gardenlore/pkg/util"

	"go.uber.org/zap"
)

// ProfileStore lists the users worth visiting this run.
type ProfileStore interface {
	ListReminderCandidates(ctx context.Context) ([]*model.GrowingProfile, error)
}

// LogStore is the reminder log: the persistent record of what was already
// sent, and the atomic insert that makes repeated runs idempotent.
type LogStore interface {
	ListForUserYear(ctx context.Context, userID int64, year int) ([]*model.PlantingReminderLogEntry, error)
	InsertIfAbsent(ctx context.Context, entry *model.PlantingReminderLogEntry) (bool, error)
}

// EventPublisher publishes batch outcome events. Publishing is best effort;
// the log table, not the queue, is the source of truth.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// Result is the per-run summary returned to the invoking scheduler.
type Result struct {
	Sent    int
	Failed  int
	Skipped int
	Errors  []string
}

type outcome struct {
	kind string // sent, failed, skipped
	err  string
}

// Runner orchestrates one batch run: per user, resolve the frost anchor,
// aggregate toggle-filtered events, window-match, dedupe against the log,
// send one consolidated email, then write the log rows.
type Runner struct {
	profiles   ProfileStore
	logStore   LogStore
	resolver   *schedule.FrostDateResolver
	aggregator *schedule.Aggregator
	mail       mailer.Mailer
	publisher  EventPublisher // may be nil
	lock       *RunLock       // may be nil
	workers    int
	logger     *zap.Logger
}

func NewRunner(
	profiles ProfileStore,
	logStore LogStore,
	resolver *schedule.FrostDateResolver,
	aggregator *schedule.Aggregator,
	mail mailer.Mailer,
	publisher EventPublisher,
	lock *RunLock,
	workers int,
	logger *zap.Logger,
) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		profiles:   profiles,
		logStore:   logStore,
		resolver:   resolver,
		aggregator: aggregator,
		mail:       mail,
		publisher:  publisher,
		lock:       lock,
		workers:    workers,
		logger:     logger,
	}
}

// Run executes one full batch for the injected "now". Users are independent;
// they are fanned out over a bounded worker pool with no shared mutable
// state beyond the log table's atomic insert.
func (r *Runner) Run(ctx context.Context, now time.Time) Result {
	if r.lock != nil {
		if !r.lock.Acquire(ctx) {
			r.logger.Info("Another reminder run is in flight, skipping")
			return Result{}
		}
		defer r.lock.Release(ctx)
	}

	start := time.Now()
	defer func() {
		metrics.RecordRunDuration(time.Since(start))
	}()

	profiles, err := r.profiles.ListReminderCandidates(ctx)
	if err != nil {
		r.logger.Error("Failed to list reminder candidates", zap.Error(err))
		return Result{Errors: []string{fmt.Sprintf("list candidates: %v", err)}}
	}

	r.logger.Info("Starting reminder run",
		zap.Time("now", now),
		zap.Int("candidates", len(profiles)),
		zap.Int("workers", r.workers),
	)

	jobs := make(chan *model.GrowingProfile)
	outcomes := make(chan outcome, len(profiles))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for profile := range jobs {
				outcomes <- r.processUser(ctx, profile, now)
			}
		}()
	}

	for _, p := range profiles {
		jobs <- p
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	var result Result
	for o := range outcomes {
		switch o.kind {
		case "sent":
			result.Sent++
		case "failed":
			result.Failed++
		case "skipped":
			result.Skipped++
		}
		if o.err != "" {
			result.Errors = append(result.Errors, o.err)
		}
		metrics.IncrementUsersProcessed(o.kind)
	}

	r.logger.Info("Reminder run completed",
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}

func (r *Runner) processUser(ctx context.Context, profile *model.GrowingProfile, now time.Time) outcome {
	year := now.Year()

	lastFrost, ok, err := r.resolver.Resolve(ctx, profile, year)
	if err != nil {
		return outcome{kind: "failed", err: fmt.Sprintf("user %d: resolve frost date: %v", profile.UserID, err)}
	}
	if !ok {
		// No frost anchor configured. Not an error, nothing to derive.
		r.logger.Debug("No frost date derivable, skipping user", zap.Int64("user_id", profile.UserID))
		return outcome{kind: "skipped"}
	}

	opts := r.optionsFor(profile)
	events, err := r.aggregator.Aggregate(ctx, profile.UserID, lastFrost, opts)
	if err != nil {
		return outcome{kind: "failed", err: fmt.Sprintf("user %d: aggregate: %v", profile.UserID, err)}
	}

	due := schedule.MatchWindow(events, now, profile.LeadDays())

	logged, err := r.logStore.ListForUserYear(ctx, profile.UserID, year)
	if err != nil {
		return outcome{kind: "failed", err: fmt.Sprintf("user %d: read reminder log: %v", profile.UserID, err)}
	}
	candidates := schedule.FilterNew(due, logged)

	if len(candidates) == 0 {
		return outcome{kind: "skipped"}
	}

	groups := GroupByType(candidates)

	var firstFall *time.Time
	if fall, ok, err := r.resolver.ResolveFirstFall(ctx, profile, year); err == nil && ok {
		firstFall = &fall
	}

	msg := ComposeMessage(profile.Email, groups, now, firstFall)
	if err := r.mail.Send(ctx, msg); err != nil {
		// No log rows on transport failure: the same candidates retry on
		// the next scheduled run.
		r.publish(mq.RoutingKeyReminderFailed, mq.ReminderFailedPayload{
			UserID:   profile.UserID,
			Error:    err.Error(),
			FailedAt: time.Now(),
		})
		return outcome{kind: "failed", err: fmt.Sprintf("user %d: send mail: %v", profile.UserID, err)}
	}
	metrics.ReminderEmailsSent.Inc()

	logErr := r.writeLogRows(ctx, profile.UserID, year, candidates)

	types := make([]string, 0, len(groups))
	for stage := range groups {
		types = append(types, string(stage))
	}
	r.publish(mq.RoutingKeyReminderSent, mq.ReminderSentPayload{
		UserID:        profile.UserID,
		ReminderTypes: types,
		PlantCount:    len(candidates),
		SentAt:        time.Now(),
	})

	if logErr != nil {
		// The email went out but the log write failed, so the next run may
		// send a duplicate. Favoring a duplicate over a missed reminder is
		// the documented trade-off.
		r.logger.Error("Log write failed after successful send",
			zap.Int64("user_id", profile.UserID),
			zap.Error(logErr),
		)
		return outcome{kind: "sent", err: fmt.Sprintf("user %d: log write after send: %v", profile.UserID, logErr)}
	}
	return outcome{kind: "sent"}
}

// optionsFor maps the profile's toggle scopes onto aggregation options.
// Global and per-item toggles are mutually exclusive: per-seed flags apply
// only when every global toggle is off.
func (r *Runner) optionsFor(profile *model.GrowingProfile) schedule.Options {
	if profile.AnyGlobalToggle() {
		stages := schedule.StageSet{}
		if profile.EnableIndoorStartReminders {
			stages[model.StageIndoorStart] = true
		}
		if profile.EnableDirectSowReminders {
			stages[model.StageDirectSow] = true
		}
		if profile.EnableTransplantReminders {
			stages[model.StageTransplant] = true
		}
		return schedule.Options{Stages: stages}
	}
	return schedule.Options{PerItemToggles: true}
}

// writeLogRows inserts one row per unique (reminder type, target date) pair
// that the consolidated email covered. A row that already exists was written
// by a concurrent run and is a harmless no-op.
func (r *Runner) writeLogRows(ctx context.Context, userID int64, year int, candidates []model.PlantingEvent) error {
	byKey := make(map[string][]model.PlantingEvent)
	var order []string
	for _, c := range candidates {
		key := c.DedupKey()
		if _, exists := byKey[key]; !exists {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], c)
	}

	var firstErr error
	for _, key := range order {
		bucket := byKey[key]
		entry := &model.PlantingReminderLogEntry{
			UserID:       userID,
			ReminderType: bucket[0].Stage,
			TargetDate:   bucket[0].Date,
			Year:         year,
			PlantNames:   plantNamesSnapshot(bucket),
		}
		inserted, err := r.logStore.InsertIfAbsent(ctx, entry)
		if err != nil {
			// A unique-constraint violation surfacing as an error means a
			// concurrent run inserted the row through a path the ON CONFLICT
			// clause did not cover. Same benign outcome as inserted=false.
			if util.IsDuplicateKeyError(err) {
				r.logger.Debug("Reminder already logged by a concurrent run",
					zap.Int64("user_id", userID),
					zap.String("key", key),
				)
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !inserted {
			r.logger.Debug("Reminder already logged by a concurrent run",
				zap.Int64("user_id", userID),
				zap.String("key", key),
			)
		}
	}
	return firstErr
}

func (r *Runner) publish(routingKey string, payload any) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(routingKey, payload); err != nil {
		r.logger.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
