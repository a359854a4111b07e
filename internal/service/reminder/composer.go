package reminder

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gardenlore/internal/mailer"
	"gardenlore/internal/model"
)

// GroupByType splits surviving candidates into the three reminder buckets
// for message composition.
func GroupByType(events []model.PlantingEvent) map[model.Stage][]model.PlantingEvent {
	groups := make(map[model.Stage][]model.PlantingEvent)
	for _, e := range events {
		groups[e.Stage] = append(groups[e.Stage], e)
	}
	return groups
}

var stageHeadings = map[model.Stage]string{
	model.StageIndoorStart: "Start seeds indoors",
	model.StageDirectSow:   "Sow directly outdoors",
	model.StageTransplant:  "Transplant outside",
}

// ComposeMessage builds the one consolidated email for a user covering all
// due reminders across all types and plants.
func ComposeMessage(to string, groups map[model.Stage][]model.PlantingEvent, now time.Time, firstFall *time.Time) mailer.Message {
	var b strings.Builder

	b.WriteString("Hello,\n\n")
	b.WriteString("Here is what your garden needs in the coming days:\n\n")

	for _, stage := range model.ReminderStages {
		bucket := groups[stage]
		if len(bucket) == 0 {
			continue
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			if !bucket[i].Date.Equal(bucket[j].Date) {
				return bucket[i].Date.Before(bucket[j].Date)
			}
			return bucket[i].PlantLabel < bucket[j].PlantLabel
		})

		fmt.Fprintf(&b, "%s:\n", stageHeadings[stage])
		for _, e := range bucket {
			label := e.PlantLabel
			if e.Variety != "" {
				label = fmt.Sprintf("%s (%s)", label, e.Variety)
			}
			fmt.Fprintf(&b, "  - %s: %s\n", label, e.Date.Format("Mon, Jan 2"))
		}
		b.WriteString("\n")
	}

	if firstFall != nil {
		fmt.Fprintf(&b, "Average first fall frost in your area: %s\n\n", firstFall.Format("Jan 2"))
	}

	b.WriteString("Happy growing!\n")

	return mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("Planting reminders for the week of %s", now.Format("Jan 2")),
		Body:    b.String(),
	}
}

// plantNamesSnapshot joins the unique plant labels of one (type, date)
// bucket for the log row.
func plantNamesSnapshot(events []model.PlantingEvent) string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range events {
		label := e.PlantLabel
		if e.Variety != "" {
			label = fmt.Sprintf("%s (%s)", label, e.Variety)
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		names = append(names, label)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
