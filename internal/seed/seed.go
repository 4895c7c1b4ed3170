// Package seed fills an empty database with demo queues.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"

	"queuewise/internal/models"
	"queuewise/internal/storage"
	"queuewise/internal/trace"
)

type store interface {
	storage.Store
	Reset(ctx context.Context) error
}

type demoEntry struct {
	name   string
	status models.EntryStatus
	ago    time.Duration
}

type demoQueue struct {
	name    string
	status  models.QueueStatus
	entries []demoEntry
}

const (
	waiting = models.EntryWaiting
	served  = models.EntryServed
	skipped = models.EntrySkipped
)

var demoQueues = []demoQueue{
	{"Costco Pharmacy Pickup", models.QueuePaused, []demoEntry{
		{"Ella Murphy", served, 51 * time.Hour},
		{"Logan Hughes", served, 50 * time.Hour},
		{"Aria Jenkins", skipped, 49 * time.Hour},
		{"Mason Powell", waiting, 48 * time.Hour},
	}},
	{"University Library Book Returns", models.QueuePaused, []demoEntry{
		{"Lucas Foster", served, 29 * time.Hour},
		{"Mia Stewart", served, 28 * time.Hour},
		{"Jack Turner", waiting, 26 * time.Hour},
	}},
	{"DMV License Renewal", models.QueueActive, []demoEntry{
		{"Michael Thompson", served, 3 * time.Hour},
		{"Sarah Williams", served, 165 * time.Minute},
		{"Carlos Gutierrez", skipped, 150 * time.Minute},
		{"Jennifer Lee", served, 2 * time.Hour},
		{"Anthony Davis", waiting, 90 * time.Minute},
		{"Priya Sharma", waiting, time.Hour},
		{"Kevin O'Brien", waiting, 45 * time.Minute},
		{"Rachel Martinez", waiting, 20 * time.Minute},
		{"Daniel Park", waiting, 10 * time.Minute},
	}},
	{"Apple Store Genius Bar", models.QueueActive, []demoEntry{
		{"Benjamin Clark", served, 4 * time.Hour},
		{"Isabella Moore", served, 195 * time.Minute},
		{"Alexander Wright", skipped, 165 * time.Minute},
		{"Charlotte Harris", waiting, 90 * time.Minute},
		{"Ethan Robinson", waiting, time.Hour},
		{"Amelia Young", waiting, 40 * time.Minute},
	}},
	{"City Hospital Emergency Room", models.QueueActive, []demoEntry{
		{"James Rodriguez", served, 6 * time.Hour},
		{"Maria Chen", served, 330 * time.Minute},
		{"Aisha Patel", served, 4 * time.Hour},
		{"David Kim", waiting, 2 * time.Hour},
		{"Fatima Al-Hassan", waiting, 105 * time.Minute},
		{"Robert Johnson", waiting, time.Hour},
		{"Emily Nguyen", waiting, 30 * time.Minute},
	}},
	{"Bank Teller Service", models.QueueActive, []demoEntry{
		{"Grace Phillips", served, 2 * time.Hour},
		{"Henry Campbell", served, 100 * time.Minute},
		{"Lily Morgan", waiting, time.Hour},
		{"Samuel Perez", waiting, 35 * time.Minute},
		{"Chloe Rivera", waiting, 15 * time.Minute},
	}},
	{"Coffee Shop Drive-Thru", models.QueueActive, []demoEntry{
		{"Olivia Brown", served, 25 * time.Minute},
		{"Liam Wilson", served, 20 * time.Minute},
		{"Sophia Garcia", waiting, 12 * time.Minute},
		{"Noah Anderson", waiting, 8 * time.Minute},
		{"Emma Taylor", waiting, 3 * time.Minute},
	}},
	{"Service Center Vehicle Pickup", models.QueueActive, []demoEntry{
		{"Owen Mitchell", served, 5 * time.Hour},
		{"Zoe Carter", waiting, 3 * time.Hour},
		{"William Brooks", waiting, 80 * time.Minute},
	}},
}

// Totals reports what a run created.
type Totals struct {
	Queues  int
	Entries int
	Events  int
}

// Run wipes the database and writes the demo data. Queues are created oldest
// first so the listing order matches creation order.
func Run(ctx context.Context, st store, now time.Time) (Totals, error) {
	var totals Totals
	if err := st.Reset(ctx); err != nil {
		return totals, err
	}

	err := st.Transaction(ctx, func(tx storage.Store) error {
		for _, dq := range demoQueues {
			queue, err := tx.CreateQueue(ctx, dq.name)
			if err != nil {
				return err
			}
			if dq.status == models.QueuePaused {
				if err := tx.SetQueueStatus(ctx, queue, models.QueuePaused); err != nil {
					return err
				}
			}
			totals.Queues++

			for i, de := range dq.entries {
				joinedAt := now.Add(-de.ago)
				entry := &models.QueueEntry{
					QueueID:  queue.ID,
					UserName: de.name,
					Position: i + 1,
					Status:   de.status,
					JoinedAt: joinedAt,
				}
				if err := tx.AddEntry(ctx, entry); err != nil {
					return err
				}
				totals.Entries++

				n, err := seedEvents(ctx, tx, entry)
				if err != nil {
					return err
				}
				totals.Events += n
			}
		}
		return nil
	})
	return totals, errors.Wrap(err, "seed : failed")
}

func seedEvents(ctx context.Context, tx storage.Store, entry *models.QueueEntry) (int, error) {
	type demoEvent struct {
		action string
		after  time.Duration
		detail map[string]interface{}
	}

	events := []demoEvent{{
		action: models.ActionJoin,
		detail: map[string]interface{}{"user_name": entry.UserName, "position": entry.Position},
	}}
	switch entry.Status {
	case models.EntryServed:
		events = append(events, demoEvent{models.ActionServe, 15 * time.Minute,
			map[string]interface{}{"user_name": entry.UserName, "entry_id": entry.ID}})
	case models.EntrySkipped:
		events = append(events, demoEvent{models.ActionSkip, 10 * time.Minute,
			map[string]interface{}{"user_name": entry.UserName, "entry_id": entry.ID}})
	}

	for _, de := range events {
		raw, err := detail(de.detail)
		if err != nil {
			return 0, err
		}
		event := models.QueueEvent{
			QueueID:   entry.QueueID,
			Action:    de.action,
			Result:    models.ResultSuccess,
			Detail:    raw,
			RequestID: fmt.Sprintf("seed-%s", trace.NewRequestID()[:8]),
			CreatedAt: entry.JoinedAt.Add(de.after),
		}
		if err := tx.AppendEvent(ctx, &event); err != nil {
			return 0, err
		}
	}
	return len(events), nil
}

func detail(m map[string]interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "seed : marshal event detail")
	}
	return datatypes.JSON(raw), nil
}
