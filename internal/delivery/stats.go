package delivery

import (
	"context"
	"sort"
	"time"

	"campusrun/pkg/types"
)

const activityWindowDays = 14

// Aggregator derives per-user statistics and the trailing activity
// histogram from the live table and the archive. Pure read side:
// computed on demand, never cached, never mutates anything.
type Aggregator struct {
	live    liveReader
	archive archiveReader
	now     func() time.Time
}

func NewAggregator(live liveReader, archive archiveReader) *Aggregator {
	return &Aggregator{
		live:    live,
		archive: archive,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// UserStats assembles the full statistics payload for one user.
func (a *Aggregator) UserStats(ctx context.Context, userID string) (*types.UserStats, error) {

	liveAsRequester, err := a.live.RequestsByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}

	liveAsHelper, err := a.live.RequestsByHelper(ctx, userID)
	if err != nil {
		return nil, err
	}

	archivedAsRequester, err := a.archive.ByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}

	archivedAsHelper, err := a.archive.ByHelper(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &types.UserStats{
		UserID:              userID,
		DeliveriesCompleted: len(archivedAsHelper),
		RequestsMade:        len(liveAsRequester),
		RequestsCompleted:   len(archivedAsRequester),
		RequestsReceived:    len(archivedAsRequester),
	}

	for _, req := range liveAsRequester {
		if req.Status == types.RequestStatusOpen {
			stats.ActiveRequests++
		}
		stats.RequestsNotReceived += req.NotReceivedCount
	}

	// Archived snapshots carry the counter of failed attempts the
	// request accumulated before it finally landed.
	for _, archived := range archivedAsRequester {
		stats.RequestsNotReceived += archived.NotReceivedCount
	}

	stats.Activity = a.activityHistogram(archivedAsHelper, archivedAsRequester)
	stats.AsRequester = mergeFeed(liveAsRequester, archivedAsRequester)
	stats.AsHelper = mergeFeed(liveAsHelper, archivedAsHelper)

	return stats, nil
}

// activityHistogram buckets archived work into the trailing 14 UTC
// calendar days, today included, oldest day first.
func (a *Aggregator) activityHistogram(asHelper, asRequester []*types.ArchivedRequest) []types.DayActivity {

	today := a.now().Truncate(24 * time.Hour)

	days := make([]types.DayActivity, activityWindowDays)
	index := make(map[string]int, activityWindowDays)

	for i := 0; i < activityWindowDays; i++ {
		day := today.AddDate(0, 0, i-activityWindowDays+1)
		key := day.Format("2006-01-02")
		days[i] = types.DayActivity{Date: key}
		index[key] = i
	}

	for _, archived := range asHelper {
		if i, ok := index[archived.CompletedAt.UTC().Format("2006-01-02")]; ok {
			days[i].Deliveries++
		}
	}

	for _, archived := range asRequester {
		if i, ok := index[archived.CompletedAt.UTC().Format("2006-01-02")]; ok {
			days[i].Requests++
		}
	}

	return days
}

// mergeFeed folds live and archived rows into one newest-first list for
// activity feed rendering.
func mergeFeed(live []*types.DeliveryRequest, archived []*types.ArchivedRequest) []types.ActivityRecord {

	records := make([]types.ActivityRecord, 0, len(live)+len(archived))

	for _, req := range live {
		records = append(records, types.ActivityRecord{
			RequestID:        req.ID,
			Item:             req.Item,
			PickupLocation:   req.PickupLocation,
			DropoffLocation:  req.DropoffLocation,
			Status:           req.Status,
			ReceiverConfirm:  req.ReceiverConfirm,
			DeliveryPhotoURL: req.DeliveryPhotoURL,
			Timestamp:        req.UpdatedAt,
		})
	}

	for _, ar := range archived {
		records = append(records, types.ActivityRecord{
			RequestID:        ar.OriginalRequestID,
			Item:             ar.Item,
			PickupLocation:   ar.PickupLocation,
			DropoffLocation:  ar.DropoffLocation,
			Status:           ar.Status,
			ReceiverConfirm:  ar.ReceiverConfirm,
			DeliveryPhotoURL: ar.DeliveryPhotoURL,
			Archived:         true,
			Timestamp:        ar.CompletedAt,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	return records
}
