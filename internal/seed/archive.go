package seed

import (
	"context"
	"fmt"
	"time"

	"campusrun/internal/store"
	"campusrun/pkg/types"
)

// One finished delivery so the demo stats pages are not empty.
var demoArchived = []*types.ArchivedRequest{
	{
		ID:                "bbbbbbbb-1111-1111-1111-111111111111",
		OriginalRequestID: "aaaaaaaa-9999-9999-9999-999999999999",
		Item:              "Bubble tea",
		PickupLocation:    "Tea Stand, Student Union",
		DropoffLocation:   "South Dorm lobby",
		Status:            types.RequestStatusCompleted,
		RequesterID:       demoUsers[3].ID,
		HelperID:          demoUsers[0].ID,
		ReceiverConfirm:   types.ReceiverReceived,
	},
}

func SeedDemoArchive(ctx context.Context, archiveRepo *store.ArchiveRepository) error {
	for _, demo := range demoArchived {
		existing, err := archiveRepo.ByRequester(ctx, demo.RequesterID)
		if err != nil {
			return fmt.Errorf("failed to check demo archive: %w", err)
		}

		seeded := false
		for _, archived := range existing {
			if archived.ID == demo.ID {
				seeded = true
				break
			}
		}
		if seeded {
			continue
		}

		demo.CreatedAt = time.Now().Add(-48 * time.Hour)
		demo.CompletedAt = time.Now().Add(-24 * time.Hour)

		if err := archiveRepo.Insert(ctx, demo); err != nil {
			return fmt.Errorf("failed to insert demo archived request %s: %w", demo.ID, err)
		}
	}

	return nil
}
