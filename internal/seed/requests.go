package seed

import (
	"context"
	"errors"
	"fmt"

	"campusrun/internal/store"
	"campusrun/internal/utils"
	"campusrun/pkg/types"
)

type demoRequestSeed struct {
	ID          string
	RequesterID string
	Item        string
	Pickup      string
	Dropoff     string
	PickupLat   float64
	PickupLng   float64
	DropoffLat  float64
	DropoffLng  float64
}

var demoRequests = []demoRequestSeed{
	{
		ID:          "aaaaaaaa-1111-1111-1111-111111111111",
		RequesterID: demoUsers[0].ID,
		Item:        "Iced latte",
		Pickup:      "Campus Coffee House",
		Dropoff:     "Engineering Library, 2nd floor",
		PickupLat:   40.4433, PickupLng: -79.9436,
		DropoffLat: 40.4412, DropoffLng: -79.9459,
	},
	{
		ID:          "aaaaaaaa-2222-2222-2222-222222222222",
		RequesterID: demoUsers[1].ID,
		Item:        "Printed lab report",
		Pickup:      "Print Center, Student Union",
		Dropoff:     "Chemistry Building, Room 104",
		PickupLat:   40.4442, PickupLng: -79.9421,
		DropoffLat: 40.4456, DropoffLng: -79.9445,
	},
	{
		ID:          "aaaaaaaa-3333-3333-3333-333333333333",
		RequesterID: demoUsers[2].ID,
		Item:        "Phone charger",
		Pickup:      "North Dorm, front desk",
		Dropoff:     "Main Quad, near fountain",
		PickupLat:   40.4471, PickupLng: -79.9402,
		DropoffLat: 40.4428, DropoffLng: -79.9430,
	},
}

func SeedDemoRequests(ctx context.Context, requestRepo *store.RequestRepository) error {
	for _, demoRequest := range demoRequests {
		_, err := requestRepo.Request(ctx, demoRequest.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrRequestNotFound) {
			return fmt.Errorf("failed to fetch demo request %s: %w", demoRequest.ID, err)
		}

		newRequest := &types.DeliveryRequest{
			ID:              demoRequest.ID,
			Item:            demoRequest.Item,
			PickupLocation:  demoRequest.Pickup,
			DropoffLocation: demoRequest.Dropoff,
			PickupLat:       utils.Float64Ptr(demoRequest.PickupLat),
			PickupLng:       utils.Float64Ptr(demoRequest.PickupLng),
			DropoffLat:      utils.Float64Ptr(demoRequest.DropoffLat),
			DropoffLng:      utils.Float64Ptr(demoRequest.DropoffLng),
			Status:          types.RequestStatusOpen,
			RequesterID:     demoRequest.RequesterID,
			ReceiverConfirm: types.ReceiverPending,
		}

		if err := requestRepo.Create(ctx, newRequest); err != nil {
			return fmt.Errorf("failed to create demo request %s: %w", demoRequest.ID, err)
		}
	}

	return nil
}
