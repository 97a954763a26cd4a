package types

import "time"

// DayActivity is one bucket of the trailing 14-day histogram. Date is a
// UTC calendar day formatted YYYY-MM-DD.
type DayActivity struct {
	Date       string `json:"date"`
	Deliveries int    `json:"deliveries"`
	Requests   int    `json:"requests"`
}

// ActivityRecord is a feed entry derived from either a live or an
// archived request.
type ActivityRecord struct {
	RequestID        string               `json:"requestId"`
	Item             string               `json:"item"`
	PickupLocation   string               `json:"pickupLocation"`
	DropoffLocation  string               `json:"dropoffLocation"`
	Status           RequestStatus        `json:"status"`
	ReceiverConfirm  ReceiverConfirmation `json:"receiverConfirmed"`
	DeliveryPhotoURL *string              `json:"deliveryPhotoUrl,omitempty"`
	Archived         bool                 `json:"archived"`
	Timestamp        time.Time            `json:"timestamp"`
}

// UserStats is the aggregator output for a single user.
type UserStats struct {
	UserID              string           `json:"userId"`
	DeliveriesCompleted int              `json:"deliveriesCompleted"`
	RequestsMade        int              `json:"requestsMade"`
	ActiveRequests      int              `json:"activeRequests"`
	RequestsCompleted   int              `json:"requestsCompleted"`
	RequestsReceived    int              `json:"requestsReceived"`
	RequestsNotReceived int              `json:"requestsNotReceived"`
	Activity            []DayActivity    `json:"activity"`
	AsRequester         []ActivityRecord `json:"asRequester"`
	AsHelper            []ActivityRecord `json:"asHelper"`
}
