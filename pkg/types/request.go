package types

import "time"

type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCompleted RequestStatus = "completed"
)

var allowedRequestStatuses = [...]RequestStatus{
	RequestStatusOpen, RequestStatusAccepted, RequestStatusCompleted,
}

// Valid checks if the RequestStatus is one of the known states.
func (s RequestStatus) Valid() bool {
	for _, v := range allowedRequestStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type ReceiverConfirmation string

const (
	ReceiverPending     ReceiverConfirmation = "pending"
	ReceiverReceived    ReceiverConfirmation = "received"
	ReceiverNotReceived ReceiverConfirmation = "not_received"
)

// MaxItemLength caps the item field on a delivery request.
const MaxItemLength = 50

// DeliveryRequest is a live delivery task posted by a requester. A row
// leaves this table either by requester deletion or by archival on the
// final received confirmation.
type DeliveryRequest struct {
	ID               string               `db:"id" json:"id"`
	Item             string               `db:"item" json:"item"`
	PickupLocation   string               `db:"pickup_location" json:"pickupLocation"`
	DropoffLocation  string               `db:"dropoff_location" json:"dropoffLocation"`
	PickupLat        *float64             `db:"pickup_lat" json:"pickupLat,omitempty"`
	PickupLng        *float64             `db:"pickup_lng" json:"pickupLng,omitempty"`
	DropoffLat       *float64             `db:"dropoff_lat" json:"dropoffLat,omitempty"`
	DropoffLng       *float64             `db:"dropoff_lng" json:"dropoffLng,omitempty"`
	Status           RequestStatus        `db:"status" json:"status"`
	RequesterID      string               `db:"requester_id" json:"requesterId"`
	HelperID         *string              `db:"helper_id" json:"helperId,omitempty"`
	DeliveryPhotoURL *string              `db:"delivery_photo_url" json:"deliveryPhotoUrl,omitempty"`
	ReceiverConfirm  ReceiverConfirmation `db:"receiver_confirmed" json:"receiverConfirmed"`
	NotReceivedCount int                  `db:"not_received_count" json:"notReceivedCount"`
	CreatedAt        time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time            `db:"updated_at" json:"updatedAt"`
}

// ArchivedRequest is the immutable snapshot written once when a request
// reaches the confirmed-received terminal state.
type ArchivedRequest struct {
	ID                string               `db:"id" json:"id"`
	OriginalRequestID string               `db:"original_request_id" json:"originalRequestId"`
	Item              string               `db:"item" json:"item"`
	PickupLocation    string               `db:"pickup_location" json:"pickupLocation"`
	DropoffLocation   string               `db:"dropoff_location" json:"dropoffLocation"`
	PickupLat         *float64             `db:"pickup_lat" json:"pickupLat,omitempty"`
	PickupLng         *float64             `db:"pickup_lng" json:"pickupLng,omitempty"`
	DropoffLat        *float64             `db:"dropoff_lat" json:"dropoffLat,omitempty"`
	DropoffLng        *float64             `db:"dropoff_lng" json:"dropoffLng,omitempty"`
	Status            RequestStatus        `db:"status" json:"status"`
	RequesterID       string               `db:"requester_id" json:"requesterId"`
	HelperID          string               `db:"helper_id" json:"helperId"`
	DeliveryPhotoURL  *string              `db:"delivery_photo_url" json:"deliveryPhotoUrl,omitempty"`
	ReceiverConfirm   ReceiverConfirmation `db:"receiver_confirmed" json:"receiverConfirmed"`
	NotReceivedCount  int                  `db:"not_received_count" json:"notReceivedCount"`
	CreatedAt         time.Time            `db:"created_at" json:"createdAt"`
	CompletedAt       time.Time            `db:"completed_at" json:"completedAt"`
}

// RequestFilter narrows list queries. Zero values mean no filtering.
type RequestFilter struct {
	Status RequestStatus `form:"status"`
	UserID string        `form:"-"`
	Mine   bool          `form:"mine"`
}
