package domain

import "strings"

// StatusBucket groups the free-form status label into the categories the
// presentation layer renders distinctly.
type StatusBucket string

const (
	// StatusBucketInTransit indicates the parcel is moving between facilities.
	StatusBucketInTransit StatusBucket = "IN_TRANSIT"
	// StatusBucketOutForDelivery indicates the parcel is on the last leg.
	StatusBucketOutForDelivery StatusBucket = "OUT_FOR_DELIVERY"
	// StatusBucketDelivered indicates the parcel reached its destination.
	StatusBucketDelivered StatusBucket = "DELIVERED"
	// StatusBucketException indicates a delivery problem or return.
	StatusBucketException StatusBucket = "EXCEPTION"
	// StatusBucketDefault is used when no other bucket matches.
	StatusBucketDefault StatusBucket = "DEFAULT"
)

// BucketForStatus classifies a carrier status label. Labels are free-form, so
// matching is by case-insensitive substring.
func BucketForStatus(status string) StatusBucket {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "out for delivery"):
		return StatusBucketOutForDelivery
	case strings.Contains(s, "delivered"):
		return StatusBucketDelivered
	case strings.Contains(s, "exception"), strings.Contains(s, "return"), strings.Contains(s, "failed"):
		return StatusBucketException
	case strings.Contains(s, "transit"):
		return StatusBucketInTransit
	default:
		return StatusBucketDefault
	}
}
