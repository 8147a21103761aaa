package entitlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AccessRecord is the backend-owned premium-entitlement record for one user.
// IsPremium implies PremiumExpiresAt was in the future when last written;
// consumers must still re-check expiry against current time on every gate.
type AccessRecord struct {
	UserID           uuid.UUID
	IsPremium        bool
	PremiumExpiresAt time.Time
}

// Decision is the outcome of an access check for a single feature gate.
type Decision struct {
	HasAccess bool   `json:"has_access"`
	Message   string `json:"message"`
}

// CheckAccess reports whether the record grants premium access to featureID
// at the given time. It is a pure function and must be evaluated on every
// gate check rather than cached, since expiry can pass between checks within
// the same session.
func CheckAccess(record AccessRecord, featureID string, now time.Time) Decision {
	if record.IsPremium && now.Before(record.PremiumExpiresAt) {
		return Decision{HasAccess: true}
	}

	if record.IsPremium {
		// Premium flag was set but the window has passed.
		return Decision{
			HasAccess: false,
			Message:   fmt.Sprintf("Your premium access has expired. Renew your subscription to keep using %s.", featureID),
		}
	}

	return Decision{
		HasAccess: false,
		Message:   fmt.Sprintf("%s is a premium feature. Upgrade to premium to use it.", featureID),
	}
}
