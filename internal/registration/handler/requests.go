package handler

import (
	"time"

	id "registrar/pkg/domain"
	dErrors "registrar/pkg/domain-errors"
)

// referrerRequest is the body for register and update. The referrer is
// optional; absence and JSON null both mean "no referrer".
type referrerRequest struct {
	Referrer *string `json:"referrer"`
}

// parseReferrer validates the optional referrer at the trust boundary.
func (r referrerRequest) parseReferrer() (*id.AccountID, error) {
	if r.Referrer == nil {
		return nil, nil
	}
	referrer, err := id.ParseAccountID(*r.Referrer)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "referrer must be a valid account id")
	}
	return &referrer, nil
}

// updateConfigRequest is the body for the deadline update.
type updateConfigRequest struct {
	Deadline time.Time `json:"deadline"`
}

func (r updateConfigRequest) validate() error {
	// The deadline value itself is unvalidated on purpose: a past deadline
	// simply means the window is closed. Only a missing field is rejected.
	if r.Deadline.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "deadline is required")
	}
	return nil
}
