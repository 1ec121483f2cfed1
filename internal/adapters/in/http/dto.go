package http

import "time"

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type DepositParcelRequest struct {
	TrackingNumber   string `json:"trackingNumber"`
	RecipientContact string `json:"recipientContact"`
	SizeClass        string `json:"sizeClass"`
	// IssuePass defaults to true.
	IssuePass *bool `json:"issuePass,omitempty"`
}

type DepositParcelResponse struct {
	ParcelID     string     `json:"parcelId"`
	LockerID     int        `json:"lockerId"`
	LockerNumber string     `json:"lockerNumber"`
	OtpCode      string     `json:"otpCode,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

type PassResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type PickupRequest struct {
	Code string `json:"code"`
}

type PickupResponse struct {
	Success  bool `json:"success"`
	LockerID int  `json:"lockerId"`
}

type LockerResponse struct {
	ID       int    `json:"id"`
	Number   string `json:"number"`
	Size     string `json:"size"`
	State    string `json:"state"`
	Location string `json:"location"`
}

type ParcelResponse struct {
	ID             string     `json:"id"`
	TrackingNumber string     `json:"trackingNumber"`
	Size           string     `json:"size"`
	Status         string     `json:"status"`
	LockerID       *int       `json:"lockerId,omitempty"`
	LockerNumber   string     `json:"lockerNumber,omitempty"`
	DepositTime    *time.Time `json:"depositTime,omitempty"`
	PickupTime     *time.Time `json:"pickupTime,omitempty"`
	PassExpiresAt  *time.Time `json:"passExpiresAt,omitempty"`
}
