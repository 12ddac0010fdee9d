// FILE: internal/dto/donation_dto.go
package dto

import "github.com/google/uuid"

type DonationCheckoutRequest struct {
	ArtistId  uuid.UUID `json:"artist_id" validate:"required"`
	Amount    int64     `json:"amount" validate:"required,gt=0"`
	DonorName string    `json:"donor_name" validate:"required,max=100"`
	Email     string    `json:"email" validate:"required,email"`
}

type DonationCheckoutResponse struct {
	OrderId         uuid.UUID `json:"order_id"`
	SnapToken       string    `json:"snap_token"`
	SnapRedirectUrl string    `json:"snap_redirect_url"`
}

// MidtransWebhookRequest mirrors the fields of the Midtrans HTTP
// notification we verify and act on.
type MidtransWebhookRequest struct {
	OrderId           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}
