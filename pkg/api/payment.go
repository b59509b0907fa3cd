package api

// SubmitPaymentRequest records a transfer from the caller to ToId.
type SubmitPaymentRequest struct {
	GroupId  string `json:"groupId"`
	ToId     string `json:"toId"`
	Amount   string `json:"amount"`
	ProofUrl string `json:"proofUrl,omitempty"`
}

type SubmitPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type AcceptPaymentRequest struct {
	PaymentId string `json:"paymentId"`
}

type AcceptPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	GroupId string `json:"groupId"`

	// Status optionally filters by "pending" or "accepted".
	Status string `json:"status,omitempty"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

// GetPaymentQRRequest asks for a UPI QR code paying Amount to ToId.
type GetPaymentQRRequest struct {
	GroupId string `json:"groupId"`
	ToId    string `json:"toId"`
	Amount  string `json:"amount"`
}

type GetPaymentQRResponse struct {
	UpiLink     string `json:"upiLink"`
	Image       []byte `json:"image"`
	ContentType string `json:"contentType"`
}
