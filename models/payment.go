package models

import "time"

// Payment statuses. A payment is created as processing and resolved exactly
// once by the provider webhook.
const (
	PaymentStatusProcessing = "processing"
	PaymentStatusSuccess    = "success"
)

// Payment tracks one checkout attempt against the payment provider.
// PaymentID holds the provider's payment identifier once the webhook
// resolves the payment.
type Payment struct {
	ID          string    `json:"id"`
	ProductName string    `json:"productName,omitempty"`
	Price       float64   `json:"price,omitempty"`
	Status      string    `json:"status"`
	PaymentID   string    `json:"paymentid,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name,omitempty"`
	CourseID    string    `json:"course_id,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Resolved reports whether the payment has left the processing state.
func (p *Payment) Resolved() bool {
	return p.Status != PaymentStatusProcessing
}

// TableName returns the name of the database table
// associated with the Payment model.
func (p Payment) TableName() string {
	return "payments"
}
