package dto

import "time"

// ListingDetail is one language's rendition of a service listing.
type ListingDetail struct {
	Lang        string `json:"lang"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ServiceListing is a marketplace listing as the backend stores it. Financial
// fields come from the sell wizard; verification is mutated only by admin review.
type ServiceListing struct {
	ID              string          `json:"id"`
	Category        string          `json:"category"`
	Details         []ListingDetail `json:"details"`
	MonthlyRevenue  float64         `json:"monthlyRevenue"`
	MonthlyExpenses float64         `json:"monthlyExpenses"`
	NetProfit       float64         `json:"netProfit"`
	Profitable      bool            `json:"profitable"`
	IncomeSources   []string        `json:"incomeSources,omitempty"`
	RevenueProofs   []string        `json:"revenueProofs,omitempty"`
	Verified        bool            `json:"verified"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt,omitempty"`
}

// CreateServiceResult is the normalized shape returned by the create-service
// route regardless of how the backend phrased its response.
type CreateServiceResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// VerifyServiceRequest is the admin review decision relayed to the backend.
type VerifyServiceRequest struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}
