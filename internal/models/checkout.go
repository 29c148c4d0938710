package models

// CheckoutOutcome is the result of a single checkout call. Ticket is nil
// when no line item could be processed; in that case no store was mutated.
type CheckoutOutcome struct {
	Ticket    *Ticket
	Completed []CompletedItem
	Failed    []FailedItem
	Status    string
	Message   string
}

// CompletedItem describes a purchased line item for caller diagnostics
type CompletedItem struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unitPrice"`
	Subtotal  int    `json:"subtotal"`
}

// FailedItem describes a line item that could not be satisfied. ProductID
// is nil when the product reference no longer resolves.
type FailedItem struct {
	ProductID    *int   `json:"productId"`
	Title        string `json:"title,omitempty"`
	RequestedQty int    `json:"requestedQty"`
	AvailableQty int    `json:"availableQty"`
}

// CheckoutResponse is the caller-facing serialization of a checkout result.
// The field names are a de facto contract; do not rename them.
type CheckoutResponse struct {
	Success  bool              `json:"success"`
	Ticket   *CheckoutTicket   `json:"ticket"`
	Products CheckoutProducts  `json:"products"`
	Status   string            `json:"status"`
	Message  string            `json:"message"`
}

// CheckoutTicket summarizes the created ticket
type CheckoutTicket struct {
	Code           string `json:"code"`
	Total          int    `json:"total"`
	ItemsProcessed int    `json:"itemsProcessed"`
	ItemsFailed    int    `json:"itemsFailed"`
}

// CheckoutProducts lists the per-item results
type CheckoutProducts struct {
	Completed []CompletedItem `json:"completed"`
	Failed    []FailedItem    `json:"failed"`
}

// Response shapes the outcome into the caller-facing contract
func (o *CheckoutOutcome) Response() *CheckoutResponse {
	resp := &CheckoutResponse{
		Success: o.Ticket != nil && len(o.Failed) == 0,
		Products: CheckoutProducts{
			Completed: o.Completed,
			Failed:    o.Failed,
		},
		Status:  o.Status,
		Message: o.Message,
	}

	if resp.Products.Completed == nil {
		resp.Products.Completed = []CompletedItem{}
	}
	if resp.Products.Failed == nil {
		resp.Products.Failed = []FailedItem{}
	}

	if o.Ticket != nil {
		resp.Ticket = &CheckoutTicket{
			Code:           o.Ticket.Code,
			Total:          o.Ticket.Total,
			ItemsProcessed: len(o.Completed),
			ItemsFailed:    len(o.Failed),
		}
	}

	return resp
}
