package request

// PrintReceiptRequest is the request body for printing a stored receipt.
type PrintReceiptRequest struct {
	ReceiptID string `json:"receipt_id" binding:"required,uuid"`
}
