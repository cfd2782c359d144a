package scanning

// ReceiptData contains extracted information from a receipt
type ReceiptData struct {
	MerchantName string   `json:"merchantName"`
	Date         string   `json:"date"` // YYYY-MM-DD
	TotalAmount  float64  `json:"totalAmount"`
	Category     string   `json:"category"`
	Items        []string `json:"items,omitempty"`
	Location     string   `json:"location,omitempty"`
}

// Scanner defines the interface for receipt extraction operations
type Scanner interface {
	// ScanReceipt analyzes a receipt image and extracts structured fields
	ScanReceipt(imageData []byte, contentType string) (*ReceiptData, error)
	// Close closes the scanner and releases resources
	Close() error
}
