package domain

// TradeRequest asks to trade a watch the customer owns against one in the
// catalog.
type TradeRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	WatchID      string `json:"watchId"`
	OfferedBrand string `json:"offeredBrand"`
	OfferedModel string `json:"offeredModel"`
	OfferedYear  string `json:"offeredYear"`
	Box          bool   `json:"box"`
	Papers       bool   `json:"papers"`
	Message      string `json:"message"`
}

// SellRequest offers a watch to the shop. Images holds uploaded photo URLs.
type SellRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Year        string   `json:"year"`
	Condition   string   `json:"condition"`
	AskingPrice float64  `json:"askingPrice"`
	Box         bool     `json:"box"`
	Papers      bool     `json:"papers"`
	Images      []string `json:"image"`
}

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Delivery states written back by the email notifier.
const (
	DeliverySuccess = "SUCCESS"
	DeliveryError   = "ERROR"
)
