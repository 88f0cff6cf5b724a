package models

type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
}

type PropertyListResponse struct {
	Properties []Property `json:"properties"`
}

type PhotoListResponse struct {
	Photos []RoomPhoto `json:"photos"`
}

type UploadResponse struct {
	TaskID string      `json:"task_id"`
	Photos []RoomPhoto `json:"photos"`
	Errors []string    `json:"errors,omitempty"`
}

type BankAccountResponse struct {
	AccountName   string `json:"account_name"`
	BSB           string `json:"bsb"`
	AccountNumber string `json:"account_number"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type GeocodeResponse struct {
	Valid            bool         `json:"valid"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	FormattedAddress string       `json:"formatted_address,omitempty"`
	Error            string       `json:"error,omitempty"`
}

type NotificationResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret    string      `json:"clientSecret"`
	NextAction      interface{} `json:"nextAction"`
	PaymentIntentID string      `json:"paymentIntentId"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
