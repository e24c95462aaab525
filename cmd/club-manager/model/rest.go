package model

type BaseResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  Actor  `json:"user"`
}

// EventCreateRequest.Date accepts RFC 3339, "2006-01-02T15:04" (what an
// HTML datetime-local input submits) or a bare "2006-01-02".
type EventCreateRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Date        string `json:"date" validate:"required"`
	Venue       string `json:"venue" validate:"max=200"`
	Description string `json:"description" validate:"max=4000"`
}

type EnrollmentStatusRequest struct {
	Status EnrollmentStatus `json:"status" validate:"required,oneof=approved rejected"`
}

type MemberRequest struct {
	Name   string       `json:"name" validate:"required,max=200"`
	Email  string       `json:"email" validate:"required,email"`
	Status MemberStatus `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type TransactionRequest struct {
	Type        TransactionType `json:"type" validate:"required,oneof=income expense"`
	Amount      int64           `json:"amount" validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,max=500"`
	Date        string          `json:"date"`
}

type ImportResult struct {
	Imported int `json:"imported"`
}
