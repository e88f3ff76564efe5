package api

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type SpecialtyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DoctorResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SpecialtyID int64  `json:"specialty_id"`
	Experience  int    `json:"experience"`
	ImageURL    string `json:"image_url,omitempty"`
}

type ReviewResponse struct {
	Stars     int    `json:"stars"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Author    string `json:"author"`
}

type DoctorDetailResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Specialty   string           `json:"specialty"`
	Experience  int              `json:"experience"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url,omitempty"`
	Rating      float64          `json:"rating"`
	Reviews     []ReviewResponse `json:"reviews"`
}

type CalendarDayResponse struct {
	Date             string `json:"date"`
	Weekday          string `json:"weekday"`
	Label            string `json:"label"`
	IsPast           bool   `json:"is_past"`
	AppointmentCount int    `json:"appointment_count"`
	Selectable       bool   `json:"selectable"`
}

type CalendarPageResponse struct {
	Page       int                   `json:"page"`
	RangeLabel string                `json:"range_label"`
	Days       []CalendarDayResponse `json:"days"`
	Stale      bool                  `json:"stale,omitempty"`
}

type SelectDateRequest struct {
	Date string `json:"date"`
	Page int    `json:"page"`
}

type SelectDateResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
	Stale bool     `json:"stale,omitempty"`
}

type PickSlotRequest struct {
	Slot string `json:"slot"`
}

type ConfirmRequest struct {
	Page int `json:"page"`
}

type ConfirmResponse struct {
	AppointmentDate string                `json:"appointment_date"`
	Slots           []string              `json:"slots"`
	Days            []CalendarDayResponse `json:"days"`
}

type AppointmentResponse struct {
	ID          int64  `json:"id"`
	PatientName string `json:"patient_name,omitempty"`
	DoctorName  string `json:"doctor_name"`
	Specialty   string `json:"specialty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	Cancel      string `json:"cancel"`
}

type AppointmentsPageResponse struct {
	Appointments   []AppointmentResponse `json:"appointments"`
	Page           int                   `json:"page"`
	TotalPages     int                   `json:"total_pages"`
	ShowPagination bool                  `json:"show_pagination"`
}

type CancelOutcomeResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
}

type AddReviewRequest struct {
	AppointmentID int64  `json:"appointment_id"`
	Text          string `json:"text"`
	Stars         int    `json:"stars"`
}

type ProfileResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
