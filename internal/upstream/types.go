package upstream

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	UserID    int64  `json:"userId"`
	Role      string `json:"userRole"`
	ExpiresAt int64  `json:"expiryTime"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type Doctor struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SpecialtyID int64  `json:"specialtyId"`
	Experience  int    `json:"experience"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type Specialty struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AppointmentRecord is the upstream wire shape of one appointment, shared by
// the user and admin collections. UserName is only populated for admins.
type AppointmentRecord struct {
	ID              int64  `json:"id"`
	DoctorName      string `json:"doctorName"`
	DoctorSpecialty string `json:"doctorSpecialty"`
	AppointmentDate string `json:"appointmentDate"`
	Status          string `json:"status"`
	UserName        string `json:"userName,omitempty"`
}

type BookRequest struct {
	UserID          int64  `json:"userId"`
	DoctorID        int64  `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
}

type Review struct {
	Stars         int    `json:"stars"`
	Text          string `json:"text"`
	CreatedAt     string `json:"createdAt"`
	UserFirstName string `json:"userFirstName"`
	UserLastName  string `json:"userLastName"`
}

type AddReviewRequest struct {
	AppointmentID int64  `json:"appointmentId"`
	Text          string `json:"text"`
	Stars         int    `json:"stars"`
}

type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
