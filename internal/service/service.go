package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"clinic-portal/api"
	"clinic-portal/internal/appointments"
	"clinic-portal/internal/availability"
	"clinic-portal/internal/calendar"
	"clinic-portal/internal/models"
	"clinic-portal/internal/selection"
	"clinic-portal/internal/upstream"
	"clinic-portal/pkg/response"
)

// weekdayCount is how many business days one calendar page shows.
const weekdayCount = 10

type Service struct {
	up       Upstream
	sessions Sessions
	avail    *availability.Store

	selMu      sync.Mutex
	selections map[string]*selection.State

	now func() time.Time
}

// Upstream is the remote clinic API as the service consumes it.
type Upstream interface {
	Login(ctx context.Context, req upstream.LoginRequest) (*upstream.LoginResponse, error)
	Register(ctx context.Context, req upstream.RegisterRequest) error

	Doctors(ctx context.Context, token string, specialtyID int64) ([]upstream.Doctor, error)
	DoctorByID(ctx context.Context, token string, id int64) (*upstream.Doctor, error)
	Specialties(ctx context.Context, token string) ([]upstream.Specialty, error)

	BookAppointment(ctx context.Context, token string, req upstream.BookRequest) error
	UserAppointments(ctx context.Context, token string, userID int64) ([]upstream.AppointmentRecord, error)
	AllAppointments(ctx context.Context, token string) ([]upstream.AppointmentRecord, error)
	CancelUserAppointment(ctx context.Context, token string, appointmentID, userID int64) error
	CancelAdminAppointment(ctx context.Context, token string, appointmentID int64) error
	MarkMissed(ctx context.Context, token string, appointmentID int64) error

	AddReview(ctx context.Context, token string, req upstream.AddReviewRequest) error
	DoctorReviews(ctx context.Context, token string, doctorID int64) ([]upstream.Review, error)
	DoctorRating(ctx context.Context, token string, doctorID int64) (float64, error)

	Me(ctx context.Context, token string) (*upstream.Profile, error)
	ChangePassword(ctx context.Context, token string, req upstream.ChangePasswordRequest) error
}

type Sessions interface {
	Create(ctx context.Context, userID int64, role models.Role, token string) (string, error)
	Delete(ctx context.Context, id string) error
}

func NewService(up Upstream, sessions Sessions, avail *availability.Store) *Service {
	return &Service{
		up:         up,
		sessions:   sessions,
		avail:      avail,
		selections: make(map[string]*selection.State),
		now:        time.Now,
	}
}

// mapErr translates upstream failures. A 401 terminates the session
// unconditionally, including its in-flight selections; a 404 becomes
// ErrNotFound.
func (s *Service) mapErr(ctx context.Context, sess *models.Session, op string, err error) error {
	if upstream.IsAuthExpired(err) {
		if sess != nil {
			_ = s.sessions.Delete(ctx, sess.ID)
			s.dropSessionSelections(sess.ID)
		}
		return fmt.Errorf("%s: %w", op, response.ErrAuthExpired)
	}

	var ue *upstream.Error
	if errors.As(err, &ue) && ue.StatusCode == 404 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// Auth

func (s *Service) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	const op = "service.Login"

	res, err := s.up.Login(ctx, upstream.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		var ue *upstream.Error
		if errors.As(err, &ue) && (ue.StatusCode == 401 || ue.StatusCode == 403) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	role, ok := models.ParseRole(res.Role)
	if !ok {
		return nil, fmt.Errorf("%s: unknown role %q", op, res.Role)
	}

	sessionID, err := s.sessions.Create(ctx, res.UserID, role, res.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.LoginResponse{SessionID: sessionID, Role: string(role)}, nil
}

func (s *Service) Register(ctx context.Context, req *api.RegisterRequest) error {
	const op = "service.Register"

	err := s.up.Register(ctx, upstream.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) Logout(ctx context.Context, sess *models.Session) error {
	const op = "service.Logout"

	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.dropSessionSelections(sess.ID)

	return nil
}

// Doctors

func (s *Service) Doctors(ctx context.Context, sess *models.Session, specialtyID int64) ([]*api.DoctorResponse, error) {
	const op = "service.Doctors"

	doctors, err := s.up.Doctors(ctx, sess.Token, specialtyID)
	if err != nil {
		return nil, s.mapErr(ctx, sess, op, err)
	}

	result := make([]*api.DoctorResponse, 0, len(doctors))
	for _, d := range doctors {
		result = append(result, &api.DoctorResponse{
			ID:          d.ID,
			Name:        d.Name,
			SpecialtyID: d.SpecialtyID,
			Experience:  d.Experience,
			ImageURL:    d.ImageURL,
		})
	}

	return result, nil
}

func (s *Service) DoctorDetail(ctx context.Context, sess *models.Session, doctorID int64) (*api.DoctorDetailResponse, error) {
	const op = "service.DoctorDetail"

	doctor, err := s.up.DoctorByID(ctx, sess.Token, doctorID)
	if err != nil {
		return nil, s.mapErr(ctx, sess, op, err)
	}

	// Specialty name, reviews and rating are decorative: failures fall back
	// to empty values, except a 401, which terminates the session no matter
	// which call reported it.
	specialtyName := "Unknown specialty"
	specialties, err := s.up.Specialties(ctx, sess.Token)
	if err != nil {
		if upstream.IsAuthExpired(err) {
			return nil, s.mapErr(ctx, sess, op, err)
		}
	} else {
		for _, sp := range specialties {
			if sp.ID == doctor.SpecialtyID {
				specialtyName = sp.Name
				break
			}
		}
	}

	reviews := []api.ReviewResponse{}
	fetched, err := s.up.DoctorReviews(ctx, sess.Token, doctorID)
	if err != nil {
		if upstream.IsAuthExpired(err) {
			return nil, s.mapErr(ctx, sess, op, err)
		}
	} else {
		for _, r := range fetched {
			reviews = append(reviews, api.ReviewResponse{
				Stars:     r.Stars,
				Text:      r.Text,
				CreatedAt: r.CreatedAt,
				Author:    r.UserFirstName + " " + r.UserLastName,
			})
		}
	}

	rating, err := s.up.DoctorRating(ctx, sess.Token, doctorID)
	if err != nil {
		if upstream.IsAuthExpired(err) {
			return nil, s.mapErr(ctx, sess, op, err)
		}
		rating = 0
	}

	return &api.DoctorDetailResponse{
		ID:          doctor.ID,
		Name:        doctor.Name,
		Specialty:   specialtyName,
		Experience:  doctor.Experience,
		Description: doctor.Description,
		ImageURL:    doctor.ImageURL,
		Rating:      rating,
		Reviews:     reviews,
	}, nil
}

func (s *Service) Specialties(ctx context.Context, sess *models.Session) ([]*api.SpecialtyResponse, error) {
	const op = "service.Specialties"

	specialties, err := s.up.Specialties(ctx, sess.Token)
	if err != nil {
		return nil, s.mapErr(ctx, sess, op, err)
	}

	result := make([]*api.SpecialtyResponse, 0, len(specialties))
	for _, sp := range specialties {
		result = append(result, &api.SpecialtyResponse{ID: sp.ID, Name: sp.Name})
	}

	return result, nil
}

// Calendar

func selKey(sessionID string, doctorID int64) string {
	return fmt.Sprintf("%s|%d", sessionID, doctorID)
}

func (s *Service) selectionFor(sessionID string, doctorID int64) *selection.State {
	key := selKey(sessionID, doctorID)

	st, ok := s.selections[key]
	if !ok {
		st = selection.New()
		s.selections[key] = st
	}

	return st
}

// dropSelection removes one (session, doctor) entry. Registry entries exist
// only while a selection is in progress; whatever returns it to idle removes
// it.
func (s *Service) dropSelection(sessionID string, doctorID int64) {
	s.selMu.Lock()
	delete(s.selections, selKey(sessionID, doctorID))
	s.selMu.Unlock()
}

// dropSessionSelections removes every entry a session owns. Called when the
// session ends (logout or upstream 401).
func (s *Service) dropSessionSelections(sessionID string) {
	prefix := sessionID + "|"

	s.selMu.Lock()
	for key := range s.selections {
		if strings.HasPrefix(key, prefix) {
			delete(s.selections, key)
		}
	}
	s.selMu.Unlock()
}

func buildDays(days []models.CalendarDay, counts map[string]int) []api.CalendarDayResponse {
	result := make([]api.CalendarDayResponse, 0, len(days))
	for _, d := range days {
		count := counts[d.Key()]
		result = append(result, api.CalendarDayResponse{
			Date:             d.Key(),
			Weekday:          d.Weekday,
			Label:            d.Label,
			IsPast:           d.IsPast,
			AppointmentCount: count,
			Selectable:       !d.IsPast && count > 0,
		})
	}
	return result
}

// effectivePage applies the initial-page policy: page 0 is advanced to page 1
// exactly once when every generated day lies in the past.
func effectivePage(page, count int, now time.Time) ([]models.CalendarDay, int) {
	days := calendar.Weekdays(count, page, now)
	if page == 0 && calendar.AllPast(days) {
		page = 1
		days = calendar.Weekdays(count, page, now)
	}
	return days, page
}

// CalendarPage builds the calendar view for one page offset. Counts come from
// the availability store; when the fetch fails but a stale window is cached,
// the stale data is served and marked as such.
func (s *Service) CalendarPage(ctx context.Context, sess *models.Session, doctorID int64, page int) (*api.CalendarPageResponse, error) {
	const op = "service.CalendarPage"

	days, page := effectivePage(page, weekdayCount, s.now())

	counts, err := s.avail.Counts(ctx, sess.Token, doctorID, days[0].Key(), days[len(days)-1].Key())

	stale := false
	if err != nil {
		if upstream.IsAuthExpired(err) {
			return nil, s.mapErr(ctx, sess, op, err)
		}
		if counts == nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		stale = true
	}

	return &api.CalendarPageResponse{
		Page:       page,
		RangeLabel: calendar.RangeLabel(days),
		Days:       buildDays(days, counts),
		Stale:      stale,
	}, nil
}

// SelectDate moves the selection from idle to date chosen for the given day
// and fetches its open slots. Past days and days without open appointments
// are rejected without a remote call.
func (s *Service) SelectDate(ctx context.Context, sess *models.Session, doctorID int64, req *api.SelectDateRequest) (*api.SelectDateResponse, error) {
	const op = "service.SelectDate"

	days := calendar.Weekdays(weekdayCount, req.Page, s.now())

	var day *models.CalendarDay
	for i := range days {
		if days[i].Key() == req.Date {
			day = &days[i]
			break
		}
	}
	if day == nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrDayNotSelectable)
	}

	count := s.avail.CachedCount(doctorID, day.Key())

	s.selMu.Lock()
	st := s.selectionFor(sess.ID, doctorID)
	ok := st.SelectDate(*day, count)
	if !ok && st.Phase() == selection.PhaseIdle {
		delete(s.selections, selKey(sess.ID, doctorID))
	}
	s.selMu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", op, response.ErrDayNotSelectable)
	}

	slots, err := s.avail.Slots(ctx, sess.Token, doctorID, day.Key())
	if err != nil {
		if upstream.IsAuthExpired(err) {
			return nil, s.mapErr(ctx, sess, op, err)
		}
		if slots != nil {
			// The selection stays open and cached slots are served, marked
			// stale the way CalendarPage marks stale counts.
			return &api.SelectDateResponse{Date: day.Key(), Slots: slots, Stale: true}, nil
		}
		// Nothing cached. Abandon the selection so a retry starts from idle.
		s.dropSelection(sess.ID, doctorID)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.SelectDateResponse{Date: day.Key(), Slots: slots}, nil
}

func (s *Service) PickSlot(sess *models.Session, doctorID int64, req *api.PickSlotRequest) error {
	const op = "service.PickSlot"

	if req.Slot == "" {
		return fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	s.selMu.Lock()
	st, exists := s.selections[selKey(sess.ID, doctorID)]
	ok := exists && st.PickSlot(req.Slot)
	s.selMu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", op, response.ErrNoSelection)
	}

	return nil
}

func (s *Service) CloseModal(sess *models.Session, doctorID int64) {
	s.dropSelection(sess.ID, doctorID)
}

// ConfirmBooking books the selected date and slot. Without a complete
// selection it fails locally, issuing no remote call. On success the slot
// list and the displayed window's counts are refreshed and the selection is
// reset; on upstream failure the selection is kept so the user may retry.
func (s *Service) ConfirmBooking(ctx context.Context, sess *models.Session, doctorID int64, req *api.ConfirmRequest) (*api.ConfirmResponse, error) {
	const op = "service.ConfirmBooking"

	s.selMu.Lock()
	var (
		day     models.CalendarDay
		slot    string
		hasDay  bool
		hasSlot bool
	)
	if st, exists := s.selections[selKey(sess.ID, doctorID)]; exists {
		day, hasDay = st.Day()
		slot, hasSlot = st.Slot()
	}
	s.selMu.Unlock()

	if !hasDay || !hasSlot {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNoSelection)
	}

	appointmentDate := day.Key() + "T" + models.NormalizeSlot(slot)

	err := s.up.BookAppointment(ctx, sess.Token, upstream.BookRequest{
		UserID:          sess.UserID,
		DoctorID:        doctorID,
		AppointmentDate: appointmentDate,
	})
	if err != nil {
		return nil, s.mapErr(ctx, sess, op, err)
	}

	s.dropSelection(sess.ID, doctorID)

	// Refresh what the calendar shows. The booking itself already succeeded,
	// so refresh failures fall back to cached data.
	slots, _ := s.avail.Slots(ctx, sess.Token, doctorID, day.Key())

	days := calendar.Weekdays(weekdayCount, req.Page, s.now())
	counts, _ := s.avail.Counts(ctx, sess.Token, doctorID, days[0].Key(), days[len(days)-1].Key())

	return &api.ConfirmResponse{
		AppointmentDate: appointmentDate,
		Slots:           slots,
		Days:            buildDays(days, counts),
	}, nil
}

// Appointments

func recordToModel(rec upstream.AppointmentRecord) models.Appointment {
	appt := models.Appointment{
		ID:          rec.ID,
		DoctorName:  rec.DoctorName,
		Specialty:   rec.DoctorSpecialty,
		Status:      models.ParseStatus(rec.Status),
		PatientName: rec.UserName,
	}

	at, err := time.Parse("2006-01-02T15:04:05", rec.AppointmentDate)
	if err != nil {
		at, err = time.Parse(time.RFC3339, rec.AppointmentDate)
	}
	if err != nil {
		// Unparseable timestamp: show it raw. RawDateTime stays zero, which
		// keeps the row out of patient self-cancellation.
		appt.Date = rec.AppointmentDate
		return appt
	}

	appt.Date = at.Format("Jan 2, 2006")
	appt.Time = at.Format("15:04")
	appt.RawDateTime = at

	return appt
}

func (s *Service) fetchAppointments(ctx context.Context, sess *models.Session) ([]models.Appointment, error) {
	var (
		records []upstream.AppointmentRecord
		err     error
	)

	if sess.Role == models.RoleAdmin {
		records, err = s.up.AllAppointments(ctx, sess.Token)
	} else {
		records, err = s.up.UserAppointments(ctx, sess.Token, sess.UserID)
	}
	if err != nil {
		return nil, err
	}

	appts := make([]models.Appointment, 0, len(records))
	for _, rec := range records {
		appts = append(appts, recordToModel(rec))
	}

	return appts, nil
}

// Appointments builds one page of the sorted appointment list. Admins may
// filter by patient name; filtering happens before pagination so the page
// count follows the filtered collection. The page number is clamped into the
// valid range.
func (s *Service) Appointments(ctx context.Context, sess *models.Session, page int, search string) (*api.AppointmentsPageResponse, error) {
	const op = "service.Appointments"

	appts, err := s.fetchAppointments(ctx, sess)
	if err != nil {
		return nil, s.mapErr(ctx, sess, op, err)
	}

	if sess.Role == models.RoleAdmin {
		appts = appointments.Filter(appts, search)
	}

	appointments.Sort(appts)

	totalPages := appointments.TotalPages(len(appts))
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	now := s.now()

	rows := make([]api.AppointmentResponse, 0, appointments.PageSize)
	for _, a := range appointments.Page(appts, page) {
		row := api.AppointmentResponse{
			ID:         a.ID,
			DoctorName: a.DoctorName,
			Specialty:  a.Specialty,
			Date:       a.Date,
			Time:       a.Time,
			Status:     string(a.Status),
			Cancel:     string(appointments.CancelEligibility(a, sess.Role, now)),
		}
		if sess.Role == models.RoleAdmin {
			row.PatientName = a.PatientName
		}
		rows = append(rows, row)
	}

	return &api.AppointmentsPageResponse{
		Appointments:   rows,
		Page:           page,
		TotalPages:     totalPages,
		ShowPagination: totalPages > 1,
	}, nil
}

// CancelAppointment checks eligibility and performs the role-specific
// upstream cancellation. An ineligible patient gets the contact-admin
// outcome; that is a normal UI branch, not an error.
func (s *Service) CancelAppointment(ctx context.Context, sess *models.Session, appointmentID int64) (*api.CancelOutcomeResponse, error) {
	const op = "service.CancelAppointment"

	appts, err := s.fetchAppointments(ctx, sess)
	if err != nil {
		return nil, s.mapErr(ctx, sess, op, err)
	}

	var appt *models.Appointment
	for i := range appts {
		if appts[i].ID == appointmentID {
			appt = &appts[i]
			break
		}
	}
	if appt == nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	switch appointments.CancelEligibility(*appt, sess.Role, s.now()) {
	case appointments.CancelUnavailable:
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	case appointments.CancelContactAdmin:
		return &api.CancelOutcomeResponse{
			Outcome: string(appointments.CancelContactAdmin),
			Message: "Your appointment is scheduled less than 24 hours in advance. Please contact administration to cancel it.",
		}, nil
	}

	if sess.Role == models.RoleAdmin {
		err = s.up.CancelAdminAppointment(ctx, sess.Token, appointmentID)
	} else {
		err = s.up.CancelUserAppointment(ctx, sess.Token, appointmentID, sess.UserID)
	}
	if err != nil {
		return nil, s.mapErr(ctx, sess, op, err)
	}

	return &api.CancelOutcomeResponse{Outcome: string(appointments.CancelAllowed)}, nil
}

// MarkMissed transitions a completed appointment to missed. Admin only.
func (s *Service) MarkMissed(ctx context.Context, sess *models.Session, appointmentID int64) error {
	const op = "service.MarkMissed"

	if sess.Role != models.RoleAdmin {
		return fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	appts, err := s.fetchAppointments(ctx, sess)
	if err != nil {
		return s.mapErr(ctx, sess, op, err)
	}

	var appt *models.Appointment
	for i := range appts {
		if appts[i].ID == appointmentID {
			appt = &appts[i]
			break
		}
	}
	if appt == nil {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	if err := appointments.MarkMissed(appt); err != nil {
		return fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	if err := s.up.MarkMissed(ctx, sess.Token, appointmentID); err != nil {
		return s.mapErr(ctx, sess, op, err)
	}

	return nil
}

// Reviews

func (s *Service) AddReview(ctx context.Context, sess *models.Session, req *api.AddReviewRequest) error {
	const op = "service.AddReview"

	err := s.up.AddReview(ctx, sess.Token, upstream.AddReviewRequest{
		AppointmentID: req.AppointmentID,
		Text:          req.Text,
		Stars:         req.Stars,
	})
	if err != nil {
		return s.mapErr(ctx, sess, op, err)
	}

	return nil
}

// Account

func (s *Service) Me(ctx context.Context, sess *models.Session) (*api.ProfileResponse, error) {
	const op = "service.Me"

	profile, err := s.up.Me(ctx, sess.Token)
	if err != nil {
		return nil, s.mapErr(ctx, sess, op, err)
	}

	return &api.ProfileResponse{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, sess *models.Session, req *api.ChangePasswordRequest) error {
	const op = "service.ChangePassword"

	err := s.up.ChangePassword(ctx, sess.Token, upstream.ChangePasswordRequest{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return s.mapErr(ctx, sess, op, err)
	}

	return nil
}
