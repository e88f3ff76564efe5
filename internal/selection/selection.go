package selection

import (
	"clinic-portal/internal/models"
)

type Phase string

const (
	PhaseIdle Phase = "idle"
	PhaseDateChosen Phase = "date_chosen"
	PhaseSlotChosen Phase = "slot_chosen"
)

// State is the in-progress booking selection for one (session, doctor) pair.
// It starts idle, becomes date chosen when the modal opens, and slot chosen
// once a slot is picked. Every mutation goes through a transition method;
// rejected transitions are no-ops and return false.
type State struct {
	phase Phase
	day   models.CalendarDay
	slot  string
}

func New() *State {
	return &State{phase: PhaseIdle}
}

func (s *State) Phase() Phase {
	return s.phase
}

func (s *State) ModalOpen() bool {
	return s.phase != PhaseIdle
}

func (s *State) Day() (models.CalendarDay, bool) {
	if s.phase == PhaseIdle {
		return models.CalendarDay{}, false
	}
	return s.day, true
}

func (s *State) Slot() (string, bool) {
	if s.phase != PhaseSlotChosen {
		return "", false
	}
	return s.slot, true
}

// SelectDate opens the selection for a day. Past days and days with no known
// open appointments are not selectable. Only valid from idle.
func (s *State) SelectDate(day models.CalendarDay, appointmentCount int) bool {
	if s.phase != PhaseIdle {
		return false
	}
	if day.IsPast || appointmentCount == 0 {
		return false
	}

	s.phase = PhaseDateChosen
	s.day = day
	s.slot = ""

	return true
}

// PickSlot chooses or replaces the slot for the already chosen day.
func (s *State) PickSlot(slot string) bool {
	if s.phase != PhaseDateChosen && s.phase != PhaseSlotChosen {
		return false
	}

	s.phase = PhaseSlotChosen
	s.slot = slot

	return true
}

// CloseModal abandons the selection and returns to idle.
func (s *State) CloseModal() {
	s.phase = PhaseIdle
	s.day = models.CalendarDay{}
	s.slot = ""
}

// Reset clears the selection after a successful booking confirmation.
func (s *State) Reset() {
	s.CloseModal()
}
