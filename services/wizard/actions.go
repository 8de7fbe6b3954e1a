package wizard

import (
	"time"

	"haulaway/models"
)

// ActionType enumerates the closed set of state transitions. The reducer in
// state.go is total over this set.
type ActionType int

const (
	ActionSetFirstName ActionType = iota
	ActionSetLastName
	ActionSetPhoneNumber
	ActionSetAddress
	ActionSetCity
	ActionSetState
	ActionSetZipCode
	ActionSetPhoneVerified
	ActionSetPrivacyAccepted
	ActionSetJobSize
	ActionSetNotes
	ActionSetNotes2
	ActionAddPhoto
	ActionRemovePhoto
	ActionSetSelectedDate
	ActionSetSelectedTime
	ActionSetCurrentStep
	ActionSetSubmitted
	ActionSetAppointmentID
	ActionSetDispatcherID
	ActionNextStep
	ActionPrevStep
	ActionReset
)

// Action is one reducer input. Build actions through the constructors below;
// the payload fields are unexported so no ad hoc mutation path exists around
// the reducer.
type Action struct {
	kind    ActionType
	str     string
	flag    bool
	index   int
	id      int64
	jobSize *models.JobSize
	photo   *models.PhotoRef
	date    *time.Time
	hour    *int
	step    int
}

// Type returns the action's kind.
func (a Action) Type() ActionType { return a.kind }

func SetFirstName(v string) Action   { return Action{kind: ActionSetFirstName, str: v} }
func SetLastName(v string) Action    { return Action{kind: ActionSetLastName, str: v} }
func SetPhoneNumber(v string) Action { return Action{kind: ActionSetPhoneNumber, str: v} }
func SetAddress(v string) Action     { return Action{kind: ActionSetAddress, str: v} }
func SetCity(v string) Action        { return Action{kind: ActionSetCity, str: v} }
func SetStateField(v string) Action  { return Action{kind: ActionSetState, str: v} }
func SetZipCode(v string) Action     { return Action{kind: ActionSetZipCode, str: v} }

func SetPhoneVerified(v bool) Action   { return Action{kind: ActionSetPhoneVerified, flag: v} }
func SetPrivacyAccepted(v bool) Action { return Action{kind: ActionSetPrivacyAccepted, flag: v} }

func SetJobSize(js *models.JobSize) Action { return Action{kind: ActionSetJobSize, jobSize: js} }
func SetNotes(v string) Action             { return Action{kind: ActionSetNotes, str: v} }
func SetNotes2(v string) Action            { return Action{kind: ActionSetNotes2, str: v} }

func AddPhoto(ref models.PhotoRef) Action { return Action{kind: ActionAddPhoto, photo: &ref} }
func RemovePhoto(index int) Action        { return Action{kind: ActionRemovePhoto, index: index} }

func SetSelectedDate(d *time.Time) Action { return Action{kind: ActionSetSelectedDate, date: d} }
func SetSelectedTime(hour *int) Action    { return Action{kind: ActionSetSelectedTime, hour: hour} }

func SetCurrentStep(step int) Action    { return Action{kind: ActionSetCurrentStep, step: step} }
func SetSubmitted(v bool) Action        { return Action{kind: ActionSetSubmitted, flag: v} }
func SetAppointmentID(id int64) Action  { return Action{kind: ActionSetAppointmentID, id: id} }
func SetDispatcherID(v string) Action   { return Action{kind: ActionSetDispatcherID, str: v} }

func NextStep() Action { return Action{kind: ActionNextStep} }
func PrevStep() Action { return Action{kind: ActionPrevStep} }
func Reset() Action    { return Action{kind: ActionReset} }
