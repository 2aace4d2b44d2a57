package forms

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Engine merges validated extraction candidates into a record and keeps the
// canonical identity fields synchronized across the form sections. Merge is
// a pure function of its inputs apart from generated identifiers and the
// update timestamp; tests inject both.
type Engine struct {
	newID func() string
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator overrides the identifier generator (uuid by default).
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// WithClock overrides the clock (time.Now by default).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.now = clock }
}

// NewEngine builds a merge engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Merge produces a new record from the candidate and the current record.
// The current record is never mutated. Order of operations:
//
//  1. shallow fill-if-present merge of every section patch
//  2. wholesale replacement of list fields with regenerated identifiers
//  3. patient identity propagation from the worksheet to the shared patient
//     entity and every other section, when the candidate touched it
//  4. provider and allergy propagation from the worksheet
//  5. pharmacist name resolution across the four pharmacist fields
//  6. derivation of medication record rows from the worksheet table
//  7. flat legacy fields applied last, winning where supplied
//  8. update timestamp
func (e *Engine) Merge(c Candidate, current Record) Record {
	out := current.Clone()

	e.applySectionPatches(c, &out)
	e.applyListReplacements(c, &out)
	e.propagatePatientIdentity(c, &out)
	e.propagateProviderAndAllergies(c, &out)
	e.resolvePharmacistName(&out)
	e.deriveMedicationRecordRows(&out)
	e.applyLegacyFields(c, &out)

	out.UpdatedAt = e.now()
	return out
}

// ---------- step 1: shallow section merges ----------

func (e *Engine) applySectionPatches(c Candidate, out *Record) {
	if p := c.Patient; p != nil {
		setString(&out.Patient.FirstName, p.FirstName)
		setString(&out.Patient.LastName, p.LastName)
		setString(&out.Patient.DateOfBirth, p.DateOfBirth)
		setString(&out.Patient.HealthCardNumber, p.HealthCardNumber)
		setString(&out.Patient.Address, p.Address)
		setString(&out.Patient.City, p.City)
		setString(&out.Patient.Province, p.Province)
		setString(&out.Patient.PostalCode, p.PostalCode)
		setString(&out.Patient.Phone, p.Phone)
		setString(&out.Patient.Email, p.Email)
	}
	if p := c.Pharmacy; p != nil {
		setString(&out.Pharmacy.Name, p.Name)
		setString(&out.Pharmacy.Address, p.Address)
		setString(&out.Pharmacy.City, p.City)
		setString(&out.Pharmacy.Province, p.Province)
		setString(&out.Pharmacy.PostalCode, p.PostalCode)
		setString(&out.Pharmacy.Phone, p.Phone)
		setString(&out.Pharmacy.Fax, p.Fax)
		setString(&out.Pharmacy.AccreditationNumber, p.AccreditationNumber)
		setString(&out.Pharmacy.PharmacistName, p.PharmacistName)
		setString(&out.Pharmacy.OCPNumber, p.OCPNumber)
	}
	if p := c.PrimaryCareProvider; p != nil {
		setString(&out.PrimaryCareProvider.Name, p.Name)
		setString(&out.PrimaryCareProvider.Phone, p.Phone)
		setString(&out.PrimaryCareProvider.Fax, p.Fax)
		setString(&out.PrimaryCareProvider.Address, p.Address)
	}
	if p := c.Acknowledgement; p != nil {
		setString(&out.Acknowledgement.PatientName, p.PatientName)
		setString(&out.Acknowledgement.DateOfBirth, p.DateOfBirth)
		setString(&out.Acknowledgement.HealthCardNumber, p.HealthCardNumber)
		setString(&out.Acknowledgement.ReviewDate, p.ReviewDate)
		setString(&out.Acknowledgement.PharmacistName, p.PharmacistName)
		setBool(&out.Acknowledgement.AnnualReview, p.AnnualReview)
		setBool(&out.Acknowledgement.FollowUpReview, p.FollowUpReview)
	}
	if p := c.MedicationRecord; p != nil {
		setString(&out.MedicationRecord.PatientFirstName, p.PatientFirstName)
		setString(&out.MedicationRecord.PatientLastName, p.PatientLastName)
		setString(&out.MedicationRecord.DateOfBirth, p.DateOfBirth)
		setString(&out.MedicationRecord.Phone, p.Phone)
		setString(&out.MedicationRecord.Allergies, p.Allergies)
		setString(&out.MedicationRecord.PharmacistName, p.PharmacistName)
		setString(&out.MedicationRecord.ReviewDate, p.ReviewDate)
	}
	if p := c.Notification; p != nil {
		setString(&out.Notification.PatientFullName, p.PatientFullName)
		setString(&out.Notification.PatientPhone, p.PatientPhone)
		setString(&out.Notification.PatientDateOfBirth, p.PatientDateOfBirth)
		setString(&out.Notification.ProviderName, p.ProviderName)
		setString(&out.Notification.ProviderPhone, p.ProviderPhone)
		setString(&out.Notification.ProviderFax, p.ProviderFax)
		setString(&out.Notification.PharmacistName, p.PharmacistName)
		setString(&out.Notification.PharmacyName, p.PharmacyName)
		setString(&out.Notification.PharmacyPhone, p.PharmacyPhone)
		setString(&out.Notification.PharmacyFax, p.PharmacyFax)
		setString(&out.Notification.NotificationDate, p.NotificationDate)
		setString(&out.Notification.Status, p.Status)
		setString(&out.Notification.IssuesDescription, p.IssuesDescription)
		setString(&out.Notification.Comments, p.Comments)
	}
	if p := c.Worksheet; p != nil {
		setString(&out.Worksheet.PatientFirstName, p.PatientFirstName)
		setString(&out.Worksheet.PatientLastName, p.PatientLastName)
		setString(&out.Worksheet.DateOfBirth, p.DateOfBirth)
		setString(&out.Worksheet.HealthCardNumber, p.HealthCardNumber)
		setString(&out.Worksheet.Address, p.Address)
		setString(&out.Worksheet.City, p.City)
		setString(&out.Worksheet.Province, p.Province)
		setString(&out.Worksheet.PostalCode, p.PostalCode)
		setString(&out.Worksheet.Phone, p.Phone)
		setString(&out.Worksheet.Email, p.Email)
		setString(&out.Worksheet.Allergies, p.Allergies)
		setString(&out.Worksheet.ProviderName, p.ProviderName)
		setString(&out.Worksheet.ProviderPhone, p.ProviderPhone)
		setString(&out.Worksheet.PharmacistName, p.PharmacistName)
		setString(&out.Worksheet.ClinicalNotes, p.ClinicalNotes)
		setString(&out.Worksheet.Status, p.Status)
		setString(&out.Worksheet.IssuesDescription, p.IssuesDescription)
	}
	if p := c.DiabetesChecklist; p != nil {
		setString(&out.DiabetesChecklist.PatientName, p.PatientName)
		setBool(&out.DiabetesChecklist.SelfMonitoring, p.SelfMonitoring)
		setBool(&out.DiabetesChecklist.Nutrition, p.Nutrition)
		setBool(&out.DiabetesChecklist.Exercise, p.Exercise)
		setBool(&out.DiabetesChecklist.FootCare, p.FootCare)
		setBool(&out.DiabetesChecklist.Hypoglycemia, p.Hypoglycemia)
		setBool(&out.DiabetesChecklist.ReferralMade, p.ReferralMade)
		setString(&out.DiabetesChecklist.Notes, p.Notes)
	}
	if p := c.FollowUp; p != nil {
		setString(&out.FollowUp.PatientName, p.PatientName)
		setString(&out.FollowUp.Reason, p.Reason)
		setString(&out.FollowUp.ScheduledDate, p.ScheduledDate)
		setString(&out.FollowUp.PharmacistName, p.PharmacistName)
		setString(&out.FollowUp.Notes, p.Notes)
	}
}

// ---------- step 2: list replacement ----------

func (e *Engine) applyListReplacements(c Candidate, out *Record) {
	if c.Medications != nil {
		meds := make([]Medication, 0, len(c.Medications))
		for _, m := range c.Medications {
			meds = append(meds, Medication{
				ID:         e.newID(),
				Name:       strings.TrimSpace(m.Name),
				Strength:   strings.TrimSpace(m.Strength),
				DosageForm: strings.TrimSpace(m.DosageForm),
				Directions: strings.TrimSpace(m.Directions),
				Indication: strings.TrimSpace(m.Indication),
				Prescriber: strings.TrimSpace(m.Prescriber),
			})
		}
		out.Medications = meds
	}
	if c.Allergies != nil {
		allergies := make([]Allergy, 0, len(c.Allergies))
		for _, a := range c.Allergies {
			allergies = append(allergies, Allergy{
				ID:          e.newID(),
				Description: strings.TrimSpace(a.Description),
				Reaction:    strings.TrimSpace(a.Reaction),
			})
		}
		out.Allergies = allergies
	}
	if c.MedicalConditions != nil {
		conditions := make([]Condition, 0, len(c.MedicalConditions))
		for _, cond := range c.MedicalConditions {
			conditions = append(conditions, Condition{
				ID:    e.newID(),
				Name:  strings.TrimSpace(cond.Name),
				Notes: strings.TrimSpace(cond.Notes),
			})
		}
		out.MedicalConditions = conditions
	}
	if c.Worksheet != nil && c.Worksheet.Medications != nil {
		rows := make([]WorksheetMedication, 0, len(c.Worksheet.Medications))
		for _, m := range c.Worksheet.Medications {
			rows = append(rows, WorksheetMedication{
				ID:         e.newID(),
				Name:       strings.TrimSpace(m.Name),
				Strength:   strings.TrimSpace(m.Strength),
				DosageForm: strings.TrimSpace(m.DosageForm),
				Directions: strings.TrimSpace(m.Directions),
				Indication: strings.TrimSpace(m.Indication),
				Adherence:  strings.TrimSpace(m.Adherence),
				Comments:   strings.TrimSpace(m.Comments),
			})
		}
		out.Worksheet.Medications = rows
	}
	if c.MedicationRecord != nil && c.MedicationRecord.Medications != nil {
		rows := make([]MedicationRecordRow, 0, len(c.MedicationRecord.Medications))
		for _, m := range c.MedicationRecord.Medications {
			rows = append(rows, MedicationRecordRow{
				ID:         e.newID(),
				Medication: strings.TrimSpace(m.Medication),
				Indication: strings.TrimSpace(m.Indication),
				Directions: strings.TrimSpace(m.Directions),
			})
		}
		out.MedicationRecord.Medications = rows
	}
}

// ---------- step 3: patient identity propagation ----------

// propagatePatientIdentity copies patient identity and contact fields from
// the worksheet (the most detailed section) to the shared patient entity and
// every other form section. It runs only when the candidate touched the
// worksheet's identity fields; diverged per-form values are otherwise left
// alone. Each target is overwritten only when the source value is non-empty.
func (e *Engine) propagatePatientIdentity(c Candidate, out *Record) {
	if !c.Worksheet.touchesPatientIdentity() {
		return
	}
	ws := out.Worksheet

	copyIfSet(&out.Patient.FirstName, ws.PatientFirstName)
	copyIfSet(&out.Patient.LastName, ws.PatientLastName)
	copyIfSet(&out.Patient.DateOfBirth, ws.DateOfBirth)
	copyIfSet(&out.Patient.HealthCardNumber, ws.HealthCardNumber)
	copyIfSet(&out.Patient.Address, ws.Address)
	copyIfSet(&out.Patient.City, ws.City)
	copyIfSet(&out.Patient.Province, ws.Province)
	copyIfSet(&out.Patient.PostalCode, ws.PostalCode)
	copyIfSet(&out.Patient.Phone, ws.Phone)
	copyIfSet(&out.Patient.Email, ws.Email)

	copyIfSet(&out.MedicationRecord.PatientFirstName, ws.PatientFirstName)
	copyIfSet(&out.MedicationRecord.PatientLastName, ws.PatientLastName)
	copyIfSet(&out.MedicationRecord.DateOfBirth, ws.DateOfBirth)
	copyIfSet(&out.MedicationRecord.Phone, ws.Phone)

	fullName := ComposeName(ws.PatientFirstName, ws.PatientLastName)
	copyIfSet(&out.Acknowledgement.PatientName, fullName)
	copyIfSet(&out.Acknowledgement.DateOfBirth, ws.DateOfBirth)
	copyIfSet(&out.Acknowledgement.HealthCardNumber, ws.HealthCardNumber)

	copyIfSet(&out.Notification.PatientFullName, fullName)
	copyIfSet(&out.Notification.PatientPhone, ws.Phone)
	copyIfSet(&out.Notification.PatientDateOfBirth, ws.DateOfBirth)

	copyIfSet(&out.DiabetesChecklist.PatientName, fullName)
	copyIfSet(&out.FollowUp.PatientName, fullName)
}

// ---------- step 4: provider and allergy propagation ----------

func (e *Engine) propagateProviderAndAllergies(c Candidate, out *Record) {
	if !c.Worksheet.touchesProviderOrAllergies() {
		return
	}
	ws := out.Worksheet

	copyIfSet(&out.PrimaryCareProvider.Name, ws.ProviderName)
	copyIfSet(&out.PrimaryCareProvider.Phone, ws.ProviderPhone)
	copyIfSet(&out.Notification.ProviderName, ws.ProviderName)
	copyIfSet(&out.Notification.ProviderPhone, ws.ProviderPhone)
	copyIfSet(&out.MedicationRecord.Allergies, ws.Allergies)
}

// ---------- step 5: pharmacist identity resolution ----------

// resolvePharmacistName picks the first non-empty pharmacist name in fixed
// priority order (notification, medication record, worksheet, pharmacy) and
// writes it back into all four locations.
func (e *Engine) resolvePharmacistName(out *Record) {
	name := firstNonEmpty(
		out.Notification.PharmacistName,
		out.MedicationRecord.PharmacistName,
		out.Worksheet.PharmacistName,
		out.Pharmacy.PharmacistName,
	)
	if name == "" {
		return
	}
	out.Notification.PharmacistName = name
	out.MedicationRecord.PharmacistName = name
	out.Worksheet.PharmacistName = name
	out.Pharmacy.PharmacistName = name
}

// ---------- step 6: medication record derivation ----------

// deriveMedicationRecordRows rebuilds the patient-facing medication record
// rows from the worksheet table: drug name, strength and dosage form are
// concatenated into the single composed medication column.
func (e *Engine) deriveMedicationRecordRows(out *Record) {
	if len(out.Worksheet.Medications) == 0 {
		return
	}
	rows := make([]MedicationRecordRow, 0, len(out.Worksheet.Medications))
	for _, m := range out.Worksheet.Medications {
		rows = append(rows, MedicationRecordRow{
			ID:         e.newID(),
			Medication: joinNonEmpty(" ", m.Name, m.Strength, m.DosageForm),
			Indication: m.Indication,
			Directions: m.Directions,
		})
	}
	out.MedicationRecord.Medications = rows
}

// ---------- step 7: legacy flat shape ----------

// applyLegacyFields applies the pre-restructuring flat extraction shape.
// Legacy fields win over the section-level propagation for any field they
// supply.
func (e *Engine) applyLegacyFields(c Candidate, out *Record) {
	if name := deref(c.PatientName); name != "" {
		first, last := SplitName(name)
		copyIfSet(&out.Patient.FirstName, first)
		copyIfSet(&out.Patient.LastName, last)
		copyIfSet(&out.Worksheet.PatientFirstName, first)
		copyIfSet(&out.Worksheet.PatientLastName, last)
		copyIfSet(&out.MedicationRecord.PatientFirstName, first)
		copyIfSet(&out.MedicationRecord.PatientLastName, last)
		out.Acknowledgement.PatientName = name
		out.Notification.PatientFullName = name
		out.DiabetesChecklist.PatientName = name
		out.FollowUp.PatientName = name
	}
	if phone := deref(c.PatientPhone); phone != "" {
		out.Patient.Phone = phone
		out.Worksheet.Phone = phone
		out.MedicationRecord.Phone = phone
		out.Notification.PatientPhone = phone
	}
	if dob := deref(c.PatientDateOfBirth); dob != "" {
		out.Patient.DateOfBirth = dob
		out.Worksheet.DateOfBirth = dob
		out.MedicationRecord.DateOfBirth = dob
		out.Acknowledgement.DateOfBirth = dob
		out.Notification.PatientDateOfBirth = dob
	}
	if provider := deref(c.ProviderName); provider != "" {
		out.PrimaryCareProvider.Name = provider
		out.Notification.ProviderName = provider
		out.Worksheet.ProviderName = provider
	}
	if pharmacist := deref(c.PharmacistName); pharmacist != "" {
		out.Notification.PharmacistName = pharmacist
		out.MedicationRecord.PharmacistName = pharmacist
		out.Worksheet.PharmacistName = pharmacist
		out.Pharmacy.PharmacistName = pharmacist
	}
	if allergies := deref(c.AllergiesText); allergies != "" {
		out.MedicationRecord.Allergies = allergies
		out.Worksheet.Allergies = allergies
	}
}

// ---------- helpers ----------

// setString applies a candidate field following the fill-if-present rule:
// a nil or blank candidate value never overwrites the existing one.
func setString(dst *string, src *string) {
	if src == nil {
		return
	}
	if v := strings.TrimSpace(*src); v != "" {
		*dst = v
	}
}

// setBool applies a candidate boolean. Explicit presence is authoritative:
// both true and false overwrite.
func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func copyIfSet(dst *string, src string) {
	if strings.TrimSpace(src) != "" {
		*dst = src
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// ComposeName joins first and last name, tolerating either being empty.
func ComposeName(first, last string) string {
	return joinNonEmpty(" ", first, last)
}

// SplitName splits a composed full name into first name and remainder.
func SplitName(full string) (first, last string) {
	words := strings.Fields(full)
	switch len(words) {
	case 0:
		return "", ""
	case 1:
		return words[0], ""
	default:
		return words[0], strings.Join(words[1:], " ")
	}
}
