// Package forms defines the shared MedsCheck record aggregate: patient,
// pharmacy and provider identity, medication/allergy/condition lists, and
// the six independently-editable form sections rendered as separate
// documents. Fields that describe the same real-world fact in different
// sections are deliberately separate copies; only the merge engine keeps
// them in sync.
package forms

import "time"

// SchemaVersion tags persisted records so older payloads can be migrated.
const SchemaVersion = "2"

// Review status values shared by the notification form and the worksheet.
const (
	StatusNoIssues         = "no_issues"
	StatusIssuesIdentified = "issues_identified"
)

// Patient is the canonical patient identity shared across forms.
type Patient struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"`
	HealthCardNumber string `json:"healthCardNumber"`
	Address          string `json:"address"`
	City             string `json:"city"`
	Province         string `json:"province"`
	PostalCode       string `json:"postalCode"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
}

// Pharmacy identifies the dispensing pharmacy and the pharmacist of record.
type Pharmacy struct {
	Name                string `json:"name"`
	Address             string `json:"address"`
	City                string `json:"city"`
	Province            string `json:"province"`
	PostalCode          string `json:"postalCode"`
	Phone               string `json:"phone"`
	Fax                 string `json:"fax"`
	AccreditationNumber string `json:"accreditationNumber"`
	PharmacistName      string `json:"pharmacistName"`
	OCPNumber           string `json:"ocpNumber"`
}

// Provider is a physician or nurse practitioner involved in the patient's care.
type Provider struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Fax     string `json:"fax"`
	Address string `json:"address"`
}

// Medication is an entry in the canonical medication list. IDs are assigned
// at creation and never recomputed on update.
type Medication struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Strength   string `json:"strength"`
	DosageForm string `json:"dosageForm"`
	Directions string `json:"directions"`
	Indication string `json:"indication"`
	Prescriber string `json:"prescriber"`
}

// Allergy is an entry in the canonical allergy list.
type Allergy struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Reaction    string `json:"reaction"`
}

// Condition is an entry in the canonical medical condition list.
type Condition struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// Acknowledgement mirrors the MedsCheck Patient Acknowledgement form.
type Acknowledgement struct {
	PatientName      string `json:"patientName"`
	DateOfBirth      string `json:"dateOfBirth"`
	HealthCardNumber string `json:"healthCardNumber"`
	ReviewDate       string `json:"reviewDate"`
	PharmacistName   string `json:"pharmacistName"`
	AnnualReview     bool   `json:"annualReview"`
	FollowUpReview   bool   `json:"followUpReview"`
}

// MedicationRecordRow is one printed row of the Personal Medication Record.
// The Medication column is a single composed free-text field (drug name,
// strength and dosage form concatenated).
type MedicationRecordRow struct {
	ID         string `json:"id"`
	Medication string `json:"medication"`
	Indication string `json:"indication"`
	Directions string `json:"directions"`
}

// MedicationRecord mirrors the Personal Medication Record form handed to
// the patient.
type MedicationRecord struct {
	PatientFirstName string                `json:"patientFirstName"`
	PatientLastName  string                `json:"patientLastName"`
	DateOfBirth      string                `json:"dateOfBirth"`
	Phone            string                `json:"phone"`
	Allergies        string                `json:"allergies"`
	PharmacistName   string                `json:"pharmacistName"`
	ReviewDate       string                `json:"reviewDate"`
	Medications      []MedicationRecordRow `json:"medications"`
}

// Notification mirrors the Healthcare Provider Notification form faxed to
// the primary care provider after a review.
type Notification struct {
	PatientFullName    string `json:"patientFullName"`
	PatientPhone       string `json:"patientPhone"`
	PatientDateOfBirth string `json:"patientDateOfBirth"`
	ProviderName       string `json:"providerName"`
	ProviderPhone      string `json:"providerPhone"`
	ProviderFax        string `json:"providerFax"`
	PharmacistName     string `json:"pharmacistName"`
	PharmacyName       string `json:"pharmacyName"`
	PharmacyPhone      string `json:"pharmacyPhone"`
	PharmacyFax        string `json:"pharmacyFax"`
	NotificationDate   string `json:"notificationDate"`
	Status             string `json:"status"`
	IssuesDescription  string `json:"issuesDescription"`
	Comments           string `json:"comments"`
}

// WorksheetMedication is one structured row of the pharmacist worksheet's
// medication assessment table.
type WorksheetMedication struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Strength   string `json:"strength"`
	DosageForm string `json:"dosageForm"`
	Directions string `json:"directions"`
	Indication string `json:"indication"`
	Adherence  string `json:"adherence"`
	Comments   string `json:"comments"`
}

// Worksheet mirrors the Pharmacist Worksheet, the most detailed of the six
// forms and the authoritative source for cross-form synchronization.
type Worksheet struct {
	PatientFirstName  string                `json:"patientFirstName"`
	PatientLastName   string                `json:"patientLastName"`
	DateOfBirth       string                `json:"dateOfBirth"`
	HealthCardNumber  string                `json:"healthCardNumber"`
	Address           string                `json:"address"`
	City              string                `json:"city"`
	Province          string                `json:"province"`
	PostalCode        string                `json:"postalCode"`
	Phone             string                `json:"phone"`
	Email             string                `json:"email"`
	Allergies         string                `json:"allergies"`
	ProviderName      string                `json:"providerName"`
	ProviderPhone     string                `json:"providerPhone"`
	PharmacistName    string                `json:"pharmacistName"`
	ClinicalNotes     string                `json:"clinicalNotes"`
	Status            string                `json:"status"`
	IssuesDescription string                `json:"issuesDescription"`
	Medications       []WorksheetMedication `json:"medications"`
}

// DiabetesChecklist mirrors the Diabetes Education Checklist auxiliary form.
type DiabetesChecklist struct {
	PatientName    string `json:"patientName"`
	SelfMonitoring bool   `json:"selfMonitoring"`
	Nutrition      bool   `json:"nutrition"`
	Exercise       bool   `json:"exercise"`
	FootCare       bool   `json:"footCare"`
	Hypoglycemia   bool   `json:"hypoglycemia"`
	ReferralMade   bool   `json:"referralMade"`
	Notes          string `json:"notes"`
}

// FollowUpPlan mirrors the Follow-Up Plan auxiliary form.
type FollowUpPlan struct {
	PatientName    string `json:"patientName"`
	Reason         string `json:"reason"`
	ScheduledDate  string `json:"scheduledDate"`
	PharmacistName string `json:"pharmacistName"`
	Notes          string `json:"notes"`
}

// Record is the single aggregate document passed through the pipeline.
// It is created fully populated by NewRecord and only ever mutated through
// direct user edits or the merge engine; it is never partially constructed.
type Record struct {
	ID string `json:"id"`

	Patient             Patient      `json:"patient"`
	Pharmacy            Pharmacy     `json:"pharmacy"`
	PrimaryCareProvider Provider     `json:"primaryCareProvider"`
	Specialists         []Provider   `json:"specialists"`
	Medications         []Medication `json:"medications"`
	Allergies           []Allergy    `json:"allergies"`
	MedicalConditions   []Condition  `json:"medicalConditions"`

	Acknowledgement   Acknowledgement   `json:"acknowledgement"`
	MedicationRecord  MedicationRecord  `json:"medicationRecord"`
	Notification      Notification      `json:"notification"`
	Worksheet         Worksheet         `json:"worksheet"`
	DiabetesChecklist DiabetesChecklist `json:"diabetesChecklist"`
	FollowUp          FollowUpPlan      `json:"followUp"`

	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewRecord returns a fully-populated default record: every field present,
// empty-string or false valued, list fields non-nil and empty.
func NewRecord(id string, now time.Time) Record {
	return Record{
		ID:                id,
		Specialists:       []Provider{},
		Medications:       []Medication{},
		Allergies:         []Allergy{},
		MedicalConditions: []Condition{},
		MedicationRecord:  MedicationRecord{Medications: []MedicationRecordRow{}},
		Worksheet:         Worksheet{Medications: []WorksheetMedication{}},
		Version:           SchemaVersion,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Clone returns a deep copy of the record. The merge engine works on a clone
// so the caller's record is never mutated.
func (r Record) Clone() Record {
	out := r
	out.Specialists = append([]Provider(nil), r.Specialists...)
	out.Medications = append([]Medication(nil), r.Medications...)
	out.Allergies = append([]Allergy(nil), r.Allergies...)
	out.MedicalConditions = append([]Condition(nil), r.MedicalConditions...)
	out.MedicationRecord.Medications = append([]MedicationRecordRow(nil), r.MedicationRecord.Medications...)
	out.Worksheet.Medications = append([]WorksheetMedication(nil), r.Worksheet.Medications...)
	return out
}
