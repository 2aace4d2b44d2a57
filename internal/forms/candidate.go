package forms

// Candidate is the loosely-shaped extraction result: a fully optional
// mirror of Record. A nil pointer means the extractor did not produce the
// field and must never clobber an existing value; explicit booleans are
// authoritative either way. List fields are wholesale replacements when
// non-nil — incoming identifiers are ignored and regenerated by the merge
// engine.
type Candidate struct {
	Patient             *PatientPatch           `json:"patient,omitempty"`
	Pharmacy            *PharmacyPatch          `json:"pharmacy,omitempty"`
	PrimaryCareProvider *ProviderPatch          `json:"primaryCareProvider,omitempty"`
	Medications         []MedicationPatch       `json:"medications,omitempty"`
	Allergies           []AllergyPatch          `json:"allergies,omitempty"`
	MedicalConditions   []ConditionPatch        `json:"medicalConditions,omitempty"`
	Acknowledgement     *AcknowledgementPatch   `json:"acknowledgement,omitempty"`
	MedicationRecord    *MedicationRecordPatch  `json:"medicationRecord,omitempty"`
	Notification        *NotificationPatch      `json:"notification,omitempty"`
	Worksheet           *WorksheetPatch         `json:"worksheet,omitempty"`
	DiabetesChecklist   *DiabetesChecklistPatch `json:"diabetesChecklist,omitempty"`
	FollowUp            *FollowUpPlanPatch      `json:"followUp,omitempty"`

	// Flat legacy shape, produced by the pre-restructuring extraction
	// prompt. Applied after section patches and wins for any field it
	// supplies.
	PatientName        *string `json:"patientName,omitempty"`
	PatientPhone       *string `json:"patientPhone,omitempty"`
	PatientDateOfBirth *string `json:"patientDateOfBirth,omitempty"`
	ProviderName       *string `json:"providerName,omitempty"`
	PharmacistName     *string `json:"pharmacistName,omitempty"`
	AllergiesText      *string `json:"allergiesText,omitempty"`
}

// PatientPatch mirrors Patient with every field optional.
type PatientPatch struct {
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	DateOfBirth      *string `json:"dateOfBirth,omitempty"`
	HealthCardNumber *string `json:"healthCardNumber,omitempty"`
	Address          *string `json:"address,omitempty"`
	City             *string `json:"city,omitempty"`
	Province         *string `json:"province,omitempty"`
	PostalCode       *string `json:"postalCode,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Email            *string `json:"email,omitempty"`
}

// PharmacyPatch mirrors Pharmacy with every field optional.
type PharmacyPatch struct {
	Name                *string `json:"name,omitempty"`
	Address             *string `json:"address,omitempty"`
	City                *string `json:"city,omitempty"`
	Province            *string `json:"province,omitempty"`
	PostalCode          *string `json:"postalCode,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	Fax                 *string `json:"fax,omitempty"`
	AccreditationNumber *string `json:"accreditationNumber,omitempty"`
	PharmacistName      *string `json:"pharmacistName,omitempty"`
	OCPNumber           *string `json:"ocpNumber,omitempty"`
}

// ProviderPatch mirrors Provider with every field optional.
type ProviderPatch struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Fax     *string `json:"fax,omitempty"`
	Address *string `json:"address,omitempty"`
}

// MedicationPatch is a replacement row for the canonical medication list.
// Any ID supplied by the extractor is discarded.
type MedicationPatch struct {
	Name       string `json:"name"`
	Strength   string `json:"strength"`
	DosageForm string `json:"dosageForm"`
	Directions string `json:"directions"`
	Indication string `json:"indication"`
	Prescriber string `json:"prescriber"`
}

// AllergyPatch is a replacement row for the canonical allergy list.
type AllergyPatch struct {
	Description string `json:"description"`
	Reaction    string `json:"reaction"`
}

// ConditionPatch is a replacement row for the canonical condition list.
type ConditionPatch struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// AcknowledgementPatch mirrors Acknowledgement with every field optional.
type AcknowledgementPatch struct {
	PatientName      *string `json:"patientName,omitempty"`
	DateOfBirth      *string `json:"dateOfBirth,omitempty"`
	HealthCardNumber *string `json:"healthCardNumber,omitempty"`
	ReviewDate       *string `json:"reviewDate,omitempty"`
	PharmacistName   *string `json:"pharmacistName,omitempty"`
	AnnualReview     *bool   `json:"annualReview,omitempty"`
	FollowUpReview   *bool   `json:"followUpReview,omitempty"`
}

// MedicationRecordRowPatch is a replacement row for the medication record.
type MedicationRecordRowPatch struct {
	Medication string `json:"medication"`
	Indication string `json:"indication"`
	Directions string `json:"directions"`
}

// MedicationRecordPatch mirrors MedicationRecord with every field optional.
type MedicationRecordPatch struct {
	PatientFirstName *string                    `json:"patientFirstName,omitempty"`
	PatientLastName  *string                    `json:"patientLastName,omitempty"`
	DateOfBirth      *string                    `json:"dateOfBirth,omitempty"`
	Phone            *string                    `json:"phone,omitempty"`
	Allergies        *string                    `json:"allergies,omitempty"`
	PharmacistName   *string                    `json:"pharmacistName,omitempty"`
	ReviewDate       *string                    `json:"reviewDate,omitempty"`
	Medications      []MedicationRecordRowPatch `json:"medications,omitempty"`
}

// NotificationPatch mirrors Notification with every field optional.
type NotificationPatch struct {
	PatientFullName    *string `json:"patientFullName,omitempty"`
	PatientPhone       *string `json:"patientPhone,omitempty"`
	PatientDateOfBirth *string `json:"patientDateOfBirth,omitempty"`
	ProviderName       *string `json:"providerName,omitempty"`
	ProviderPhone      *string `json:"providerPhone,omitempty"`
	ProviderFax        *string `json:"providerFax,omitempty"`
	PharmacistName     *string `json:"pharmacistName,omitempty"`
	PharmacyName       *string `json:"pharmacyName,omitempty"`
	PharmacyPhone      *string `json:"pharmacyPhone,omitempty"`
	PharmacyFax        *string `json:"pharmacyFax,omitempty"`
	NotificationDate   *string `json:"notificationDate,omitempty"`
	Status             *string `json:"status,omitempty"`
	IssuesDescription  *string `json:"issuesDescription,omitempty"`
	Comments           *string `json:"comments,omitempty"`
}

// WorksheetMedicationPatch is a replacement row for the worksheet table.
type WorksheetMedicationPatch struct {
	Name       string `json:"name"`
	Strength   string `json:"strength"`
	DosageForm string `json:"dosageForm"`
	Directions string `json:"directions"`
	Indication string `json:"indication"`
	Adherence  string `json:"adherence"`
	Comments   string `json:"comments"`
}

// WorksheetPatch mirrors Worksheet with every field optional.
type WorksheetPatch struct {
	PatientFirstName  *string                    `json:"patientFirstName,omitempty"`
	PatientLastName   *string                    `json:"patientLastName,omitempty"`
	DateOfBirth       *string                    `json:"dateOfBirth,omitempty"`
	HealthCardNumber  *string                    `json:"healthCardNumber,omitempty"`
	Address           *string                    `json:"address,omitempty"`
	City              *string                    `json:"city,omitempty"`
	Province          *string                    `json:"province,omitempty"`
	PostalCode        *string                    `json:"postalCode,omitempty"`
	Phone             *string                    `json:"phone,omitempty"`
	Email             *string                    `json:"email,omitempty"`
	Allergies         *string                    `json:"allergies,omitempty"`
	ProviderName      *string                    `json:"providerName,omitempty"`
	ProviderPhone     *string                    `json:"providerPhone,omitempty"`
	PharmacistName    *string                    `json:"pharmacistName,omitempty"`
	ClinicalNotes     *string                    `json:"clinicalNotes,omitempty"`
	Status            *string                    `json:"status,omitempty"`
	IssuesDescription *string                    `json:"issuesDescription,omitempty"`
	Medications       []WorksheetMedicationPatch `json:"medications,omitempty"`
}

// DiabetesChecklistPatch mirrors DiabetesChecklist with every field optional.
type DiabetesChecklistPatch struct {
	PatientName    *string `json:"patientName,omitempty"`
	SelfMonitoring *bool   `json:"selfMonitoring,omitempty"`
	Nutrition      *bool   `json:"nutrition,omitempty"`
	Exercise       *bool   `json:"exercise,omitempty"`
	FootCare       *bool   `json:"footCare,omitempty"`
	Hypoglycemia   *bool   `json:"hypoglycemia,omitempty"`
	ReferralMade   *bool   `json:"referralMade,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// FollowUpPlanPatch mirrors FollowUpPlan with every field optional.
type FollowUpPlanPatch struct {
	PatientName    *string `json:"patientName,omitempty"`
	Reason         *string `json:"reason,omitempty"`
	ScheduledDate  *string `json:"scheduledDate,omitempty"`
	PharmacistName *string `json:"pharmacistName,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// IsEmpty reports whether the candidate carries nothing at all.
func (c Candidate) IsEmpty() bool {
	return c.Patient == nil && c.Pharmacy == nil && c.PrimaryCareProvider == nil &&
		c.Medications == nil && c.Allergies == nil && c.MedicalConditions == nil &&
		c.Acknowledgement == nil && c.MedicationRecord == nil && c.Notification == nil &&
		c.Worksheet == nil && c.DiabetesChecklist == nil && c.FollowUp == nil &&
		c.PatientName == nil && c.PatientPhone == nil && c.PatientDateOfBirth == nil &&
		c.ProviderName == nil && c.PharmacistName == nil && c.AllergiesText == nil
}

// touchesPatientIdentity reports whether the worksheet patch carries any
// patient identity, address or contact component. Propagation to the other
// sections only happens when it does.
func (w *WorksheetPatch) touchesPatientIdentity() bool {
	if w == nil {
		return false
	}
	return w.PatientFirstName != nil || w.PatientLastName != nil ||
		w.DateOfBirth != nil || w.HealthCardNumber != nil ||
		w.Address != nil || w.City != nil || w.Province != nil ||
		w.PostalCode != nil || w.Phone != nil || w.Email != nil
}

// touchesProviderOrAllergies reports whether the worksheet patch carries
// provider identity or allergy text.
func (w *WorksheetPatch) touchesProviderOrAllergies() bool {
	if w == nil {
		return false
	}
	return w.ProviderName != nil || w.ProviderPhone != nil || w.Allergies != nil
}
