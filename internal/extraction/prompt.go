package extraction

import "strings"

// extractionSystemPrompt is the fixed instruction contract sent to the text
// extraction service. It pins the output to the Candidate JSON shape so the
// reply can be decoded directly; the sanitizer still tolerates a stray code
// fence.
const extractionSystemPrompt = `You are a clinical data entry assistant for an Ontario pharmacy.
Extract structured MedsCheck form fields from the pharmacist's free-text notes.

Return ONLY a JSON object, nothing else. No markdown, no code fences, no explanation.
Omit any field the notes do not mention. Never invent values.

Formatting rules:
- Names: given name and surname only, no titles, no sentences.
- Phone and fax numbers: format as (XXX) XXX-XXXX.
- Dates: format as YYYY-MM-DD.
- Addresses: street address only in "address"; city, province and postal code in their own fields.
- status: one of "no_issues" or "issues_identified".
- adherence: one of "good", "partial", "poor".

JSON shape (all fields optional):
{
  "patient": {"firstName":"","lastName":"","dateOfBirth":"","healthCardNumber":"","address":"","city":"","province":"","postalCode":"","phone":"","email":""},
  "pharmacy": {"name":"","address":"","city":"","province":"","postalCode":"","phone":"","fax":"","accreditationNumber":"","pharmacistName":"","ocpNumber":""},
  "primaryCareProvider": {"name":"","phone":"","fax":"","address":""},
  "medications": [{"name":"","strength":"","dosageForm":"","directions":"","indication":"","prescriber":""}],
  "allergies": [{"description":"","reaction":""}],
  "medicalConditions": [{"name":"","notes":""}],
  "acknowledgement": {"patientName":"","dateOfBirth":"","healthCardNumber":"","reviewDate":"","pharmacistName":"","annualReview":false,"followUpReview":false},
  "medicationRecord": {"patientFirstName":"","patientLastName":"","dateOfBirth":"","phone":"","allergies":"","pharmacistName":"","reviewDate":"","medications":[{"medication":"","indication":"","directions":""}]},
  "notification": {"patientFullName":"","patientPhone":"","patientDateOfBirth":"","providerName":"","providerPhone":"","providerFax":"","pharmacistName":"","pharmacyName":"","pharmacyPhone":"","pharmacyFax":"","notificationDate":"","status":"","issuesDescription":"","comments":""},
  "worksheet": {"patientFirstName":"","patientLastName":"","dateOfBirth":"","healthCardNumber":"","address":"","city":"","province":"","postalCode":"","phone":"","email":"","allergies":"","providerName":"","providerPhone":"","pharmacistName":"","clinicalNotes":"","status":"","issuesDescription":"","medications":[{"name":"","strength":"","dosageForm":"","directions":"","indication":"","adherence":"","comments":""}]},
  "diabetesChecklist": {"patientName":"","selfMonitoring":false,"nutrition":false,"exercise":false,"footCare":false,"hypoglycemia":false,"referralMade":false,"notes":""},
  "followUp": {"patientName":"","reason":"","scheduledDate":"","pharmacistName":"","notes":""}
}`

// buildPrompt appends the raw notes to the fixed instruction payload.
func buildPrompt(rawText string) string {
	var b strings.Builder
	b.WriteString("Pharmacist notes:\n\"\"\"\n")
	b.WriteString(strings.TrimSpace(rawText))
	b.WriteString("\n\"\"\"\n")
	return b.String()
}
