package constant

// Classifier prompts. The classifier must answer with a bare "Yes" or "No".
const (
	HealthRelatedSystemPrompt = `You are an AI that classifies whether a user's input is related to health concerns.
- If the input describes symptoms, their characteristics (e.g., duration, severity, pattern), or medical conditions, respond with "Yes".
- If the input is unrelated (e.g., asking about weather, sports, jokes), respond with "No".
- If the input is a description of symptoms like "on and off", "come and go", or "sharp pain", respond with "Yes".
- Only return "Yes" or "No" with no extra words.`

	HealthRelatedQueryTemplate = "User input: '%s'. Is this related to health concerns?"

	AnswersQuestionSystemPrompt = `You are an AI that verifies if a user's answer correctly addresses a follow-up question about health symptoms.
- If the answer is directly related to the question, respond with "Yes".
- If the answer is vague, off-topic, or does not answer the question, respond with "No".
- Consider common ways patients describe symptoms (e.g., "sharp pain" for headache severity).
- Do not reject answers that provide symptom descriptions even if they are short (e.g., "mild", "on and off", "yes", "no").
- Only return "Yes" or "No" with no extra words.`

	AnswersQuestionQueryTemplate = "Follow-up Question: %s\nUser Answer: %s\nIs the answer relevant to the question?"
)

// Generator prompts.
const (
	FollowUpSystemPrompt = `You are a medical assistant that asks only follow-up questions related to the provided symptom.
- Do not introduce new symptoms.
- If the user reports "headache", ask about headache specifics.
- If the user reports "cough", ask about cough specifics (e.g., phlegm, fever).
- Generate exactly 3 follow-up questions, one per line, with no numbering or extra text.
- If fewer than 3 relevant questions exist, return only what's necessary.
- If no follow-up question is needed, return exactly: no follow-ups needed
- DON'T ask about severity on a scale or duration.`

	FollowUpQueryTemplate = "User symptoms: %s. What follow-up questions should I ask?"

	// NoFollowUpsSentinel is compared after trimming and lowercasing.
	NoFollowUpsSentinel = "no follow-ups needed"

	AdviceSystemPrompt = `You are a virtual healthcare assistant specializing in home remedies.
- Provide home treatments for the given symptoms based on the reference document.
- If multiple remedies exist, suggest the most effective and commonly available options.
- If no remedy is found in the document, provide general self-care advice.
- Keep responses concise, easy to understand, and practical.`

	AdviceQueryTemplate = "My symptoms are: %s. Follow-up: %s. Duration: %s. Severity: %d/10. What home remedies can I try?"

	// GroundingContextHeader introduces retrieved passages inside the system prompt.
	GroundingContextHeader = "REFERENCE DOCUMENT EXCERPTS (use these first):"
)

// Field prompts shown to the user at each step.
const (
	ComplaintLabel       = "What symptoms are you experiencing?"
	ComplaintPlaceholder = "e.g., headache, fever, nausea"

	// DurationQuestion doubles as the question the duration answer is validated against.
	DurationQuestion    = "How long have you had these symptoms?"
	DurationPlaceholder = "e.g., 1 day, 3 days, 1 week"
	SeverityLabel       = "How severe are your symptoms? (1 = mild, 10 = severe)"
	LocationLabel       = "Enter your city and state/country"
	LocationPlaceholder = "e.g., 'Boston, MA' or 'London, UK'"
)

// User-visible warnings and fallbacks.
const (
	WarnComplaintMissing   = "Please enter your symptoms."
	WarnComplaintRejected  = "That doesn't look like a health concern. Please describe your symptoms."
	WarnFollowUpTemplate   = "Please provide a valid answer for: %s"
	WarnDurationInvalid    = "Please enter a valid duration (e.g., 1 day, 3 days, 1 week)."
	WarnSeverityOutOfRange = "Severity must be a whole number between 1 and 10."
	WarnLocationMissing    = "Please enter your location to find hospitals."
	WarnAlreadyComplete    = "This intake is complete. Restart to describe new symptoms."

	AdviceApology = "Sorry, I couldn't process your request. Please try again."

	MsgCoordinatesNotFound = "Unable to find coordinates for the entered location. Please check your input."
	MsgNoSuitableFacility  = "No suitable hospital found nearby. Please contact emergency services."
	MsgFacilityLookupError = "Unable to retrieve hospital data right now. Please try again or contact emergency services."

	UnnamedFacility = "Unnamed Hospital"
)
