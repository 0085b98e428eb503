package bot

// Fixed user-facing messages. Each failure class has exactly one text; the
// details live in the log, never in the reply.
const (
	msgShareContact = "Please share your contact info to complete registration."
	msgWelcomeBack  = "Welcome back! You can start chatting now."
	msgContactSaved = "Thank you! Your contact info has been saved."

	// msgGenerationFallback is the only generation failure users ever see.
	msgGenerationFallback = "Sorry, I couldn't process that."

	msgExtractFailed = "Sorry, I couldn't extract text from the file."
	msgNoAnalysis    = "No analysis available."

	msgEmptyQuery   = "Please provide a search query."
	msgNoResults    = "No results found or there was an issue with the search."
	msgSearchFailed = "An error occurred while performing the search."

	msgInternalError = "Sorry, something went wrong. Please try again."
	msgUnknown       = "I don't understand that command."

	// analyzePromptPrefix heads the one-shot prompt built for file analysis.
	analyzePromptPrefix = "Analyze the following content:\n"
)
