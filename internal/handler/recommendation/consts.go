package recommendation

const (
	RECOMMENDATION_INSTRUCTION string = `As a friendly and knowledgeable AI book recommender for "AI BookNest", provide a single book recommendation based on the following user input: "%s".
Format your response as follows:
Book Title: [Title of the book]
Author: [Author's Name]
Genre: [Primary Genre]
Summary: [A concise, engaging summary (2-4 sentences)]
Why this book: [1-2 sentences explaining why it fits the user's prompt]

If the input is vague, try to infer. If it's completely irrelevant to books, politely ask for book-related input.`

	// recognized reply prefixes
	titlePrefix   = "Book Title:"
	authorPrefix  = "Author:"
	genrePrefix   = "Genre:"
	summaryPrefix = "Summary:"
	whyPrefix     = "Why this book:"

	// fallback texts for replies that carry no recognizable title
	fallbackTitleLong     = "AI Suggestion"
	fallbackWhyLong       = "AI generated response."
	fallbackTitleShort    = "Could Not Generate Recommendation"
	fallbackWhyShort      = "The AI could not provide a specific book in the expected format."
	fallbackSummaryLength = 100
	shortReplyThreshold   = 50

	// response bodies
	msgMethodNotAllowed = "Method Not Allowed"
	msgBadRequest       = "Bad Request: Missing prompt, userId, or appId."
	msgNoToken          = "Unauthorized: No ID token provided."
	msgInvalidToken     = "Unauthorized: Invalid ID token."
	msgUidMismatch      = "Forbidden: User ID mismatch."
	msgUpstreamFailure  = "Failed to generate recommendation. Please try again later."
)
