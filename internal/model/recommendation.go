package model

import "time"

type RecommendationRequest struct {
	Prompt string `json:"prompt"`
	UserId string `json:"userId"`
	AppId  string `json:"appId"`
}

// ParsedRecommendation holds the fixed fields extracted from the model's
// free-text reply. All fields are optional; the parser guarantees a non-empty
// title through its fallbacks.
type ParsedRecommendation struct {
	BookTitle   string `json:"bookTitle,omitempty" firestore:"bookTitle,omitempty"`
	Author      string `json:"author,omitempty" firestore:"author,omitempty"`
	Genre       string `json:"genre,omitempty" firestore:"genre,omitempty"`
	Summary     string `json:"summary,omitempty" firestore:"summary,omitempty"`
	WhyThisBook string `json:"whyThisBook,omitempty" firestore:"whyThisBook,omitempty"`
}

// FeedEntry is one recorded AI interaction in a user's activity history.
// Timestamp is assigned by the server on write; entries are never mutated.
type FeedEntry struct {
	Type       string               `json:"type" firestore:"type"`
	UserPrompt string               `json:"userPrompt" firestore:"userPrompt"`
	AiResponse ParsedRecommendation `json:"aiResponse" firestore:"aiResponse"`
	Timestamp  time.Time            `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}
