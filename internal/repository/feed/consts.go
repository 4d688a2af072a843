package feed

import "time"

const (
	// collection names, rooted at artifacts/{appId}/users/{userId}
	artifactsNode string = "artifacts"
	usersNode     string = "users"
	feedItemsNode string = "feedItems"

	// Fields' name and path
	TypeFieldPath      string = "type"
	TimestampFieldPath string = "timestamp"

	// TypeAIRecommendation tags entries written by the recommendation pipeline.
	TypeAIRecommendation string = "ai_recommendation"

	// It must not exceed the write timeout of the database.firestore.notifyOnChanges
	channelWriteTimeout time.Duration = time.Second * 3
)
