package models

// Post is a feed entry. Text and both images are optional, but at least one
// of them is non-empty at creation time. Posts are never edited or deleted;
// only the like counter moves.
type Post struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Text      string `json:"text,omitempty"`
	BeforeImg string `json:"beforeImg,omitempty"` // data URI
	AfterImg  string `json:"afterImg,omitempty"`  // data URI
	Likes     int    `json:"likes"`
	CreatedAt string `json:"createdAt"` // ISO-8601 UTC; lexical order == chronological order
}

// ChatMessage is a single chat entry. Time is a localized short time string
// for display only, never used for ordering.
type ChatMessage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
	Text string `json:"text"`
}

// UserStat holds the increment-only counters behind a user's score.
type UserStat struct {
	Posts    int `json:"posts"`
	Missions int `json:"missions"`
}

// LeaderboardRow is one derived ranking entry.
type LeaderboardRow struct {
	Username string `json:"username"`
	Posts    int    `json:"posts"`
	Missions int    `json:"missions"`
	Points   int    `json:"points"`
}
