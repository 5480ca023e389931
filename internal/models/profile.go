package models

// UserProfile is what the user tells us about themselves, either typed in or
// pre-filled from a résumé. It is never mutated once a generation request
// carries it.
type UserProfile struct {
	ID               string   `json:"id"`
	CurrentSituation string   `json:"currentSituation"`
	Interests        []string `json:"interests"`
	Experience       string   `json:"experience"`
	Goals            string   `json:"goals"`
}
