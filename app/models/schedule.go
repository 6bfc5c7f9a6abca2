package models

// ScheduleEntry places one message in the shared display cycle. Times are
// milliseconds.
type ScheduleEntry struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Duration int64  `json:"duration"`
	ShowTime int64  `json:"showTime"`
	Position int    `json:"position"`
}

type ScheduleResponse struct {
	Schedule        []ScheduleEntry `json:"schedule"`
	TotalMessages   int             `json:"totalMessages"`
	CycleDuration   int64           `json:"cycleDuration"`
	MessageInterval int64           `json:"messageInterval"`
	MessageDuration int64           `json:"messageDuration"`
	ServerTime      int64           `json:"serverTime"`
}
