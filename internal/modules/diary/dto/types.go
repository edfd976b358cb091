package dto

import "time"

type AttachmentInput struct {
	Path string
}

type CreateInput struct {
	UserID      string
	Date        time.Time
	Mood        string
	MoodScore   int
	Tags        string
	Content     string
	Attachments []AttachmentInput
}

// UpdateInput replaces metadata and content; nil fields are left unchanged.
type UpdateInput struct {
	UserID         string
	ID             string
	Date           *time.Time
	Mood           *string
	MoodScore      *int
	Tags           *string
	Content        *string
	AddAttachments []AttachmentInput
}

type AttachmentOutput struct {
	ID           string
	Kind         string
	Path         string
	OriginalName string
}

type EntryOutput struct {
	ID        string
	Date      time.Time
	Mood      string
	MoodScore int
	Tags      []string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Files     []AttachmentOutput
}

type ListInput struct {
	UserID string
	Query  string
	Mood   string
	Tag    string
	Limit  int
}

type MonthCount struct {
	Month string
	Count int
}

type MoodCount struct {
	Mood  string
	Count int
}

type StatsOutput struct {
	Total    int
	AvgScore float64
	ByMood   []MoodCount
	ByMonth  []MonthCount
}

type ExportInput struct {
	UserID string
	Dir    string
}

type ExportOutput struct {
	Dir     string
	Written []string
	Index   string
}
