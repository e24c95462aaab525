package model

import "time"

type MemberStatus string

var (
	MemberActive   MemberStatus = "Active"
	MemberInactive MemberStatus = "Inactive"
)

type Member struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	JoinDate time.Time    `json:"joinDate"`
	Status   MemberStatus `json:"status"`
}

// MemberCSV is the column layout used for roster import and export.
type MemberCSV struct {
	Name     string `csv:"name"`
	Email    string `csv:"email"`
	Status   string `csv:"status"`
	JoinDate string `csv:"join_date"`
}

type Announcement struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	Author  string    `json:"author,omitempty"`
}

type AnnouncementView struct {
	Announcement
	ContentHTML string `json:"contentHtml"`
}
