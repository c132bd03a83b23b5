package model

import "time"

// Snapshot is a full dump of the store, suitable for backup and restore.
// ExportDate is serialized as an ISO-8601 timestamp.
type Snapshot struct {
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	Users        []User        `json:"users"`
	ExportDate   time.Time     `json:"exportDate"`
}
