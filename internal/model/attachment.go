package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Attachment describes one stored upload. StoredName is the random on-disk
// name; OrigName is what the client called the file.
type Attachment struct {
	OrigName   string `json:"orig_name"`
	StoredName string `json:"stored_name"`
	Mime       string `json:"mime"`
	URL        string `json:"url"`
}

// AttachmentList is stored as a jsonb column.
type AttachmentList []Attachment

func (l AttachmentList) Value() (driver.Value, error) {
	if l == nil {
		l = AttachmentList{}
	}
	return json.Marshal(l)
}

func (l *AttachmentList) Scan(value interface{}) error {
	if value == nil {
		*l = AttachmentList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("attachments: unsupported column type")
	}

	if len(data) == 0 {
		*l = AttachmentList{}
		return nil
	}
	return json.Unmarshal(data, l)
}
