// Package model contains the read models exchanged with the skill API.
package model

// Project is an uploaded, analyzed set of source files.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UploadedAt  Timestamp `json:"uploadedAt"`
	TotalFiles  int       `json:"totalFiles"`
	TotalSizeKB int64     `json:"totalSizeKb"`
}

// FileSubmission is one file of an upload. Extension is empty when the
// filename carries none.
type FileSubmission struct {
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	Extension string `json:"extension,omitempty"`
}

// UploadRequest is the body of POST /projects/upload.
type UploadRequest struct {
	ProjectName string           `json:"projectName"`
	Description string           `json:"description"`
	Files       []FileSubmission `json:"files"`
}

// UploadAck is what the API returns for an accepted upload.
type UploadAck struct {
	Project *Project `json:"project,omitempty"`
	Skills  []Skill  `json:"skills,omitempty"`
	Message string   `json:"message,omitempty"`
}
