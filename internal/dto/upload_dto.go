package dto

type PresignRequest struct {
	Target      string `json:"target"`
	Kind        string `json:"kind"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	WaitlistID  string `json:"waitlist_id,omitempty"`
}

type UploadContext struct {
	Target     string  `json:"target"`
	Kind       string  `json:"kind"`
	WaitlistID *string `json:"waitlist_id"`
}

type PresignResponse struct {
	OK        bool              `json:"ok"`
	UploadURL string            `json:"upload_url"`
	Fields    map[string]string `json:"fields"`
	Key       string            `json:"key"`
	PublicURL string            `json:"public_url"`
	Context   UploadContext     `json:"context"`
}

type CommitRequest struct {
	Target     string `json:"target"`
	Kind       string `json:"kind"`
	Key        string `json:"key"`
	PublicURL  string `json:"public_url"`
	WaitlistID string `json:"waitlist_id,omitempty"`
}
