package types

// Quote is a stored quote record. Timestamps are RFC3339 UTC strings so they
// sort lexicographically, matching the storage layer's string keys.
type Quote struct {
	ID        string   `json:"id" dynamodbav:"id"`
	Quote     string   `json:"quote" dynamodbav:"quote"`
	Author    string   `json:"author" dynamodbav:"author"`
	Tags      []string `json:"tags" dynamodbav:"tags"`
	ImageURL  string   `json:"image_url,omitempty" dynamodbav:"image_url,omitempty"`
	CreatedAt string   `json:"created_at,omitempty" dynamodbav:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty" dynamodbav:"updated_at,omitempty"`
	CreatedBy string   `json:"created_by,omitempty" dynamodbav:"created_by,omitempty"`
	UpdatedBy string   `json:"updated_by,omitempty" dynamodbav:"updated_by,omitempty"`

	// RecordType marks non-quote rows sharing the table (jobs, flags).
	RecordType string `json:"type,omitempty" dynamodbav:"type,omitempty"`
}
