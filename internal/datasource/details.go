package datasource

// AttachmentDetails is a read-only descriptor of a stored attachment,
// derived on demand from a stat of the backing file. It is never persisted.
//
// Mime stays empty: content type is not tracked at this layer.
type AttachmentDetails struct {
	ID       string `json:"id"`
	VaultID  string `json:"vault_id"`
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Mime     string `json:"mime,omitempty"`
}
