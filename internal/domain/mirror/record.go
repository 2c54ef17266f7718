package mirror

// Record is any provider entity keyed by its natural id.
type Record interface {
	NaturalID() string
}

// RecordError describes one record that could not be decoded or stored.
type RecordError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Page is one decoded provider response.
type Page struct {
	Records  []Record
	Rejected []RecordError
}

func (p Page) Empty() bool {
	return len(p.Records) == 0 && len(p.Rejected) == 0
}
