// Package ticket defines the change-ticket domain record and the
// normalization from the remote system's raw field names onto it.
package ticket

// RawRecord is one record as returned by the remote table API: external field
// names, untrusted shapes. ServiceNow serializes most scalar values as
// strings, including booleans.
type RawRecord map[string]interface{}

// ChangeTicket is the normalized domain record. The field set is fixed: any
// extra remote fields are dropped during normalization and missing remote
// fields leave the zero value in place.
type ChangeTicket struct {
	Key         string `json:"change_ticket_key"`
	Number      string `json:"change_ticket_number"`
	Active      bool   `json:"active"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	WorkStart   string `json:"work_start"`
	WorkEnd     string `json:"work_end"`
}

// ListResponse is the parsed wire shape of a table read: a result array of
// raw records.
type ListResponse struct {
	Result []RawRecord `json:"result"`
}

// RecordResponse is the parsed wire shape of a table write: a single result
// record.
type RecordResponse struct {
	Result RawRecord `json:"result"`
}

// Normalize maps one raw record onto the fixed domain shape. It is pure and
// never fails: absent source fields produce zero-valued target fields and no
// value validation is performed.
func Normalize(record RawRecord) ChangeTicket {
	return ChangeTicket{
		Key:         asString(record["sys_id"]),
		Number:      asString(record["number"]),
		Active:      asBool(record["active"]),
		Priority:    asString(record["priority"]),
		Description: asString(record["description"]),
		WorkStart:   asString(record["work_start"]),
		WorkEnd:     asString(record["work_end"]),
	}
}

// NormalizeAll normalizes a sequence of raw records, preserving order
func NormalizeAll(records []RawRecord) []ChangeTicket {
	tickets := make([]ChangeTicket, len(records))
	for i, record := range records {
		tickets[i] = Normalize(record)
	}
	return tickets
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asBool accepts both JSON booleans and ServiceNow's stringly "true"/"false"
func asBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true"
	default:
		return false
	}
}
