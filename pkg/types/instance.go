package types

import "strconv"

// InstanceRecord is one SSM managed instance merged with its Name tag.
type InstanceRecord struct {
	InstanceID    string `json:"InstanceId"`
	IPAddress     string `json:"IPAddress"`
	ComputerName  string `json:"ComputerName"`
	PlatformName  string `json:"PlatformName"`
	AgentUpToDate bool   `json:"AgentUpToDate"`
	DisplayName   string `json:"DisplayName"`

	PlatformType string `json:"PlatformType,omitempty"`
	PingStatus   string `json:"PingStatus,omitempty"`
	AgentVersion string `json:"AgentVersion,omitempty"`
}

// Fields returns the textual form of every attribute, name first.
func (r InstanceRecord) Fields() []string {
	return []string{
		r.DisplayName,
		r.InstanceID,
		r.IPAddress,
		strconv.FormatBool(r.AgentUpToDate),
		r.PlatformName,
		r.ComputerName,
		r.PlatformType,
		r.PingStatus,
		r.AgentVersion,
	}
}

// InstanceIDs returns the ids of records in order.
func InstanceIDs(records []InstanceRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.InstanceID)
	}
	return ids
}
