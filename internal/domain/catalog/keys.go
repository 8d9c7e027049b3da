package catalog

import "fmt"

// MemberID is the natural key of a Member.
type MemberID struct {
	Instance    string
	MemberClass string
	MemberCode  string
}

func (id MemberID) String() string {
	return fmt.Sprintf("%s/%s/%s", id.Instance, id.MemberClass, id.MemberCode)
}

// SubsystemID is the natural key of a Subsystem.
type SubsystemID struct {
	Instance      string
	MemberClass   string
	MemberCode    string
	SubsystemCode string
}

func (id SubsystemID) Member() MemberID {
	return MemberID{Instance: id.Instance, MemberClass: id.MemberClass, MemberCode: id.MemberCode}
}

func (id SubsystemID) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", id.Instance, id.MemberClass, id.MemberCode, id.SubsystemCode)
}

// ServiceID is the natural key of a Service within one subsystem. An absent
// service version is stored as the empty string and is a distinct key value,
// not a wildcard.
type ServiceID struct {
	ServiceCode    string
	ServiceVersion string
}

func (id ServiceID) String() string {
	if id.ServiceVersion == "" {
		return id.ServiceCode
	}
	return fmt.Sprintf("%s/%s", id.ServiceCode, id.ServiceVersion)
}

// EndpointID is the natural key of an Endpoint within one service.
type EndpointID struct {
	Method string
	Path   string
}

func (id EndpointID) String() string {
	return fmt.Sprintf("%s %s", id.Method, id.Path)
}
