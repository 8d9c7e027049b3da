package registry

// ObjectType distinguishes the two identifier shapes the central client
// roster carries.
type ObjectType string

const (
	ObjectTypeMember    ObjectType = "MEMBER"
	ObjectTypeSubsystem ObjectType = "SUBSYSTEM"
)

// ClientInfo is one entry of the central client roster. Member-level entries
// have an empty SubsystemCode.
type ClientInfo struct {
	Instance      string
	MemberClass   string
	MemberCode    string
	SubsystemCode string
	Name          string
	ObjectType    ObjectType
}

// SoapService identifies one SOAP service published by a subsystem. An empty
// ServiceVersion means the provider published the service unversioned.
type SoapService struct {
	Instance       string
	MemberClass    string
	MemberCode     string
	SubsystemCode  string
	ServiceCode    string
	ServiceVersion string
}

// RestService identifies one REST service. ServiceType distinguishes plain
// REST services from ones carrying an OpenAPI description.
type RestService struct {
	SoapService
	ServiceType string
	Endpoints   []EndpointInfo
}

// ServiceTypeRest marks a REST service without a machine-readable
// description; anything else is fetched through the OpenAPI metaservice.
const ServiceTypeRest = "REST"

type EndpointInfo struct {
	Method string
	Path   string
}
