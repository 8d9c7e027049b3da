package registry

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// Client talks to the federation's access point: the central client roster,
// the per-subsystem metaservices and the description endpoints.
type Client interface {
	// ListClients fetches the full roster of members and subsystems known to
	// the central registry.
	ListClients(ctx context.Context) ([]ClientInfo, error)

	// ListMethods lists the SOAP services a subsystem publishes.
	ListMethods(ctx context.Context, sub ClientInfo) ([]SoapService, error)

	// ListRestMethods lists the REST services a subsystem publishes,
	// including the endpoint inventory carried on each entry.
	ListRestMethods(ctx context.Context, sub ClientInfo) ([]RestService, error)

	// GetWsdl fetches the WSDL document for one SOAP service.
	GetWsdl(ctx context.Context, svc SoapService) (string, error)

	// GetOpenApi fetches the OpenAPI description for one REST service.
	GetOpenApi(ctx context.Context, svc RestService) (string, error)
}

// Config carries the collector's own identity on the network plus the hosts
// the individual operations are routed through.
type Config struct {
	Instance      string
	MemberClass   string
	MemberCode    string
	SubsystemCode string

	SecurityServerHost   string
	WebservicesEndpoint  string
	ListClientsHost      string
	FetchWsdlHost        string
	FetchOpenApiHost     string
	FetchRestHost        string
	ClientTimeoutSeconds int
}

type client struct {
	cfg        Config
	log        *logger.Logger
	httpClient *http.Client
}

func NewClient(cfg Config, baseLog *logger.Logger) Client {
	timeout := cfg.ClientTimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	return &client{
		cfg:        cfg,
		log:        baseLog.With("service", "RegistryClient"),
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

type registryHTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *registryHTTPError) Error() string {
	return fmt.Sprintf("registry %s http %d: %s", e.Op, e.StatusCode, e.Body)
}

// clientHeader is the caller identity required by the REST metaservices.
func (c *client) clientHeader() string {
	return fmt.Sprintf("%s/%s/%s/%s", c.cfg.Instance, c.cfg.MemberClass, c.cfg.MemberCode, c.cfg.SubsystemCode)
}

func (c *client) get(ctx context.Context, op, rawURL, accept string, withIdentity bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("registry %s: build request: %w", op, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if withIdentity {
		req.Header.Set("X-Road-Client", c.clientHeader())
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("registry %s: read body: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &registryHTTPError{Op: op, StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ---- listClients -----------------------------------------------------------

type xmlClientList struct {
	Members []xmlClientEntry `xml:"member"`
}

type xmlClientEntry struct {
	ID   xmlClientID `xml:"id"`
	Name string      `xml:"name"`
}

type xmlClientID struct {
	ObjectType    string `xml:"objectType,attr"`
	Instance      string `xml:"xRoadInstance"`
	MemberClass   string `xml:"memberClass"`
	MemberCode    string `xml:"memberCode"`
	SubsystemCode string `xml:"subsystemCode"`
}

func (c *client) ListClients(ctx context.Context) ([]ClientInfo, error) {
	u := strings.TrimRight(c.cfg.ListClientsHost, "/") + "/listClients"
	body, err := c.get(ctx, "listClients", u, "text/xml", false)
	if err != nil {
		return nil, err
	}

	var list xmlClientList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("registry listClients: parse: %w", err)
	}

	out := make([]ClientInfo, 0, len(list.Members))
	for _, m := range list.Members {
		out = append(out, ClientInfo{
			Instance:      m.ID.Instance,
			MemberClass:   m.ID.MemberClass,
			MemberCode:    m.ID.MemberCode,
			SubsystemCode: m.ID.SubsystemCode,
			Name:          m.Name,
			ObjectType:    ObjectType(m.ID.ObjectType),
		})
	}
	return out, nil
}

// ---- listMethods (SOAP) ----------------------------------------------------

const listMethodsEnvelope = `<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/" xmlns:xrd="http://x-road.eu/xsd/xroad.xsd" xmlns:id="http://x-road.eu/xsd/identifiers">
  <SOAP-ENV:Header>
    <xrd:client id:objectType="SUBSYSTEM">
      <id:xRoadInstance>%s</id:xRoadInstance>
      <id:memberClass>%s</id:memberClass>
      <id:memberCode>%s</id:memberCode>
      <id:subsystemCode>%s</id:subsystemCode>
    </xrd:client>
    <xrd:service id:objectType="SERVICE">
      <id:xRoadInstance>%s</id:xRoadInstance>
      <id:memberClass>%s</id:memberClass>
      <id:memberCode>%s</id:memberCode>
      <id:subsystemCode>%s</id:subsystemCode>
      <id:serviceCode>listMethods</id:serviceCode>
    </xrd:service>
    <xrd:id>%s</xrd:id>
    <xrd:protocolVersion>4.0</xrd:protocolVersion>
  </SOAP-ENV:Header>
  <SOAP-ENV:Body>
    <xrd:listMethods/>
  </SOAP-ENV:Body>
</SOAP-ENV:Envelope>`

type xmlListMethodsResponse struct {
	Services []xmlServiceID `xml:"Body>listMethodsResponse>service"`
}

type xmlServiceID struct {
	Instance       string `xml:"xRoadInstance"`
	MemberClass    string `xml:"memberClass"`
	MemberCode     string `xml:"memberCode"`
	SubsystemCode  string `xml:"subsystemCode"`
	ServiceCode    string `xml:"serviceCode"`
	ServiceVersion string `xml:"serviceVersion"`
}

func (c *client) ListMethods(ctx context.Context, sub ClientInfo) ([]SoapService, error) {
	envelope := fmt.Sprintf(listMethodsEnvelope,
		c.cfg.Instance, c.cfg.MemberClass, c.cfg.MemberCode, c.cfg.SubsystemCode,
		sub.Instance, sub.MemberClass, sub.MemberCode, sub.SubsystemCode,
		uuid.NewString(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WebservicesEndpoint, strings.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("registry listMethods: build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry listMethods: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("registry listMethods: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &registryHTTPError{Op: "listMethods", StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var parsed xmlListMethodsResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("registry listMethods: parse: %w", err)
	}

	out := make([]SoapService, 0, len(parsed.Services))
	for _, s := range parsed.Services {
		out = append(out, SoapService{
			Instance:       s.Instance,
			MemberClass:    s.MemberClass,
			MemberCode:     s.MemberCode,
			SubsystemCode:  s.SubsystemCode,
			ServiceCode:    s.ServiceCode,
			ServiceVersion: s.ServiceVersion,
		})
	}
	return out, nil
}

// ---- listMethods (REST) ----------------------------------------------------

type jsonRestMethods struct {
	Services []jsonRestService `json:"service"`
}

type jsonRestService struct {
	MemberCode     string             `json:"member_code"`
	SubsystemCode  string             `json:"subsystem_code"`
	MemberClass    string             `json:"member_class"`
	ServiceCode    string             `json:"service_code"`
	ServiceVersion string             `json:"service_version"`
	Instance       string             `json:"xroad_instance"`
	ObjectType     string             `json:"object_type"`
	ServiceType    string             `json:"service_type"`
	Endpoints      []jsonRestEndpoint `json:"endpoint_list"`
}

type jsonRestEndpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func (c *client) ListRestMethods(ctx context.Context, sub ClientInfo) ([]RestService, error) {
	u := fmt.Sprintf("%s/r1/%s/%s/%s/%s/listMethods",
		strings.TrimRight(c.cfg.FetchRestHost, "/"),
		sub.Instance, sub.MemberClass, sub.MemberCode, sub.SubsystemCode)

	body, err := c.get(ctx, "listRestMethods", u, "application/json", true)
	if err != nil {
		return nil, err
	}

	var parsed jsonRestMethods
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("registry listRestMethods: parse: %w", err)
	}

	out := make([]RestService, 0, len(parsed.Services))
	for _, s := range parsed.Services {
		rs := RestService{
			SoapService: SoapService{
				Instance:       s.Instance,
				MemberClass:    s.MemberClass,
				MemberCode:     s.MemberCode,
				SubsystemCode:  s.SubsystemCode,
				ServiceCode:    s.ServiceCode,
				ServiceVersion: s.ServiceVersion,
			},
			ServiceType: s.ServiceType,
		}
		for _, ep := range s.Endpoints {
			rs.Endpoints = append(rs.Endpoints, EndpointInfo{Method: ep.Method, Path: ep.Path})
		}
		out = append(out, rs)
	}
	return out, nil
}

// ---- descriptions ----------------------------------------------------------

func (c *client) GetWsdl(ctx context.Context, svc SoapService) (string, error) {
	q := url.Values{}
	q.Set("xRoadInstance", svc.Instance)
	q.Set("memberClass", svc.MemberClass)
	q.Set("memberCode", svc.MemberCode)
	q.Set("subsystemCode", svc.SubsystemCode)
	q.Set("serviceCode", svc.ServiceCode)
	if svc.ServiceVersion != "" {
		q.Set("version", svc.ServiceVersion)
	}
	u := strings.TrimRight(c.cfg.FetchWsdlHost, "/") + "/wsdl?" + q.Encode()

	body, err := c.get(ctx, "getWsdl", u, "text/xml", false)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *client) GetOpenApi(ctx context.Context, svc RestService) (string, error) {
	u := fmt.Sprintf("%s/r1/%s/%s/%s/%s/getOpenAPI?serviceCode=%s",
		strings.TrimRight(c.cfg.FetchOpenApiHost, "/"),
		svc.Instance, svc.MemberClass, svc.MemberCode, svc.SubsystemCode,
		url.QueryEscape(svc.ServiceCode))

	body, err := c.get(ctx, "getOpenAPI", u, "application/json", true)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
