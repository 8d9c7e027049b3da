package registry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

func testConfig(url string) Config {
	return Config{
		Instance:      "DEV",
		MemberClass:   "GOV",
		MemberCode:    "COLLECTOR",
		SubsystemCode: "Catalog",

		SecurityServerHost:  url,
		WebservicesEndpoint: url,
		ListClientsHost:     url,
		FetchWsdlHost:       url,
		FetchOpenApiHost:    url,
		FetchRestHost:       url,
	}
}

const listClientsXML = `<?xml version="1.0" encoding="UTF-8"?>
<ns2:clientList xmlns:ns1="http://x-road.eu/xsd/identifiers" xmlns:ns2="http://x-road.eu/xsd/xroad.xsd">
  <ns2:member>
    <ns2:id ns1:objectType="MEMBER">
      <ns1:xRoadInstance>DEV</ns1:xRoadInstance>
      <ns1:memberClass>GOV</ns1:memberClass>
      <ns1:memberCode>1234567-8</ns1:memberCode>
    </ns2:id>
    <ns2:name>Example Agency</ns2:name>
  </ns2:member>
  <ns2:member>
    <ns2:id ns1:objectType="SUBSYSTEM">
      <ns1:xRoadInstance>DEV</ns1:xRoadInstance>
      <ns1:memberClass>GOV</ns1:memberClass>
      <ns1:memberCode>1234567-8</ns1:memberCode>
      <ns1:subsystemCode>Registry</ns1:subsystemCode>
    </ns2:id>
    <ns2:name>Example Agency</ns2:name>
  </ns2:member>
</ns2:clientList>`

func TestListClientsParsesRoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/listClients" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, listClientsXML)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	roster, err := c.ListClients(context.Background())
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(roster))
	}

	m := roster[0]
	if m.ObjectType != ObjectTypeMember || m.MemberCode != "1234567-8" || m.Name != "Example Agency" || m.SubsystemCode != "" {
		t.Fatalf("member entry wrong: %+v", m)
	}
	ss := roster[1]
	if ss.ObjectType != ObjectTypeSubsystem || ss.SubsystemCode != "Registry" {
		t.Fatalf("subsystem entry wrong: %+v", ss)
	}
}

const listMethodsSOAP = `<?xml version="1.0" encoding="UTF-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/" xmlns:xrd="http://x-road.eu/xsd/xroad.xsd" xmlns:id="http://x-road.eu/xsd/identifiers">
  <SOAP-ENV:Body>
    <xrd:listMethodsResponse>
      <xrd:service id:objectType="SERVICE">
        <id:xRoadInstance>DEV</id:xRoadInstance>
        <id:memberClass>GOV</id:memberClass>
        <id:memberCode>1234567-8</id:memberCode>
        <id:subsystemCode>Registry</id:subsystemCode>
        <id:serviceCode>getPerson</id:serviceCode>
        <id:serviceVersion>v1</id:serviceVersion>
      </xrd:service>
      <xrd:service id:objectType="SERVICE">
        <id:xRoadInstance>DEV</id:xRoadInstance>
        <id:memberClass>GOV</id:memberClass>
        <id:memberCode>1234567-8</id:memberCode>
        <id:subsystemCode>Registry</id:subsystemCode>
        <id:serviceCode>unversioned</id:serviceCode>
      </xrd:service>
    </xrd:listMethodsResponse>
  </SOAP-ENV:Body>
</SOAP-ENV:Envelope>`

func TestListMethodsParsesSoapResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "<xrd:listMethods/>") {
			t.Errorf("request is not a listMethods envelope")
		}
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, listMethodsSOAP)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	sub := ClientInfo{Instance: "DEV", MemberClass: "GOV", MemberCode: "1234567-8", SubsystemCode: "Registry"}
	services, err := c.ListMethods(context.Background(), sub)
	if err != nil {
		t.Fatalf("list methods: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}
	if services[0].ServiceCode != "getPerson" || services[0].ServiceVersion != "v1" {
		t.Fatalf("versioned service wrong: %+v", services[0])
	}
	if services[1].ServiceCode != "unversioned" || services[1].ServiceVersion != "" {
		t.Fatalf("unversioned service wrong: %+v", services[1])
	}
}

const listRestMethodsJSON = `{
  "service": [
    {
      "member_code": "1234567-8",
      "subsystem_code": "Registry",
      "member_class": "GOV",
      "service_code": "pets",
      "xroad_instance": "DEV",
      "object_type": "SERVICE",
      "service_type": "REST",
      "endpoint_list": [
        {"method": "GET", "path": "/pets"},
        {"method": "POST", "path": "/pets"}
      ]
    },
    {
      "member_code": "1234567-8",
      "subsystem_code": "Registry",
      "member_class": "GOV",
      "service_code": "petstore",
      "service_version": "v2",
      "xroad_instance": "DEV",
      "object_type": "SERVICE",
      "service_type": "OPENAPI3",
      "endpoint_list": []
    }
  ]
}`

func TestListRestMethodsParsesJSONAndSendsIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Road-Client"); got != "DEV/GOV/COLLECTOR/Catalog" {
			t.Errorf("missing caller identity, got %q", got)
		}
		if want := "/r1/DEV/GOV/1234567-8/Registry/listMethods"; r.URL.Path != want {
			t.Errorf("path %q, want %q", r.URL.Path, want)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, listRestMethodsJSON)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	sub := ClientInfo{Instance: "DEV", MemberClass: "GOV", MemberCode: "1234567-8", SubsystemCode: "Registry"}
	services, err := c.ListRestMethods(context.Background(), sub)
	if err != nil {
		t.Fatalf("list rest methods: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}
	if services[0].ServiceType != ServiceTypeRest || len(services[0].Endpoints) != 2 {
		t.Fatalf("rest service wrong: %+v", services[0])
	}
	if services[1].ServiceType != "OPENAPI3" || services[1].ServiceVersion != "v2" {
		t.Fatalf("openapi service wrong: %+v", services[1])
	}
}

func TestGetWsdlPassesServiceIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("serviceCode") != "getPerson" || q.Get("version") != "v1" || q.Get("memberCode") != "1234567-8" {
			t.Errorf("unexpected query %v", q)
		}
		io.WriteString(w, "<definitions/>")
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	svc := SoapService{
		Instance: "DEV", MemberClass: "GOV", MemberCode: "1234567-8", SubsystemCode: "Registry",
		ServiceCode: "getPerson", ServiceVersion: "v1",
	}
	wsdl, err := c.GetWsdl(context.Background(), svc)
	if err != nil {
		t.Fatalf("get wsdl: %v", err)
	}
	if wsdl != "<definitions/>" {
		t.Fatalf("unexpected wsdl %q", wsdl)
	}
}

func TestGetOpenApiErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no openapi for service", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	svc := RestService{SoapService: SoapService{
		Instance: "DEV", MemberClass: "GOV", MemberCode: "1234567-8", SubsystemCode: "Registry",
		ServiceCode: "pets",
	}}
	if _, err := c.GetOpenApi(context.Background(), svc); err == nil {
		t.Fatalf("expected error on http 500")
	}
}
