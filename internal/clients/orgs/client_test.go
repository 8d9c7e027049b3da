package orgs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

const idListJSON = `{
  "itemList": [
    {"id": "guid-1"},
    {"id": "guid-2"},
    {"id": "guid-3"}
  ]
}`

const organizationsJSON = `[
  {
    "id": "guid-1",
    "businessCode": "0000000-0",
    "organizationType": "Municipality",
    "publishingStatus": "Published",
    "organizationNames": [
      {"type": "Name", "language": "fi", "value": "Esimerkkikunta"}
    ],
    "emails": [
      {"language": "fi", "description": "kirjaamo", "value": "kirjaamo@example.fi"}
    ],
    "phoneNumbers": [
      {"language": "fi", "number": "1234567", "prefixNumber": "+358", "isFinnishServiceNumber": true}
    ],
    "addresses": [
      {
        "type": "Postal",
        "subType": "Street",
        "country": "FI",
        "streetAddress": {
          "street": [{"language": "fi", "value": "Esimerkkikatu 1"}],
          "postalCode": "00100",
          "postOffice": [{"language": "fi", "value": "HELSINKI"}]
        }
      },
      {
        "type": "Postal",
        "subType": "PostOfficeBox",
        "country": "FI",
        "postOfficeBoxAddress": {
          "postOfficeBox": [{"language": "fi", "value": "PL 1"}],
          "postalCode": "00101",
          "postOffice": [{"language": "fi", "value": "HELSINKI"}]
        }
      }
    ]
  }
]`

func TestListOrganizationIDsHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("businessCode"); got != "0000000-0" {
			t.Errorf("unexpected businessCode %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, idListJSON)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, logger.NewNop())
	ids, err := c.ListOrganizationIDs(context.Background(), "0000000-0", 2)
	if err != nil {
		t.Fatalf("list ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != "guid-1" {
		t.Fatalf("limit not honored: %v", ids)
	}
}

func TestGetOrganizationsMapsTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("guids"); got != "guid-1" {
			t.Errorf("unexpected guids %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, organizationsJSON)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, logger.NewNop())
	records, err := c.GetOrganizations(context.Background(), []string{"guid-1"})
	if err != nil {
		t.Fatalf("get organizations: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one organization, got %d", len(records))
	}

	org := records[0]
	if org.GUID != "guid-1" || org.OrganizationType != "Municipality" || org.PublishingStatus != "Published" {
		t.Fatalf("organization node wrong: %+v", org)
	}
	if len(org.Names) != 1 || org.Names[0].Value != "Esimerkkikunta" {
		t.Fatalf("names not mapped: %+v", org.Names)
	}
	if len(org.PhoneNumbers) != 1 || !org.PhoneNumbers[0].IsFinnishService {
		t.Fatalf("phone numbers not mapped: %+v", org.PhoneNumbers)
	}
	if len(org.Addresses) != 2 {
		t.Fatalf("addresses not mapped: %+v", org.Addresses)
	}

	street := org.Addresses[0]
	if street.Street != "Esimerkkikatu 1" || street.PostalCode != "00100" || street.City != "HELSINKI" {
		t.Fatalf("street address flattening wrong: %+v", street)
	}
	box := org.Addresses[1]
	if box.PostOfficeBox != "PL 1" || box.PostalCode != "00101" {
		t.Fatalf("po box flattening wrong: %+v", box)
	}
}

func TestGetOrganizationsRejectsOversizedBatch(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://localhost"}, logger.NewNop())
	guids := make([]string, MaxBatchSize+1)
	for i := range guids {
		guids[i] = "guid"
	}
	if _, err := c.GetOrganizations(context.Background(), guids); err == nil {
		t.Fatalf("expected batch size error")
	}
}
