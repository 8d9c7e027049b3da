package business

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haltiadata/catalog-collector/internal/domain/catalog"
	"github.com/haltiadata/catalog-collector/internal/platform/logger"
)

// Client talks to the national business registry's open-data API and maps
// its company payloads into catalog entities.
type Client interface {
	// ListCompanyIDs returns the business ids registered for one member code,
	// capped at limit.
	ListCompanyIDs(ctx context.Context, memberCode string, limit int) ([]string, error)

	// GetCompany fetches the full detail records for one business id. The
	// registry can return several records for a single id.
	GetCompany(ctx context.Context, businessID string) ([]*catalog.Company, error)
}

type Config struct {
	BaseURL              string
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
		log:        baseLog.With("service", "BusinessRegistryClient"),
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

func (c *client) getJSON(ctx context.Context, op, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("business registry %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("business registry %s: %w", op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("business registry %s: read body: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("business registry %s: http %d", op, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("business registry %s: parse: %w", op, err)
	}
	return nil
}

type jsonCompanyList struct {
	Results []jsonCompany `json:"results"`
}

func (c *client) ListCompanyIDs(ctx context.Context, memberCode string, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("businessId", memberCode)
	q.Set("maxResults", fmt.Sprintf("%d", limit))
	q.Set("resultsFrom", "0")
	q.Set("totalResults", "true")
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "?" + q.Encode()

	var list jsonCompanyList
	if err := c.getJSON(ctx, "listCompanies", u, &list); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list.Results))
	for _, r := range list.Results {
		if r.BusinessID != "" {
			ids = append(ids, r.BusinessID)
		}
	}
	return ids, nil
}

func (c *client) GetCompany(ctx context.Context, businessID string) ([]*catalog.Company, error) {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + url.PathEscape(businessID)

	var list jsonCompanyList
	if err := c.getJSON(ctx, "getCompany", u, &list); err != nil {
		return nil, err
	}

	out := make([]*catalog.Company, 0, len(list.Results))
	for i := range list.Results {
		out = append(out, mapCompany(&list.Results[i]))
	}
	return out, nil
}

// ---- wire types ------------------------------------------------------------

const registryDateLayout = "2006-01-02"

// registryDate tolerates empty and missing date fields in registry payloads.
type registryDate struct {
	t *time.Time
}

func (d *registryDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.t = nil
		return nil
	}
	parsed, err := time.Parse(registryDateLayout, s)
	if err != nil {
		return fmt.Errorf("bad registry date %q: %w", s, err)
	}
	d.t = &parsed
	return nil
}

func (d registryDate) Ptr() *time.Time { return d.t }

func (d registryDate) Value() time.Time {
	if d.t == nil {
		return time.Time{}
	}
	return *d.t
}

type jsonCompany struct {
	BusinessID       string       `json:"businessId"`
	CompanyForm      string       `json:"companyForm"`
	DetailsURI       string       `json:"detailsUri"`
	Name             string       `json:"name"`
	RegistrationDate registryDate `json:"registrationDate"`

	Names             []jsonNamedRecord   `json:"names"`
	AuxiliaryNames    []jsonNamedRecord   `json:"auxiliaryNames"`
	Addresses         []jsonAddress       `json:"addresses"`
	BusinessIDChanges []jsonIDChange      `json:"businessIdChanges"`
	BusinessLines     []jsonNamedRecord   `json:"businessLines"`
	CompanyForms      []jsonTypedRecord   `json:"companyForms"`
	ContactDetails    []jsonContactDetail `json:"contactDetails"`
	Languages         []jsonNamedRecord   `json:"languages"`
	Liquidations      []jsonTypedRecord   `json:"liquidations"`
	RegisteredEntries []jsonEntry         `json:"registeredEntries"`
	RegisteredOffices []jsonNamedRecord   `json:"registeredOffices"`
}

type jsonNamedRecord struct {
	Name             string       `json:"name"`
	Language         string       `json:"language"`
	Source           int          `json:"source"`
	Version          int          `json:"version"`
	Order            int          `json:"order"`
	RegistrationDate registryDate `json:"registrationDate"`
	EndDate          registryDate `json:"endDate"`
}

type jsonTypedRecord struct {
	Name             string       `json:"name"`
	Language         string       `json:"language"`
	Type             int          `json:"type"`
	Source           int          `json:"source"`
	Version          int          `json:"version"`
	RegistrationDate registryDate `json:"registrationDate"`
	EndDate          registryDate `json:"endDate"`
}

type jsonAddress struct {
	Street           string       `json:"street"`
	PostCode         string       `json:"postCode"`
	City             string       `json:"city"`
	Country          string       `json:"country"`
	Language         string       `json:"language"`
	Type             int          `json:"type"`
	CareOf           string       `json:"careOf"`
	Source           int          `json:"source"`
	Version          int          `json:"version"`
	RegistrationDate registryDate `json:"registrationDate"`
	EndDate          registryDate `json:"endDate"`
}

type jsonIDChange struct {
	OldBusinessID string `json:"oldBusinessId"`
	NewBusinessID string `json:"newBusinessId"`
	Change        string `json:"change"`
	Description   string `json:"description"`
	Reason        string `json:"reason"`
	Source        int    `json:"source"`
	ChangeDate    string `json:"changeDate"`
}

type jsonContactDetail struct {
	Value            string       `json:"value"`
	Type             string       `json:"type"`
	Language         string       `json:"language"`
	Source           int          `json:"source"`
	Version          int          `json:"version"`
	RegistrationDate registryDate `json:"registrationDate"`
	EndDate          registryDate `json:"endDate"`
}

type jsonEntry struct {
	Description      string       `json:"description"`
	Status           int          `json:"status"`
	Register         int          `json:"register"`
	Authority        int          `json:"authority"`
	Language         string       `json:"language"`
	RegistrationDate registryDate `json:"registrationDate"`
	EndDate          registryDate `json:"endDate"`
}

// ---- mapping ----------------------------------------------------------------

func mapCompany(src *jsonCompany) *catalog.Company {
	out := &catalog.Company{
		BusinessID:       src.BusinessID,
		CompanyForm:      src.CompanyForm,
		DetailsURI:       src.DetailsURI,
		Name:             src.Name,
		RegistrationDate: src.RegistrationDate.Value(),
	}

	for _, v := range src.Names {
		out.BusinessNames = append(out.BusinessNames, &catalog.BusinessName{
			Name: v.Name, Language: v.Language,
			Source: v.Source, Version: v.Version, Ordering: v.Order,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	for _, v := range src.AuxiliaryNames {
		out.BusinessAuxiliaryNames = append(out.BusinessAuxiliaryNames, &catalog.BusinessAuxiliaryName{
			Name: v.Name, Language: v.Language,
			Source: v.Source, Version: v.Version, Ordering: v.Order,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	for _, v := range src.Addresses {
		out.BusinessAddresses = append(out.BusinessAddresses, &catalog.BusinessAddress{
			Street: v.Street, PostCode: v.PostCode, City: v.City, Country: v.Country,
			Language: v.Language, Type: v.Type, CareOf: v.CareOf,
			Source: v.Source, Version: v.Version,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	for _, v := range src.BusinessIDChanges {
		out.BusinessIDChanges = append(out.BusinessIDChanges, &catalog.BusinessIDChange{
			OldBusinessID: v.OldBusinessID, NewBusinessID: v.NewBusinessID,
			Change: v.Change, Description: v.Description, Reason: v.Reason,
			Source: v.Source, ChangeDate: v.ChangeDate,
		})
	}
	for _, v := range src.BusinessLines {
		out.BusinessLines = append(out.BusinessLines, &catalog.BusinessLine{
			Name: v.Name, Language: v.Language,
			Source: v.Source, Version: v.Version, Ordering: v.Order,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	for _, v := range src.CompanyForms {
		out.CompanyForms = append(out.CompanyForms, &catalog.CompanyForm{
			Name: v.Name, Language: v.Language, Type: v.Type,
			Source: v.Source, Version: v.Version,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	for _, v := range src.ContactDetails {
		out.ContactDetails = append(out.ContactDetails, &catalog.ContactDetail{
			Value: v.Value, Type: v.Type, Language: v.Language,
			Source: v.Source, Version: v.Version,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	for _, v := range src.Languages {
		out.Languages = append(out.Languages, &catalog.CompanyLanguage{
			Name: v.Name, Language: v.Language,
			Source: v.Source, Version: v.Version,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	for _, v := range src.Liquidations {
		out.Liquidations = append(out.Liquidations, &catalog.Liquidation{
			Name: v.Name, Language: v.Language, Type: v.Type,
			Source: v.Source, Version: v.Version,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	for _, v := range src.RegisteredEntries {
		out.RegisteredEntries = append(out.RegisteredEntries, &catalog.RegisteredEntry{
			Description: v.Description, Status: v.Status, Register: v.Register,
			Authority: v.Authority, Language: v.Language,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	for _, v := range src.RegisteredOffices {
		out.RegisteredOffices = append(out.RegisteredOffices, &catalog.RegisteredOffice{
			Name: v.Name, Language: v.Language,
			Source: v.Source, Version: v.Version, Ordering: v.Order,
			RegistrationDate: v.RegistrationDate.Ptr(), EndDate: v.EndDate.Ptr(),
		})
	}
	return out
}
