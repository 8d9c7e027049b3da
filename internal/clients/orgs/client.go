package orgs

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

// Client talks to the public service directory and maps its organization
// payloads into catalog entities.
type Client interface {
	// ListOrganizationIDs returns the organization GUIDs registered under one
	// member code, capped at limit.
	ListOrganizationIDs(ctx context.Context, memberCode string, limit int) ([]string, error)

	// GetOrganizations fetches full organization records for a batch of
	// GUIDs. Callers keep batches at or below MaxBatchSize.
	GetOrganizations(ctx context.Context, guids []string) ([]*catalog.Organization, error)
}

// MaxBatchSize is the largest GUID batch the directory accepts per request.
const MaxBatchSize = 100

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
		log:        baseLog.With("service", "OrganizationDirectoryClient"),
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

func (c *client) getJSON(ctx context.Context, op, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("organization directory %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("organization directory %s: %w", op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("organization directory %s: read body: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("organization directory %s: http %d", op, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("organization directory %s: parse: %w", op, err)
	}
	return nil
}

type jsonIDList struct {
	ItemList []struct {
		ID string `json:"id"`
	} `json:"itemList"`
}

func (c *client) ListOrganizationIDs(ctx context.Context, memberCode string, limit int) ([]string, error) {
	q := url.Values{}
	q.Set("businessCode", memberCode)
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "?" + q.Encode()

	var list jsonIDList
	if err := c.getJSON(ctx, "listOrganizations", u, &list); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(list.ItemList))
	for _, item := range list.ItemList {
		if item.ID == "" {
			continue
		}
		ids = append(ids, item.ID)
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids, nil
}

func (c *client) GetOrganizations(ctx context.Context, guids []string) ([]*catalog.Organization, error) {
	if len(guids) == 0 {
		return nil, nil
	}
	if len(guids) > MaxBatchSize {
		return nil, fmt.Errorf("organization directory getOrganizations: batch of %d exceeds %d", len(guids), MaxBatchSize)
	}

	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/list?guids=" + url.QueryEscape(strings.Join(guids, ","))

	var items []jsonOrganization
	if err := c.getJSON(ctx, "getOrganizations", u, &items); err != nil {
		return nil, err
	}

	out := make([]*catalog.Organization, 0, len(items))
	for i := range items {
		out = append(out, mapOrganization(&items[i]))
	}
	return out, nil
}

// ---- wire types --------------------------------------------------------------

type jsonOrganization struct {
	ID               string              `json:"id"`
	BusinessCode     string              `json:"businessCode"`
	OrganizationType string              `json:"organizationType"`
	PublishingStatus string              `json:"publishingStatus"`
	Names            []jsonLocalizedText `json:"organizationNames"`
	Descriptions     []jsonLocalizedText `json:"organizationDescriptions"`
	Emails           []jsonEmail         `json:"emails"`
	PhoneNumbers     []jsonPhoneNumber   `json:"phoneNumbers"`
	WebPages         []jsonWebPage       `json:"webPages"`
	Addresses        []jsonAddress       `json:"addresses"`
}

type jsonLocalizedText struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Value    string `json:"value"`
}

type jsonEmail struct {
	Language    string `json:"language"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

type jsonPhoneNumber struct {
	Language              string `json:"language"`
	Number                string `json:"number"`
	PrefixNumber          string `json:"prefixNumber"`
	ChargeDescription     string `json:"chargeDescription"`
	AdditionalInformation string `json:"additionalInformation"`
	IsFinnishServiceNum   bool   `json:"isFinnishServiceNumber"`
}

type jsonWebPage struct {
	Language string `json:"language"`
	URL      string `json:"url"`
	Value    string `json:"value"`
}

type jsonAddress struct {
	Type          string `json:"type"`
	SubType       string `json:"subType"`
	Country       string `json:"country"`
	StreetAddress struct {
		Street                []jsonLocalizedText `json:"street"`
		PostalCode            string              `json:"postalCode"`
		PostOffice            []jsonLocalizedText `json:"postOffice"`
		AdditionalInformation []jsonLocalizedText `json:"additionalInformation"`
	} `json:"streetAddress"`
	PostOfficeBoxAddress struct {
		PostOfficeBox         []jsonLocalizedText `json:"postOfficeBox"`
		PostalCode            string              `json:"postalCode"`
		PostOffice            []jsonLocalizedText `json:"postOffice"`
		AdditionalInformation []jsonLocalizedText `json:"additionalInformation"`
	} `json:"postOfficeBoxAddress"`
}

// ---- mapping -----------------------------------------------------------------

func mapOrganization(src *jsonOrganization) *catalog.Organization {
	out := &catalog.Organization{
		GUID:             src.ID,
		BusinessCode:     src.BusinessCode,
		OrganizationType: src.OrganizationType,
		PublishingStatus: src.PublishingStatus,
	}

	for _, v := range src.Names {
		out.Names = append(out.Names, &catalog.OrganizationName{
			Type: v.Type, Language: v.Language, Value: v.Value,
		})
	}
	for _, v := range src.Descriptions {
		out.Descriptions = append(out.Descriptions, &catalog.OrganizationDescription{
			Type: v.Type, Language: v.Language, Value: v.Value,
		})
	}
	for _, v := range src.Emails {
		out.Emails = append(out.Emails, &catalog.Email{
			Language: v.Language, Description: v.Description, Value: v.Value,
		})
	}
	for _, v := range src.PhoneNumbers {
		out.PhoneNumbers = append(out.PhoneNumbers, &catalog.PhoneNumber{
			Language:              v.Language,
			Number:                v.Number,
			PrefixNumber:          v.PrefixNumber,
			ChargeDescription:     v.ChargeDescription,
			AdditionalInformation: v.AdditionalInformation,
			IsFinnishService:      v.IsFinnishServiceNum,
		})
	}
	for _, v := range src.WebPages {
		out.WebPages = append(out.WebPages, &catalog.WebPage{
			Language: v.Language, URL: v.URL, Value: v.Value,
		})
	}
	for _, v := range src.Addresses {
		out.Addresses = append(out.Addresses, mapAddress(&v))
	}
	return out
}

// mapAddress flattens the directory's nested street / PO-box variants into
// one row per address, each localized entry taking the first value.
func mapAddress(src *jsonAddress) *catalog.Address {
	addr := &catalog.Address{
		Type:    src.Type,
		SubType: src.SubType,
		Country: src.Country,
	}
	switch src.SubType {
	case "PostOfficeBox":
		addr.PostOfficeBox, addr.Language = firstLocalized(src.PostOfficeBoxAddress.PostOfficeBox)
		addr.PostalCode = src.PostOfficeBoxAddress.PostalCode
		addr.City, _ = firstLocalized(src.PostOfficeBoxAddress.PostOffice)
		addr.AdditionalInformation, _ = firstLocalized(src.PostOfficeBoxAddress.AdditionalInformation)
	default:
		addr.Street, addr.Language = firstLocalized(src.StreetAddress.Street)
		addr.PostalCode = src.StreetAddress.PostalCode
		addr.City, _ = firstLocalized(src.StreetAddress.PostOffice)
		addr.AdditionalInformation, _ = firstLocalized(src.StreetAddress.AdditionalInformation)
	}
	return addr
}

func firstLocalized(values []jsonLocalizedText) (value, language string) {
	if len(values) == 0 {
		return "", ""
	}
	return values[0].Value, values[0].Language
}
