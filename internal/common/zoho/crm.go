// Package zoho is a minimal client for the Zoho CRM v3 Leads module.
package zoho

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	httpclient "fiscal-forum/internal/common/http"
)

const DefaultBaseURL = "https://www.zohoapis.com/crm/v3"

type CRMClient struct {
	baseURL string
	http    *httpclient.Client
}

// Lead mirrors the Zoho Leads field API names we write.
type Lead struct {
	ID          string `json:"id,omitempty"`
	FirstName   string `json:"First_Name,omitempty"`
	LastName    string `json:"Last_Name"`
	Email       string `json:"Email,omitempty"`
	Mobile      string `json:"Mobile,omitempty"`
	City        string `json:"City,omitempty"`
	LeadSource  string `json:"Lead_Source,omitempty"`
	LeadStatus  string `json:"Lead_Status,omitempty"`
	Description string `json:"Description,omitempty"`
}

type recordResult struct {
	Code    string `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Details struct {
		ID string `json:"id"`
	} `json:"details"`
}

type writeResponse struct {
	Data []recordResult `json:"data"`
}

type searchResponse struct {
	Data []Lead `json:"data"`
}

func NewCRMClient(baseURL, oauthToken string, timeout time.Duration) *CRMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CRMClient{
		baseURL: baseURL,
		http:    httpclient.NewClient(timeout).WithHeader("Authorization", "Zoho-oauthtoken "+oauthToken),
	}
}

func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	var resp writeResponse
	_, err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/Leads",
		map[string]interface{}{"data": []*Lead{lead}}, &resp)
	if err != nil {
		return "", fmt.Errorf("create lead: %w", err)
	}
	return firstID(resp)
}

func (c *CRMClient) UpdateLead(ctx context.Context, id string, lead *Lead) error {
	var resp writeResponse
	_, err := c.http.DoJSON(ctx, http.MethodPut, fmt.Sprintf("%s/Leads/%s", c.baseURL, url.PathEscape(id)),
		map[string]interface{}{"data": []*Lead{lead}}, &resp)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	_, err = firstID(resp)
	return err
}

// SearchLeadsByEmail returns matching leads. Zoho answers 204 when nothing
// matches, which yields an empty slice.
func (c *CRMClient) SearchLeadsByEmail(ctx context.Context, email string) ([]Lead, error) {
	var resp searchResponse
	endpoint := fmt.Sprintf("%s/Leads/search?email=%s", c.baseURL, url.QueryEscape(email))
	if _, err := c.http.DoJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}
	return resp.Data, nil
}

func firstID(resp writeResponse) (string, error) {
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if resp.Data[0].Status != "success" {
		return "", fmt.Errorf("%s: %s", resp.Data[0].Code, resp.Data[0].Message)
	}
	return resp.Data[0].Details.ID, nil
}
