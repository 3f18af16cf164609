package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout}).DialContext
	transport.TLSHandshakeTimeout = timeout
	// NOTE: Do not set ResponseHeaderTimeout here.
	// Federated queries may legitimately take a long time before the server
	// sends headers. Client-side timeout only applies to dial/TLS.

	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Transport: transport,
		},
		Timeout: timeout,
	}
}

func (c *Client) ListTypes() ([]DataSourceType, error) {
	urlStr := fmt.Sprintf("%s/datasources/types", c.BaseURL)
	body, err := c.get(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp DataSourceTypesResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return resp.Types, nil
}

func (c *Client) ListDatasources() ([]DataSource, error) {
	urlStr := fmt.Sprintf("%s/datasources", c.BaseURL)
	body, err := c.get(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp DataSourceListResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return resp.Datasources, nil
}

func (c *Client) CreateDatasource(req *CreateDataSourceRequest) (*DataSource, error) {
	urlStr := fmt.Sprintf("%s/datasources", c.BaseURL)
	body, err := c.post(urlStr, req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp DataSource
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteDatasource(name string) (*DeleteResponse, error) {
	urlStr := fmt.Sprintf("%s/datasources/%s", c.BaseURL, url.PathEscape(name))
	body, err := c.delete(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp DeleteResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTables returns the table names of a datasource.
func (c *Client) ListTables(name string) ([]string, error) {
	urlStr := fmt.Sprintf("%s/datasources/%s/tables", c.BaseURL, url.PathEscape(name))
	body, err := c.get(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp TablesResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(resp.Tables))
	for _, t := range resp.Tables {
		tables = append(tables, t.Name)
	}
	return tables, nil
}

func (c *Client) GetTableSchema(name string, table string) (*TableSchemaResponse, error) {
	urlStr := fmt.Sprintf("%s/datasources/%s/tables/%s/schema",
		c.BaseURL, url.PathEscape(name), url.PathEscape(table))
	body, err := c.get(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp TableSchemaResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSampleData fetches up to limit rows from a table. A non-positive limit
// falls back to the server default of 10.
func (c *Client) GetSampleData(name string, table string, limit int) (*TableData, error) {
	urlStr := fmt.Sprintf("%s/datasources/%s/tables/%s/sample",
		c.BaseURL, url.PathEscape(name), url.PathEscape(table))
	if limit > 0 {
		q := url.Values{}
		q.Set("limit", fmt.Sprintf("%d", limit))
		urlStr = urlStr + "?" + q.Encode()
	}
	body, err := c.get(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp TableData
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) TestConnection(name string) (*TestConnectionResponse, error) {
	urlStr := fmt.Sprintf("%s/datasources/%s/test", c.BaseURL, url.PathEscape(name))
	body, err := c.post(urlStr, map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp TestConnectionResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ExecuteQuery(query string) (*QueryResult, error) {
	urlStr := fmt.Sprintf("%s/query", c.BaseURL)
	body, err := c.post(urlStr, &QueryRequest{Query: query})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp QueryResult
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetStatus() (*ServerStatus, error) {
	urlStr := fmt.Sprintf("%s/query/status", c.BaseURL)
	body, err := c.get(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp ServerStatus
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateMaterializedTable(req *MaterializedTableRequest) (*MaterializedTableResponse, error) {
	urlStr := fmt.Sprintf("%s/query/materialized-table", c.BaseURL)
	body, err := c.post(urlStr, req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp MaterializedTableResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListModels() ([]Model, error) {
	urlStr := fmt.Sprintf("%s/query/models", c.BaseURL)
	body, err := c.get(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp []Model
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ListJobs() ([]Job, error) {
	urlStr := fmt.Sprintf("%s/query/jobs", c.BaseURL)
	body, err := c.get(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp []Job
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ListKnowledgeBases() ([]KnowledgeBase, error) {
	urlStr := fmt.Sprintf("%s/query/knowledge-bases", c.BaseURL)
	body, err := c.get(urlStr)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp []KnowledgeBase
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) post(urlStr string, body interface{}) (io.ReadCloser, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, urlStr, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) get(urlStr string) (io.ReadCloser, error) {
	req, err := http.NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) delete(urlStr string) (io.ReadCloser, error) {
	req, err := http.NewRequest(http.MethodDelete, urlStr, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (io.ReadCloser, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

// decodeError drains an error response into an *APIError. The backend sends
// {"detail": "..."} bodies; anything unreadable degrades to a bare status.
func decodeError(resp *http.Response) error {
	defer resp.Body.Close()

	var errBody struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errBody)

	return &APIError{
		Status: resp.StatusCode,
		Detail: errBody.Detail,
	}
}
