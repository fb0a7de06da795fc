// Package treestatus fetches the repository tree status (open, closed,
// throttled) from a JSON status endpoint.
package treestatus

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/naclports/naclports/internal/application/ports"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

// maxBodySize bounds the status payload read from the server.
const maxBodySize = 1 << 20

// Client fetches the tree status over HTTP.
type Client struct {
	httpClient *http.Client
	schema     *jsonschema.Schema
	logger     *slog.Logger
}

// NewClient creates a tree-status client. A nil httpClient selects a client
// with a 30 second timeout.
func NewClient(httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add tree status schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile tree status schema: %w", err)
	}

	return &Client{httpClient: httpClient, schema: schema, logger: logger}, nil
}

// Fetch retrieves and validates the current tree status from url.
func (c *Client) Fetch(ctx context.Context, url string) (ports.TreeStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.TreeStatus{}, fmt.Errorf("invalid tree status URL: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching tree status", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.TreeStatus{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ports.TreeStatus{}, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return ports.TreeStatus{}, fmt.Errorf("failed to read tree status: %w", err)
	}

	return c.decode(body)
}

func (c *Client) decode(body []byte) (ports.TreeStatus, error) {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return ports.TreeStatus{}, fmt.Errorf("failed to decode tree status: %w", err)
	}

	if err := c.schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return ports.TreeStatus{}, formatValidationError(validationErr)
		}
		return ports.TreeStatus{}, fmt.Errorf("invalid tree status: %w", err)
	}

	var status ports.TreeStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return ports.TreeStatus{}, fmt.Errorf("failed to decode tree status: %w", err)
	}

	c.logger.Debug("tree status", "state", status.GeneralState, "open", status.CanCommitFreely)
	return status, nil
}

// formatValidationError flattens a schema validation error tree.
func formatValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return errors.New("invalid tree status")
	}
	return fmt.Errorf("invalid tree status: %s", strings.Join(messages, "; "))
}
