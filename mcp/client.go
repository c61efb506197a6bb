package mcp

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Client wraps the mcp-go client library, adding OAuth authorization and
// tool filtering on top of it.
type Client struct {
	client             *client.Client
	config             *ServerConfig
	oauthConfig        *OAuthConfig
	tokenStore         client.TokenStore
	tools              []mcp.Tool
	resources          []mcp.Resource
	serverCapabilities *mcp.ServerCapabilities
	connected          bool
}

// NewClient creates an MCP client for cfg. It does not connect; call
// Connect to establish the session.
func NewClient(cfg *ServerConfig) (*Client, error) {
	c := &Client{
		config:    cfg,
		connected: false,
	}
	if cfg.IsOAuthEnabled() {
		oauthConfig := &OAuthConfig{
			ClientID:    "agentcore",
			RedirectURI: "http://localhost:8085/oauth/callback",
			PKCEEnabled: true,
			Scopes:      []string{"mcp.read", "mcp.write"},
		}
		if cfg.OAuth.ClientSecret != "" {
			oauthConfig.ClientSecret = cfg.OAuth.ClientSecret
		}
		if cfg.OAuth.RedirectURI != "" {
			oauthConfig.RedirectURI = cfg.OAuth.RedirectURI
		}
		if len(cfg.OAuth.Scopes) > 0 {
			oauthConfig.Scopes = cfg.OAuth.Scopes
		}
		if cfg.OAuth.ExtraParams != nil {
			oauthConfig.ExtraParams = cfg.OAuth.ExtraParams
		}
		if cfg.OAuth.TokenStore != nil {
			oauthConfig.TokenStore = cfg.OAuth.TokenStore
		}
		oauthConfig.PKCEEnabled = cfg.OAuth.PKCEEnabled || oauthConfig.PKCEEnabled

		c.oauthConfig = oauthConfig
	}
	return c, nil
}

// Connect establishes the underlying transport, running the OAuth
// authorization flow first when the server requires it.
func (c *Client) Connect(ctx context.Context) error {
	if c.config.Type == "http" && c.config.IsOAuthEnabled() {
		if err := c.connectWithOAuth(); err != nil {
			return fmt.Errorf("failed to create oauth mcp client for server %s: %w", c.config.Name, err)
		}
	} else {
		var err error
		switch c.config.Type {
		case "http":
			if c.config.URL == "" {
				return fmt.Errorf("url is required for http mcp server")
			}
			c.client, err = client.NewStreamableHttpClient(c.config.URL)
		case "stdio":
			if c.config.Command == "" {
				return fmt.Errorf("command is required for stdio mcp server")
			}
			envMap := c.config.Env
			args := c.config.Args

			expandedArgs := make([]string, len(args))
			for i, arg := range args {
				expandedArgs[i] = os.ExpandEnv(arg)
			}

			env := make([]string, 0, len(envMap))
			for key, value := range envMap {
				env = append(env, fmt.Sprintf("%s=%s", key, os.ExpandEnv(value)))
			}
			c.client, err = client.NewStdioMCPClient(c.config.Command, env, expandedArgs...)
		default:
			return fmt.Errorf("unsupported mcp server type: %s", c.config.Type)
		}
		if err != nil {
			return fmt.Errorf("failed to create mcp client for server %s: %w", c.config.Name, err)
		}
	}

	if err := c.client.Start(ctx); err != nil {
		if c.config.IsOAuthEnabled() && c.isOAuthAuthorizationError(err) {
			if authErr := c.handleOAuthAuthorization(ctx, err); authErr != nil {
				return fmt.Errorf("OAuth authorization failed for server %s: %w", c.config.Name, authErr)
			}
			if err := c.client.Start(ctx); err != nil {
				return fmt.Errorf("failed to start mcp client for server %s after OAuth: %w", c.config.Name, err)
			}
		} else {
			return fmt.Errorf("failed to start mcp client for server %s: %w", c.config.Name, err)
		}
	}
	if err := c.initializeConnection(ctx); err != nil {
		return err
	}
	c.connected = true
	return nil
}

// connectWithOAuth builds the streamable HTTP client with OAuth enabled.
func (c *Client) connectWithOAuth() error {
	if c.oauthConfig == nil {
		return fmt.Errorf("OAuth configuration is nil")
	}
	if c.tokenStore == nil {
		c.tokenStore = client.NewMemoryTokenStore()
	}
	var err error
	c.client, err = client.NewOAuthStreamableHttpClient(c.config.URL, client.OAuthConfig{
		ClientID:     c.oauthConfig.ClientID,
		ClientSecret: c.oauthConfig.ClientSecret,
		RedirectURI:  c.oauthConfig.RedirectURI,
		Scopes:       c.oauthConfig.Scopes,
		TokenStore:   c.tokenStore,
		PKCEEnabled:  c.oauthConfig.PKCEEnabled,
	})
	return err
}

// isOAuthAuthorizationError reports whether err indicates the server wants
// an interactive OAuth authorization before it will serve requests.
func (c *Client) isOAuthAuthorizationError(err error) bool {
	if c.client == nil {
		return false
	}
	return client.IsOAuthAuthorizationRequiredError(err)
}

// handleOAuthAuthorization drives the interactive authorization-code flow:
// it opens the user's browser to the server's consent page and waits for
// the resulting redirect on a local callback server.
func (c *Client) handleOAuthAuthorization(ctx context.Context, err error) error {
	oauthHandler := client.GetOAuthHandler(err)
	if oauthHandler == nil {
		return fmt.Errorf("oauth handler unavailable")
	}

	callbackChan := make(chan map[string]string, 1)
	server := c.startCallbackServer(callbackChan)
	defer func() {
		if shutdownErr := server.Shutdown(ctx); shutdownErr != nil {
			log.Printf("error shutting down oauth callback server: %v", shutdownErr)
		}
	}()

	var codeVerifier, codeChallenge string
	var genErr error

	if c.oauthConfig.PKCEEnabled {
		codeVerifier, genErr = client.GenerateCodeVerifier()
		if genErr != nil {
			return fmt.Errorf("failed to generate code verifier: %w", genErr)
		}
		codeChallenge = client.GenerateCodeChallenge(codeVerifier)
	}
	state, genErr := client.GenerateState()
	if genErr != nil {
		return fmt.Errorf("failed to generate state: %w", genErr)
	}
	if err := oauthHandler.RegisterClient(ctx, fmt.Sprintf("agentcore-%s", c.config.Name)); err != nil {
		return fmt.Errorf("failed to register OAuth client: %w", err)
	}
	authURL, err := oauthHandler.GetAuthorizationURL(ctx, state, codeChallenge)
	if err != nil {
		return fmt.Errorf("failed to get authorization URL: %w", err)
	}

	if err := c.openBrowser(authURL); err != nil {
		log.Printf("failed to open browser automatically: %v", err)
		log.Printf("open this URL to authorize: %s", authURL)
	}

	params := <-callbackChan

	if params["state"] != state {
		return fmt.Errorf("state mismatch: expected %s, got %s", state, params["state"])
	}

	code := params["code"]
	if code == "" {
		return fmt.Errorf("no authorization code received")
	}
	if err := oauthHandler.ProcessAuthorizationResponse(ctx, code, state, codeVerifier); err != nil {
		return fmt.Errorf("failed to process authorization response: %w", err)
	}
	return nil
}

// startCallbackServer starts a local HTTP server on :8085 to receive the
// OAuth redirect and reports its query parameters on callbackChan.
func (c *Client) startCallbackServer(callbackChan chan<- map[string]string) *http.Server {
	server := &http.Server{Addr: ":8085"}

	http.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string)
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		select {
		case callbackChan <- params:
		default:
		}

		w.Header().Set("Content-Type", "text/html")
		_, err := w.Write([]byte(`
			<html>
				<body>
					<h1>Authorization Successful</h1>
					<p>You can now close this window and return to the application.</p>
					<script>window.close();</script>
				</body>
			</html>
		`))
		if err != nil {
			log.Printf("error writing oauth callback response: %v", err)
		}
	})

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("oauth callback server error: %v", err)
		}
	}()

	return server
}

// openBrowser opens url in the platform's default browser.
func (c *Client) openBrowser(url string) error {
	var cmd string
	var args []string
	switch runtime.GOOS {
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return exec.Command(cmd, args...).Start()
}

// initializeConnection performs the MCP initialize handshake, retrying
// once through the OAuth authorization flow if the server demands it.
func (c *Client) initializeConnection(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "agentcore",
				Version: "1.0.0",
			},
		},
	}

	initResponse, err := c.client.Initialize(initCtx, req)
	if err != nil {
		if c.config.IsOAuthEnabled() && c.isOAuthAuthorizationError(err) {
			if authErr := c.handleOAuthAuthorization(ctx, err); authErr != nil {
				return NewMCPError("initialize", c.config.Name, fmt.Errorf("OAuth authorization failed: %w", authErr))
			}
			initResponse, err = c.client.Initialize(initCtx, req)
			if err != nil {
				return c.wrapInitError(initCtx, err)
			}
		} else {
			return c.wrapInitError(initCtx, err)
		}
	}

	c.serverCapabilities = &initResponse.Capabilities
	return nil
}

func (c *Client) wrapInitError(initCtx context.Context, err error) error {
	if initCtx.Err() == context.DeadlineExceeded {
		return NewMCPError("initialize", c.config.Name, fmt.Errorf("initialization timeout after 30s: %w", ErrInitializationFailed))
	}
	return NewMCPError("initialize", c.config.Name, fmt.Errorf("%w: %v", ErrInitializationFailed, err))
}

// ListTools retrieves the server's tools, filtered by the server's
// ToolConfiguration, and caches the result.
func (c *Client) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	if !c.connected {
		return nil, NewMCPError("list_tools", c.config.Name, ErrNotConnected)
	}
	response, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, NewMCPError("list_tools", c.config.Name, err)
	}
	tools := c.filterTools(response.Tools)
	c.tools = tools
	return tools, nil
}

// CallTool invokes a tool on the server.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	if !c.connected {
		return nil, NewMCPError("call_tool", c.config.Name, ErrNotConnected)
	}
	response, err := c.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: arguments,
		},
	})
	if err != nil {
		return nil, NewMCPError("call_tool", c.config.Name, err)
	}
	return response, nil
}

// ListResources retrieves the server's resources. Returns
// ErrUnsupportedOperation if the server didn't advertise resource support
// during initialization.
func (c *Client) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	if !c.connected {
		return nil, NewMCPError("list_resources", c.config.Name, ErrNotConnected)
	}
	if c.serverCapabilities == nil || c.serverCapabilities.Resources == nil {
		return nil, NewMCPError("list_resources", c.config.Name, ErrUnsupportedOperation)
	}
	response, err := c.client.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		return nil, NewMCPError("list_resources", c.config.Name, err)
	}
	c.resources = response.Resources
	return response.Resources, nil
}

// ReadResource reads a single resource by URI.
func (c *Client) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	if !c.connected {
		return nil, NewMCPError("read_resource", c.config.Name, ErrNotConnected)
	}
	if c.serverCapabilities == nil || c.serverCapabilities.Resources == nil {
		return nil, NewMCPError("read_resource", c.config.Name, ErrUnsupportedOperation)
	}
	response, err := c.client.ReadResource(ctx, mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: uri},
	})
	if err != nil {
		return nil, NewMCPError("read_resource", c.config.Name, err)
	}
	return response, nil
}

// GetResources returns the most recently cached resource list.
func (c *Client) GetResources() []mcp.Resource {
	return c.resources
}

// GetServerCapabilities returns the capabilities reported during
// initialization, or nil if the client hasn't connected yet.
func (c *Client) GetServerCapabilities() *mcp.ServerCapabilities {
	return c.serverCapabilities
}

// GetTools returns the most recently cached, filtered tool list.
func (c *Client) GetTools() []mcp.Tool {
	return c.tools
}

// IsConnected reports whether the client has completed the initialize
// handshake.
func (c *Client) IsConnected() bool {
	return c.connected
}

// Close marks the client as disconnected. The underlying mcp-go client has
// no explicit close/shutdown method to call.
func (c *Client) Close() error {
	if c.client != nil && c.connected {
		c.connected = false
	}
	return nil
}

// filterTools applies the server's ToolConfiguration to a raw tool list:
// an empty, non-nil slice when tools are disabled outright, the full list
// when there's no allowlist, and the allowlist intersection otherwise.
func (c *Client) filterTools(tools []mcp.Tool) []mcp.Tool {
	if !c.config.IsToolEnabled() {
		return []mcp.Tool{}
	}

	allowedTools := c.config.GetAllowedTools()
	if len(allowedTools) == 0 {
		return tools
	}

	allowedMap := make(map[string]bool, len(allowedTools))
	for _, toolName := range allowedTools {
		allowedMap[toolName] = true
	}

	var filteredTools []mcp.Tool
	for _, tool := range tools {
		if allowedMap[tool.Name] {
			filteredTools = append(filteredTools, tool)
		}
	}
	return filteredTools
}
