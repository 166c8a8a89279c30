package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/presets"
	"github.com/aretw0/arbor/pkg/service"
)

const presetsURI = "arbor://presets"

// Generator is the service surface the MCP server drives.
type Generator interface {
	Generate(ctx context.Context, req service.Request) (*domain.Result, error)
	Get(ctx context.Context, id string) (*domain.Result, error)
	Catalog() *presets.Catalog
}

// GenerateArgs are the arguments of the generate tool.
type GenerateArgs struct {
	Preset     string `json:"preset"`
	Seed       int64  `json:"seed"`
	Iterations int    `json:"iterations"`
	Params     string `json:"params"`
	DepthMode  string `json:"depth_mode"`
}

// GenerateResponse summarizes one run without its geometry.
type GenerateResponse struct {
	ID          string `json:"id" jsonschema_description:"Deterministic result id"`
	Preset      string `json:"preset"`
	Seed        int64  `json:"seed"`
	Iterations  int    `json:"iterations"`
	Length      int    `json:"length" jsonschema_description:"Length of the final symbol sequence"`
	MaxDepth    int    `json:"max_depth"`
	Invocations int    `json:"invocations" jsonschema_description:"Number of handler calls during execution"`
	Instances   int    `json:"instances"`
	Segments    int    `json:"segments"`
	Lots        int    `json:"lots"`
	Collisions  int    `json:"collisions"`
	Preview     string `json:"preview" jsonschema_description:"Leading part of the sequence"`
}

// PresetInfo describes one catalog entry.
type PresetInfo struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	DefaultIterations int    `json:"default_iterations"`
}

// PresetList is the output of the list_presets tool.
type PresetList struct {
	Presets []PresetInfo `json:"presets"`
}

// Server exposes the generator as an MCP server.
type Server struct {
	gen       Generator
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(gen Generator, opts ...Option) *Server {
	s := &Server{
		gen:       gen,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		baseURL = "http://localhost" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	generateTool := mcp.NewTool("generate",
		mcp.WithDescription("Run a preset grammar and return a summary of the result."),
		mcp.WithString("preset", mcp.Required(), mcp.Description("Preset name, see list_presets")),
		mcp.WithNumber("seed", mcp.Description("Noise seed (default 0)")),
		mcp.WithNumber("iterations", mcp.Description("Rewriting generations (default: preset default)")),
		mcp.WithString("params", mcp.Description("JSON object of preset parameters")),
		mcp.WithString("depth_mode", mcp.Enum("reset-on-close", "running-max"), mcp.Description("Bracket depth accounting")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	listTool := mcp.NewTool("list_presets",
		mcp.WithDescription("List the available preset grammars."),
		mcp.WithOutputSchema[PresetList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListPresets))

	s.mcpServer.AddTool(mcp.NewTool("describe_grammar",
		mcp.WithDescription("Render a preset's rules as a Mermaid flowchart."),
		mcp.WithString("preset", mcp.Required(), mcp.Description("Preset name")),
	), s.handleDescribeGrammar)

	s.mcpServer.AddTool(mcp.NewTool("get_result",
		mcp.WithDescription("Fetch a stored result, geometry included, by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Result id returned by generate")),
	), s.handleGetResult)
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args GenerateArgs) (GenerateResponse, error) {
	req := service.Request{
		Preset:     args.Preset,
		Seed:       args.Seed,
		Iterations: args.Iterations,
		DepthMode:  args.DepthMode,
	}
	if args.Params != "" {
		if err := json.Unmarshal([]byte(args.Params), &req.Params); err != nil {
			return GenerateResponse{}, fmt.Errorf("params must be a JSON object: %w", err)
		}
	}

	res, err := s.gen.Generate(ctx, req)
	if err != nil {
		s.logger.Warn("MCP generate failed", "preset", args.Preset, "err", err)
		return GenerateResponse{}, fmt.Errorf("generate failed: %w", err)
	}

	return GenerateResponse{
		ID:          res.ID,
		Preset:      res.Preset,
		Seed:        res.Seed,
		Iterations:  res.Iterations,
		Length:      len(res.Sequence),
		MaxDepth:    res.MaxDepth,
		Invocations: res.Invocations,
		Instances:   len(res.Instances),
		Segments:    len(res.Segments),
		Lots:        len(res.Lots),
		Collisions:  res.Collisions,
		Preview:     tui.Preview(res.Sequence, 200),
	}, nil
}

func (s *Server) handleListPresets(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (PresetList, error) {
	return PresetList{Presets: s.presetInfos()}, nil
}

func (s *Server) handleDescribeGrammar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("preset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.gen.Catalog().Get(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	setup, err := p.Setup(0, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("setup failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(setup.Grammar, nil)), nil
}

func (s *Server) handleGetResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.gen.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jsonBytes, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(presetsURI, "Preset Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.presetInfos())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      presetsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) presetInfos() []PresetInfo {
	list := s.gen.Catalog().List()
	infos := make([]PresetInfo, 0, len(list))
	for _, p := range list {
		infos = append(infos, PresetInfo{
			Name:              p.Name(),
			Description:       p.Describe(),
			DefaultIterations: p.DefaultIterations(),
		})
	}
	return infos
}
