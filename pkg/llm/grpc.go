package llm

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// completionRequest/completionResponse are the wire messages exchanged with
// the external completion service. Hand-writing a .proto and running protoc
// is not possible in this environment, so the wire format is JSON carried
// over a real gRPC unary call via a custom grpc codec (jsonCodec, see
// codec.go) rather than generated protobuf bindings — see DESIGN.md.
type completionRequest struct {
	SystemPrompt string `json:"system_prompt"`
	UserPrompt   string `json:"user_prompt"`
}

type completionResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

const completeMethod = "/llm.v1.LLMService/Complete"

// GRPCClient implements Client by calling an external completion service
// over gRPC. Modeled on the teacher's GRPCLLMClient construction (plaintext
// transport, sidecar/localhost deployment — see pkg/agent/llm_grpc.go).
type GRPCClient struct {
	conn *grpc.ClientConn
}

// NewGRPCClient dials addr using insecure (plaintext) transport. Upgrade to
// TLS credentials if the completion service ever moves off the local host.
func NewGRPCClient(addr string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client for %s: %w", addr, err)
	}
	return &GRPCClient{conn: conn}, nil
}

// Complete sends a single completion request and waits for the full text.
func (c *GRPCClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := &completionRequest{SystemPrompt: systemPrompt, UserPrompt: userPrompt}
	resp := &completionResponse{}

	if err := c.conn.Invoke(ctx, completeMethod, req, resp, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return "", fmt.Errorf("llm Complete call failed: %w", err)
	}
	if resp.Error != "" {
		slog.Warn("llm completion service returned an error payload", "error", resp.Error)
		return "", fmt.Errorf("llm completion error: %s", resp.Error)
	}
	return resp.Text, nil
}

// Close releases the underlying connection.
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
