package suggest

import (
	"context"
	"log/slog"
)

// StubClient answers locally when no suggestion service is configured: the
// summary echoes the command and no edits are suggested.
type StubClient struct {
	logger *slog.Logger
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

func (c *StubClient) Summary(_ context.Context, req SummaryRequest) (*SummaryResponse, error) {
	if c.logger != nil {
		c.logger.Info("stub suggestion client: summary requested", "input_len", len(req.Input))
	}
	return &SummaryResponse{Summary: req.Input}, nil
}

func (c *StubClient) Suggestions(_ context.Context, req SuggestionRequest) (*SuggestionResponse, error) {
	if c.logger != nil {
		c.logger.Info("stub suggestion client: suggestions requested", "edit_count", len(req.Edits))
	}
	return &SuggestionResponse{
		RequestParameters: ResponseParameters{EditOperation: req.RequestParameters.EditOperation},
		Edits:             []Edit{},
	}, nil
}
