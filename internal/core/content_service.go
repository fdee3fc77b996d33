package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingField means a required request field was absent or empty. It is
// checked before any upstream call is made.
var ErrMissingField = errors.New("required field is missing")

// ContentService builds the four marketing-content operations on top of the
// completion gateway. Each one is a single prompt template plus trivial
// post-processing.
type ContentService struct {
	gateway CompletionGateway
}

func NewContentService(gateway CompletionGateway) *ContentService {
	return &ContentService{gateway: gateway}
}

// GenerateContent passes the user's prompt to the gateway verbatim.
func (s *ContentService) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrMissingField
	}
	return s.gateway.Complete(ctx, prompt)
}

// Keywords asks for comma-separated SEO keywords and splits the response into
// an ordered list: segments trimmed, empties dropped, no deduplication.
func (s *ContentService) Keywords(ctx context.Context, topic string) ([]string, error) {
	if topic == "" {
		return nil, ErrMissingField
	}

	prompt := fmt.Sprintf("Generate a list of SEO keywords for: %s. Return only comma-separated keywords.", topic)
	text, err := s.gateway.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var keywords []string
	for _, part := range strings.Split(text, ",") {
		if k := strings.TrimSpace(part); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords, nil
}

func (s *ContentService) Strategy(ctx context.Context, business string) (string, error) {
	if business == "" {
		return "", ErrMissingField
	}
	return s.gateway.Complete(ctx, fmt.Sprintf("Create a marketing strategy for: %s", business))
}

func (s *ContentService) Email(ctx context.Context, details string) (string, error) {
	if details == "" {
		return "", ErrMissingField
	}
	return s.gateway.Complete(ctx, fmt.Sprintf("Write a professional email for: %s", details))
}
