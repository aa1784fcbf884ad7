package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"docchat/internal/domain"
)

// ResponseError is a failed call to the responses endpoint. Error returns
// the provider's own message.
type ResponseError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai responses failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// Respond runs one retrieval-augmented generation call scoped to the
// knowledge base via the file_search tool. Errors are not retried.
func (c *Client) Respond(ctx context.Context, req domain.ResponseRequest) (string, error) {
	input := make(responses.ResponseInputParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		input = append(input, responses.ResponseInputItemParamOfMessage(m.Content, responses.EasyInputMessageRole(m.Role)))
	}

	resp, err := c.responses.Responses.New(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(req.Model),
		Input: responses.ResponseNewParamsInputUnion{OfInputItemList: input},
		Tools: []responses.ToolUnionParam{{
			OfFileSearch: &responses.FileSearchToolParam{VectorStoreIDs: []string{string(req.KnowledgeBase)}},
		}},
	})
	if err != nil {
		return "", responseError(err)
	}
	if resp.Error.Message != "" {
		return "", &ResponseError{StatusCode: http.StatusOK, Code: string(resp.Error.Code), Message: resp.Error.Message}
	}
	text := resp.OutputText()
	if text == "" {
		return "", errors.New("no answer returned")
	}
	return text, nil
}

// responseError keeps the provider message of an API error as the error text.
// Transport errors are returned as is.
func responseError(err error) error {
	var apiErr *oai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return &ResponseError{
		StatusCode: apiErr.StatusCode,
		Type:       apiErr.Type,
		Code:       apiErr.Code,
		Message:    apiErr.Message,
	}
}
