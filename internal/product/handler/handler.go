// Package handler provides the command-line handlers for product operations.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/abgdnv/catalog/internal/product/service"
)

// Exit codes returned by Run.
const (
	ExitOK = iota
	ExitNotFound
	ExitUsage
	ExitValidation
	ExitDuplicateCode
	ExitStorage
	ExitFailure
)

// ErrUsage reports a malformed command line or payload.
var ErrUsage = errors.New("usage error")

const usage = `usage: catalog [flags] <command> [args]

commands:
  add <json|->            add a product, the id is assigned
  list                    list all products
  get <id>                show one product
  update <id> <json|->    merge the given fields into a product
  delete <id>             remove a product
`

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a Handler running commands against the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "handler"),
	}
}

// Run executes one command. Results are written to out as JSON, failures to errOut.
// It returns the process exit code.
func (h *Handler) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) == 0 {
		_, _ = io.WriteString(errOut, usage)
		return ExitUsage
	}
	command, rest := args[0], args[1:]
	h.logger.DebugContext(ctx, "Running command", "command", command, "args", len(rest))

	var (
		result any
		err    error
	)
	switch command {
	case "add":
		result, err = h.add(ctx, rest, in)
	case "list":
		result, err = h.list(ctx, rest)
	case "get":
		result, err = h.get(ctx, rest)
	case "update":
		result, err = h.update(ctx, rest, in)
	case "delete":
		result, err = h.delete(ctx, rest)
	case "help", "-h", "--help":
		_, _ = io.WriteString(out, usage)
		return ExitOK
	default:
		err = fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}

	if err != nil {
		code := ExitCode(err)
		if code == ExitUsage {
			h.logger.WarnContext(ctx, "Invalid command line", "command", command, "error", err)
		}
		respondError(errOut, h.logger, err)
		return code
	}
	respondJSON(out, h.logger, result)
	return ExitOK
}

func (h *Handler) add(ctx context.Context, args []string, in io.Reader) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: add expects one JSON payload", ErrUsage)
	}
	var productCreateDto service.ProductCreateDto
	if err := decodePayload(args[0], in, &productCreateDto); err != nil {
		return nil, err
	}
	return h.service.Create(ctx, &productCreateDto)
}

func (h *Handler) list(ctx context.Context, args []string) (any, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("%w: list takes no arguments", ErrUsage)
	}
	return h.service.FindAll(ctx)
}

func (h *Handler) get(ctx context.Context, args []string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: get expects a product ID", ErrUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return nil, err
	}
	return h.service.FindByID(ctx, id)
}

func (h *Handler) update(ctx context.Context, args []string, in io.Reader) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: update expects a product ID and a JSON payload", ErrUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return nil, err
	}
	var patch service.ProductPatchDto
	if err := decodePayload(args[1], in, &patch); err != nil {
		return nil, err
	}
	return h.service.Update(ctx, id, patch)
}

func (h *Handler) delete(ctx context.Context, args []string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: delete expects a product ID", ErrUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return nil, err
	}
	if err := h.service.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	return map[string]int64{"deleted": id}, nil
}

// ExitCode maps an error returned by the service to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, perrors.ErrProductNotFound):
		return ExitNotFound
	case errors.Is(err, perrors.ErrInvalidProduct):
		return ExitValidation
	case errors.Is(err, perrors.ErrDuplicateCode):
		return ExitDuplicateCode
	case errors.Is(err, perrors.ErrStoreRead), errors.Is(err, perrors.ErrStoreWrite):
		return ExitStorage
	default:
		return ExitFailure
	}
}

// parseID parses a decimal product ID. The same parser serves get, update and delete.
func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid product ID: %s", ErrUsage, value)
	}
	return id, nil
}

// decodePayload decodes the JSON argument, or stdin when the argument is "-".
// The payload must hold exactly one JSON value.
func decodePayload(arg string, in io.Reader, target any) error {
	var r io.Reader = strings.NewReader(arg)
	if arg == "-" {
		r = in
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid product payload: %w", ErrUsage, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid product payload: unexpected data after JSON value", ErrUsage)
	}
	return nil
}

func respondJSON(w io.Writer, logger *slog.Logger, payload any) {
	response, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		return
	}
	response = append(response, '\n')
	if _, err := w.Write(response); err != nil {
		logger.Error("Error writing response", "error", err)
	}
}

func respondError(w io.Writer, logger *slog.Logger, err error) {
	response := map[string]any{
		"error": err.Error(),
		"kind":  perrors.Kind(err),
	}
	if errors.Is(err, ErrUsage) {
		response["kind"] = "usage"
	}
	var validationErr *perrors.ValidationError
	if errors.As(err, &validationErr) {
		errorResponse := make(map[string]string, len(validationErr.Fields))
		for field, tag := range validationErr.Fields {
			errorResponse[field] = "failed on rule: " + tag
		}
		response["validation_errors"] = errorResponse
	}
	respondJSON(w, logger, response)
}
