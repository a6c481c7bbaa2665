package hostcall

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fetchsim/fetchsim"
	"github.com/fetchsim/fetchsim/fetch"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
	wapc "github.com/wapc/wapc-guest-tinygo"
	pb "google.golang.org/protobuf/proto"
)

const (
	// DefaultNamespace is the waPC namespace Tarmac guests call into.
	DefaultNamespace = "tarmac"

	// DefaultCapability is the Tarmac HTTP client capability.
	DefaultCapability = "httpclient"

	// DefaultFunction is the capability function that performs a request.
	DefaultFunction = "call"

	// DefaultGuestFunction is the name Register uses when none is given.
	DefaultGuestFunction = "fetch"
)

const (
	hostStatusOK       = int32(200)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrInvalidPayload is returned when the payload is not an HTTPClient request.
	ErrInvalidPayload = errors.New("payload is not a valid HTTP client request")

	// ErrSimulatorNil is returned by New when no simulator is configured.
	ErrSimulatorNil = errors.New("simulator cannot be nil")
)

// registerFunction exports guest functions; replaced in tests.
var registerFunction = func(name string, fn func([]byte) ([]byte, error)) {
	wapc.RegisterFunction(name, fn)
}

// Config represents the configuration for creating a Host.
type Config struct {
	// Simulator answers the requests.
	Simulator *fetch.Simulator

	// Namespace defaults to DefaultNamespace.
	Namespace string

	// Capability defaults to DefaultCapability.
	Capability string

	// Function defaults to DefaultFunction.
	Function string
}

// Host answers waPC HTTP client calls from a Simulator.
type Host struct {
	sim        *fetch.Simulator
	transport  http.RoundTripper
	namespace  string
	capability string
	function   string
}

// New creates a Host, filling routing defaults.
func New(config Config) (*Host, error) {
	if config.Simulator == nil {
		return nil, ErrSimulatorNil
	}

	h := &Host{
		sim:        config.Simulator,
		transport:  config.Simulator.Transport(),
		namespace:  DefaultNamespace,
		capability: DefaultCapability,
		function:   DefaultFunction,
	}
	if config.Namespace != "" {
		h.namespace = config.Namespace
	}
	if config.Capability != "" {
		h.capability = config.Capability
	}
	if config.Function != "" {
		h.function = config.Function
	}
	return h, nil
}

// HostCall matches the waPC host call signature. It validates routing, runs the
// request through the simulator and returns an encoded HTTPClientResponse.
func (h *Host) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	if h.namespace != namespace {
		return nil, fmt.Errorf("%w: expected namespace %s, got %s", ErrUnexpectedNamespace, h.namespace, namespace)
	}
	if h.capability != capability {
		return nil, fmt.Errorf("%w: expected capability %s, got %s", ErrUnexpectedCapability, h.capability, capability)
	}
	if h.function != function {
		return nil, fmt.Errorf("%w: expected function %s, got %s", ErrUnexpectedFunction, h.function, function)
	}

	var req proto.HTTPClient
	if err := pb.Unmarshal(payload, &req); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	b, err := pb.Marshal(h.serve(&req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal host response: %w", err)
	}
	return b, nil
}

// Handler is HostCall bound to the configured routing, usable as a waPC
// guest function.
func (h *Host) Handler(payload []byte) ([]byte, error) {
	return h.HostCall(h.namespace, h.capability, h.function, payload)
}

// Register exports Handler as a waPC guest function. An empty name uses
// DefaultGuestFunction.
func (h *Host) Register(name string) {
	if name == "" {
		name = DefaultGuestFunction
	}
	registerFunction(name, h.Handler)
}

// serve performs req against the simulator. Failures become host statuses.
func (h *Host) serve(req *proto.HTTPClient) *proto.HTTPClientResponse {
	httpReq, err := http.NewRequest(req.GetMethod(), req.GetUrl(), bytes.NewReader(req.GetBody()))
	if err != nil {
		return failed(hostStatusBadInput, err)
	}
	for name, header := range req.GetHeaders() {
		httpReq.Header[name] = header.GetValues()
	}

	resp, err := h.transport.RoundTrip(httpReq)
	if err != nil {
		return failed(statusFor(err), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(hostStatusError, err)
	}

	out := &proto.HTTPClientResponse{
		Status:  &sdkproto.Status{Code: hostStatusOK, Status: "OK"},
		Code:    int32(resp.StatusCode),
		Headers: make(map[string]*proto.Header, len(resp.Header)),
		Body:    body,
	}
	for name, values := range resp.Header {
		out.Headers[name] = &proto.Header{Values: values}
	}
	return out
}

func failed(code int32, err error) *proto.HTTPClientResponse {
	return &proto.HTTPClientResponse{
		Status: &sdkproto.Status{Code: code, Status: err.Error()},
	}
}

// statusFor maps simulator errors onto host status codes.
func statusFor(err error) int32 {
	switch {
	case errors.Is(err, fetchsim.ErrRouteNotFound):
		return hostStatusMissing
	case errors.Is(err, fetchsim.ErrMissingArgument),
		errors.Is(err, fetchsim.ErrTypeMismatch),
		errors.Is(err, fetchsim.ErrInvalidArgument):
		return hostStatusBadInput
	default:
		return hostStatusError
	}
}
