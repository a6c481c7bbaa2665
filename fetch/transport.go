package fetch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/fetchsim/fetchsim"
	"github.com/fetchsim/fetchsim/response"
	"github.com/fetchsim/fetchsim/route"
)

// Transport is an http.RoundTripper answering from a Simulator.
type Transport struct {
	sim *Simulator
}

// Ensure Transport always satisfies http.RoundTripper at compile time.
var _ http.RoundTripper = (*Transport)(nil)

// Transport returns a RoundTripper backed by s.
func (s *Simulator) Transport() *Transport {
	return &Transport{sim: s}
}

// RoundTrip dispatches req through the simulator, waiting out the route delay.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil || req.URL == nil {
		return nil, fmt.Errorf("%w: request with a URL is required", fetchsim.ErrMissingArgument)
	}
	if req.Body != nil {
		_ = req.Body.Close()
	}

	resp, err := t.sim.Fetch(t.routeKey(req), Options{Method: req.Method})
	if err != nil {
		return nil, err
	}
	return toHTTPResponse(req, resp)
}

// routeKey picks the first registered key among the full URL, the request URI
// and the bare path. The full URL is used when none match.
func (t *Transport) routeKey(req *http.Request) string {
	full := req.URL.String()
	for _, k := range []string{full, req.URL.RequestURI(), req.URL.Path} {
		if k != "" && t.sim.routes.Has(k) {
			return k
		}
	}
	return full
}

// toHTTPResponse renders a simulated response as an *http.Response.
func toHTTPResponse(req *http.Request, r *response.Response) (*http.Response, error) {
	code := http.StatusOK
	if v, ok := r.Field("status"); ok {
		n, err := toInt(v)
		if err != nil {
			return nil, fmt.Errorf("%w: status field of %s: %w", fetchsim.ErrTypeMismatch, r.URL, err)
		}
		code = n
	}

	text := http.StatusText(code)
	if v, ok := r.Field("statusText"); ok {
		if s, ok := v.(string); ok {
			text = s
		}
	}

	header := make(http.Header)
	if v, ok := r.Field("headers"); ok {
		if h, ok := v.(map[string]any); ok {
			for k, val := range h {
				header.Set(k, fmt.Sprint(val))
			}
		}
	}

	var body []byte
	switch b := r.Body.(type) {
	case nil:
	case []byte:
		body = b
	case string:
		body = []byte(b)
	default:
		enc, err := json.Marshal(b)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("%w: body of %s is not JSON encodable", fetchsim.ErrTypeMismatch, r.URL), err)
		}
		body = enc
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", "application/json")
		}
	}

	return &http.Response{
		Status:        strconv.Itoa(code) + " " + text,
		StatusCode:    code,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// Install points client at the simulator, first replacing the route table
// with routes when it is non-nil. The returned function restores the
// client's previous transport. Nothing changes when Install fails.
func (s *Simulator) Install(client *http.Client, routes map[string]route.Definition) (func(), error) {
	if client == nil {
		return nil, fmt.Errorf("%w: no http.Client to install into", fetchsim.ErrEnvironmentUnavailable)
	}
	if routes != nil {
		if err := s.SetRoutes(routes); err != nil {
			return nil, err
		}
	}

	prev := client.Transport
	client.Transport = s.Transport()
	s.log.Debug().Msg("simulator installed")

	return func() {
		client.Transport = prev
	}, nil
}

// Use installs the simulator into http.DefaultClient.
func (s *Simulator) Use(routes map[string]route.Definition) (func(), error) {
	return s.Install(http.DefaultClient, routes)
}
