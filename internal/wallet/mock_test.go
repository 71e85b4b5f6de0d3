package wallet

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// rpcCall is one recorded JSON-RPC request.
type rpcCall struct {
	Method string
	Params []json.RawMessage
}

// rpcHandler answers a request with a result or an error. A nil error and
// nil result encode as JSON null.
type rpcHandler func(params []json.RawMessage) (interface{}, *ProviderError)

// rpcMock is a JSON-RPC server driven by per-method handlers.
type rpcMock struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]rpcHandler
	calls    []rpcCall
}

func newRPCMock(t *testing.T) *rpcMock {
	t.Helper()
	m := &rpcMock{handlers: make(map[string]rpcHandler)}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Close)
	return m
}

// on sets the handler for method.
func (m *rpcMock) on(method string, h rpcHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method] = h
}

// result makes method always return v.
func (m *rpcMock) result(method string, v interface{}) {
	m.on(method, func([]json.RawMessage) (interface{}, *ProviderError) { return v, nil })
}

// fail makes method always return an error with code.
func (m *rpcMock) fail(method string, code int, msg string) {
	m.on(method, func([]json.RawMessage) (interface{}, *ProviderError) {
		return nil, &ProviderError{Code: code, Message: msg}
	})
}

// callsTo returns the recorded requests for method.
func (m *rpcMock) callsTo(method string) []rpcCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []rpcCall
	for _, c := range m.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (m *rpcMock) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
		ID     json.RawMessage   `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.calls = append(m.calls, rpcCall{Method: req.Method, Params: req.Params})
	h, ok := m.handlers[req.Method]
	m.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	switch {
	case !ok:
		resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
	default:
		result, perr := h(req.Params)
		if perr != nil {
			resp["error"] = map[string]interface{}{"code": perr.Code, "message": perr.Message}
		} else {
			resp["result"] = result
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}
