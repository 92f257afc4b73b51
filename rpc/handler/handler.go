// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handler

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/metrics"
)

// paths subject to the allow lists
const (
	DetailsPath = "details"
	MetricsPath = "metrics"
)

// Handler - the HTTPS endpoints
type Handler interface {
	Root(http.ResponseWriter, *http.Request)
	RPC(http.ResponseWriter, *http.Request)
	Details(http.ResponseWriter, *http.Request)
	Metrics(http.ResponseWriter, *http.Request)
	SetAllow(map[string][]*net.IPNet)
}

// Informer - source of the market summary shown by Details
type Informer interface {
	Info() market.Info
}

// Parameters - everything a handler needs
type Parameters struct {
	Log                *logger.L
	Server             *rpc.Server
	Start              time.Time
	Version            string
	Chain              string
	MaximumConnections uint64
	Count              *counter.Counter
	Market             Informer
	Metrics            *metrics.Metrics
}

type handler struct {
	sync.RWMutex

	Parameters
	allow map[string][]*net.IPNet
}

// New - create the handlers
func New(p Parameters) Handler {
	if nil == p.Count {
		p.Count = new(counter.Counter)
	}
	return &handler{
		Parameters: p,
		allow:      make(map[string][]*net.IPNet),
	}
}

// type to allow rpc system to interface to http request
type internalConnection struct {
	in  io.Reader
	out io.Writer
}

func (c *internalConnection) Read(p []byte) (n int, err error) {
	return c.in.Read(p)
}
func (c *internalConnection) Write(d []byte) (n int, err error) {
	return c.out.Write(d)
}
func (c *internalConnection) Close() error {
	return nil
}

// SetAllow - replace the access lists, keyed by path name
func (h *handler) SetAllow(allow map[string][]*net.IPNet) {
	h.Lock()
	h.allow = allow
	h.Unlock()
}

// Root - matches anything not matched and returns error
func (h *handler) Root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// RPC - performs a call to any normal RPC
func (h *handler) RPC(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !h.Count.TryIncrement(h.MaximumConnections) {
		sendTooManyRequests(w)
		return
	}
	defer h.Count.Decrement()

	codec := jsonrpc.NewServerCodec(&internalConnection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	err := h.Server.ServeRequest(h.Parameters.Metrics.WrapCodec(codec))
	if nil != err {
		h.Log.Debugf("rpc request error: %s", err)
		sendInternalServerError(w)
		return
	}
}

// Details - GET summary of the node and market
// (restricted by allow list)
func (h *handler) Details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !h.isAllowed(DetailsPath, r) {
		h.Log.Warnf("Deny access: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	if !h.Count.TryIncrement(h.MaximumConnections) {
		sendTooManyRequests(w)
		return
	}
	defer h.Count.Decrement()

	type theReply struct {
		Chain   string       `json:"chain"`
		RPCs    uint64       `json:"rpcs"`
		Version string       `json:"version"`
		Uptime  string       `json:"uptime"`
		Market  *market.Info `json:"market,omitempty"`
	}

	reply := theReply{
		Chain:   h.Chain,
		RPCs:    h.Count.Uint64(),
		Version: h.Version,
		Uptime:  time.Since(h.Start).String(),
	}
	if nil != h.Market {
		info := h.Market.Info()
		reply.Market = &info
	}

	sendReply(w, reply)
}

// Metrics - prometheus exposition (restricted by allow list)
func (h *handler) Metrics(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !h.isAllowed(MetricsPath, r) {
		h.Log.Warnf("Deny access: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	if nil == h.Parameters.Metrics {
		sendNotFound(w)
		return
	}
	h.Parameters.Metrics.Handler().ServeHTTP(w, r)
}

// check the remote address against the path's allow list
func (h *handler) isAllowed(path string, r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if nil != err {
		return false
	}
	ip := net.ParseIP(host)
	if nil == ip {
		return false
	}

	h.RLock()
	defer h.RUnlock()

	for _, n := range h.allow[path] {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendForbidden(w http.ResponseWriter) {
	sendError(w, "forbidden", http.StatusForbidden)
}
func sendTooManyRequests(w http.ResponseWriter) {
	sendError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(text)
}
