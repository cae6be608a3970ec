// Package rpcjson exposes the survey service over a JSON-RPC 2.0 unix
// socket for the CLI.
package rpcjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/karilint/bones/internal/application"
	"github.com/karilint/bones/internal/domain"
)

type Server struct {
	service  *application.SurveyService
	listener net.Listener
	path     string
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

type response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  any         `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func Start(path string, service *application.SurveyService) (*Server, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rpc socket path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		_ = os.Remove(path)
		return nil, err
	}

	s := &Server{service: service, listener: ln, path: path}
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			_ = enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}, ID: nil})
			return
		}

		resp := s.dispatch(context.Background(), req)
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	if req.JSONRPC != "2.0" || strings.TrimSpace(req.Method) == "" {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32600, Message: "invalid request"}, ID: req.ID}
	}

	switch req.Method {
	case "auth.login":
		return s.handleAuthLogin(ctx, req)
	case "auth.whoami":
		identity, rpcResp, ok := s.authz(ctx, req)
		if !ok {
			return rpcResp
		}
		return response{JSONRPC: "2.0", Result: map[string]any{"id": identity.User.ID, "email": identity.User.Email}, ID: req.ID}
	case "stats.dashboard":
		_, rpcResp, ok := s.authz(ctx, req)
		if !ok {
			return rpcResp
		}
		return response{JSONRPC: "2.0", Result: s.service.DashboardCounts(ctx), ID: req.ID}
	case "transects.list":
		_, rpcResp, ok := s.authz(ctx, req)
		if !ok {
			return rpcResp
		}
		var p struct {
			Token      string `json:"token"`
			State      string `json:"state"`
			TemplateID string `json:"template_id"`
			Page       int    `json:"page"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		items, total, err := s.service.ListTransects(ctx, domain.TransectFilter{State: p.State, TemplateID: p.TemplateID}, pageOrFirst(p.Page))
		if err != nil {
			return internalError(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: map[string]any{"items": items, "total": total}, ID: req.ID}
	case "transects.get":
		_, rpcResp, ok := s.authz(ctx, req)
		if !ok {
			return rpcResp
		}
		var p struct {
			Token string `json:"token"`
			UID   uint   `json:"uid"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		transect, err := s.service.GetTransect(ctx, p.UID)
		if err != nil {
			return appError(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: transect, ID: req.ID}
	case "occurrences.list":
		_, rpcResp, ok := s.authz(ctx, req)
		if !ok {
			return rpcResp
		}
		var p struct {
			Token       string `json:"token"`
			State       string `json:"state"`
			TransectUID *uint  `json:"transect_uid"`
			Page        int    `json:"page"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		items, total, err := s.service.ListOccurrences(ctx, domain.OccurrenceFilter{State: p.State, TransectUID: p.TransectUID}, pageOrFirst(p.Page))
		if err != nil {
			return internalError(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: map[string]any{"items": items, "total": total}, ID: req.ID}
	case "workflows.list":
		_, rpcResp, ok := s.authz(ctx, req)
		if !ok {
			return rpcResp
		}
		var p struct {
			Token        string `json:"token"`
			OccurrenceID *uint  `json:"occurrence_id"`
			CompletedBy  string `json:"completed_by"`
			Page         int    `json:"page"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		items, total, err := s.service.ListWorkflows(ctx, domain.WorkflowFilter{OccurrenceID: p.OccurrenceID, CompletedBy: p.CompletedBy}, pageOrFirst(p.Page))
		if err != nil {
			return internalError(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: map[string]any{"items": items, "total": total}, ID: req.ID}
	case "logs.list":
		_, rpcResp, ok := s.authz(ctx, req)
		if !ok {
			return rpcResp
		}
		var p struct {
			Token      string `json:"token"`
			UploadedBy string `json:"uploaded_by"`
			Page       int    `json:"page"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		items, total, err := s.service.ListDataLogFiles(ctx, domain.DataLogFileFilter{UploadedBy: p.UploadedBy}, pageOrFirst(p.Page))
		if err != nil {
			return internalError(req.ID, err)
		}
		return response{JSONRPC: "2.0", Result: map[string]any{"items": items, "total": total}, ID: req.ID}
	case "history.recent":
		_, rpcResp, ok := s.authz(ctx, req)
		if !ok {
			return rpcResp
		}
		var p struct {
			Token string `json:"token"`
			Limit int    `json:"limit"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		limit := p.Limit
		if limit <= 0 {
			limit = 50
		}
		return response{JSONRPC: "2.0", Result: s.service.MergedRecentHistory(ctx, limit), ID: req.ID}
	default:
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32601, Message: "method not found"}, ID: req.ID}
	}
}

func (s *Server) handleAuthLogin(ctx context.Context, req request) response {
	var p struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		TokenName string `json:"token_name"`
	}
	if !decodeParams(req.Params, &p) {
		return invalidParams(req.ID)
	}
	token, identity, err := s.service.LoginWithAPIToken(ctx, p.Email, p.Password, p.TokenName)
	if err != nil {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: 40100, Message: "invalid credentials"}, ID: req.ID}
	}
	return response{JSONRPC: "2.0", Result: map[string]any{"user_id": identity.User.ID, "email": identity.User.Email, "token": token}, ID: req.ID}
}

func (s *Server) authz(ctx context.Context, req request) (domain.Identity, response, bool) {
	var p struct {
		Token string `json:"token"`
	}
	if !decodeParams(req.Params, &p) {
		return domain.Identity{}, invalidParams(req.ID), false
	}
	identity, err := s.service.AuthenticateBearerToken(ctx, p.Token)
	if err != nil {
		return domain.Identity{}, response{JSONRPC: "2.0", Error: &rpcError{Code: 40100, Message: "unauthorized"}, ID: req.ID}, false
	}
	return identity, response{}, true
}

func decodeParams(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func invalidParams(id any) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: -32602, Message: "invalid params"}, ID: id}
}

func appError(id any, err error) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: 40000, Message: err.Error()}, ID: id}
}

func internalError(id any, err error) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: 50000, Message: fmt.Sprintf("internal error: %v", err)}, ID: id}
}
