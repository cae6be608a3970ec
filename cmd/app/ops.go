package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

func doLogin(ctx context.Context, cfg cliConfig, email, password, tokenName string, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "auth.login", map[string]any{
			"email":      email,
			"password":   password,
			"token_name": tokenName,
		}, out)
	}
	client := newAPIClient(cfg.Server, "")
	return client.request(ctx, http.MethodPost, "/api/auth/login", map[string]any{
		"email":      email,
		"password":   password,
		"mode":       "token",
		"token_name": tokenName,
	}, out)
}

func doWhoAmI(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "auth.whoami", map[string]any{"token": cfg.Token}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/auth/whoami", nil, out)
}

func doLogout(ctx context.Context, cfg cliConfig) error {
	if cfg.Transport == "uds" {
		return nil
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func doStatsDashboard(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "stats.dashboard", map[string]any{"token": cfg.Token}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/stats/dashboard", nil, out)
}

func doTransectsList(ctx context.Context, cfg cliConfig, state, templateID string, page int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "transects.list", map[string]any{"token": cfg.Token, "state": state, "template_id": templateID, "page": page}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	params := url.Values{}
	if state != "" {
		params.Set("state", state)
	}
	if templateID != "" {
		params.Set("transect_template", templateID)
	}
	params.Set("page", strconv.Itoa(page))
	return client.request(ctx, http.MethodGet, "/api/transects?"+params.Encode(), nil, out)
}

func doTransectsGet(ctx context.Context, cfg cliConfig, uid uint, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "transects.get", map[string]any{"token": cfg.Token, "uid": uid}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/transects/"+uintToString(uid), nil, out)
}

func doOccurrencesList(ctx context.Context, cfg cliConfig, state string, transectUID *uint, page int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "occurrences.list", map[string]any{"token": cfg.Token, "state": state, "transect_uid": transectUID, "page": page}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	params := url.Values{}
	if state != "" {
		params.Set("state", state)
	}
	if transectUID != nil {
		params.Set("transect", uintToString(*transectUID))
	}
	params.Set("page", strconv.Itoa(page))
	return client.request(ctx, http.MethodGet, "/api/occurrences?"+params.Encode(), nil, out)
}

func doWorkflowsList(ctx context.Context, cfg cliConfig, occurrenceID *uint, completedBy string, page int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "workflows.list", map[string]any{"token": cfg.Token, "occurrence_id": occurrenceID, "completed_by": completedBy, "page": page}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	params := url.Values{}
	if occurrenceID != nil {
		params.Set("occurrence", uintToString(*occurrenceID))
	}
	if completedBy != "" {
		params.Set("completed_by", completedBy)
	}
	params.Set("page", strconv.Itoa(page))
	return client.request(ctx, http.MethodGet, "/api/workflows?"+params.Encode(), nil, out)
}

func doLogsList(ctx context.Context, cfg cliConfig, uploadedBy string, page int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "logs.list", map[string]any{"token": cfg.Token, "uploaded_by": uploadedBy, "page": page}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	params := url.Values{}
	if uploadedBy != "" {
		params.Set("uploaded_by", uploadedBy)
	}
	params.Set("page", strconv.Itoa(page))
	return client.request(ctx, http.MethodGet, "/api/logs?"+params.Encode(), nil, out)
}

func doHistoryRecent(ctx context.Context, cfg cliConfig, limit int, out any) error {
	if cfg.Transport == "uds" {
		client := newRPCClient(cfg.Socket)
		return client.call(ctx, "history.recent", map[string]any{"token": cfg.Token, "limit": limit}, out)
	}
	client := newAPIClient(cfg.Server, cfg.Token)
	return client.request(ctx, http.MethodGet, "/api/history/recent", nil, out)
}

func uintToString(v uint) string {
	return fmt.Sprintf("%d", v)
}
