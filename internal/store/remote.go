package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteKV talks to a REST key/value service (Upstash-compatible command
// paths, bearer token auth). It is the only backend shared between
// instances, so it is what makes a daily pin visible everywhere.
type RemoteKV struct {
	client *resty.Client
}

type remoteReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// NewRemoteKV returns a client for the service at baseURL.
func NewRemoteKV(baseURL, token string, timeout time.Duration) *RemoteKV {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &RemoteKV{client: c}
}

func (r *RemoteKV) do(ctx context.Context, method, path string, params map[string]string, body string) (json.RawMessage, error) {
	req := r.client.R().SetContext(ctx).SetPathParams(params)
	if body != "" {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("kv %s %s: %w", method, path, err)
	}

	var reply remoteReply
	if len(resp.Body()) > 0 {
		if jerr := json.Unmarshal(resp.Body(), &reply); jerr != nil && !resp.IsError() {
			return nil, fmt.Errorf("kv decode reply: %w", jerr)
		}
	}
	if resp.IsError() {
		if reply.Error != "" {
			return nil, fmt.Errorf("kv error %d: %s", resp.StatusCode(), reply.Error)
		}
		return nil, fmt.Errorf("kv error %d", resp.StatusCode())
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("kv error: %s", reply.Error)
	}
	return reply.Result, nil
}

func (r *RemoteKV) Get(ctx context.Context, key string) (string, error) {
	raw, err := r.do(ctx, resty.MethodGet, "/get/{key}", map[string]string{"key": key}, "")
	if err != nil {
		return "", err
	}
	var v *string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", fmt.Errorf("kv get %s: %w", key, err)
		}
	}
	if v == nil {
		return "", ErrNotFound
	}
	return *v, nil
}

func (r *RemoteKV) Set(ctx context.Context, key, value string) error {
	_, err := r.do(ctx, resty.MethodPost, "/set/{key}", map[string]string{"key": key}, value)
	return err
}

// SMembers returns the set in whatever order the service chooses.
func (r *RemoteKV) SMembers(ctx context.Context, key string) ([]string, error) {
	raw, err := r.do(ctx, resty.MethodGet, "/smembers/{key}", map[string]string{"key": key}, "")
	if err != nil {
		return nil, err
	}
	return decodeMembers("smembers", key, raw)
}

func (r *RemoteKV) SAdd(ctx context.Context, key, member string) error {
	_, err := r.do(ctx, resty.MethodGet, "/sadd/{key}/{member}", map[string]string{"key": key, "member": member}, "")
	return err
}

func (r *RemoteKV) ZAdd(ctx context.Context, key string, score int64, member string) error {
	_, err := r.do(ctx, resty.MethodGet, "/zadd/{key}/{score}/{member}", map[string]string{
		"key": key, "score": strconv.FormatInt(score, 10), "member": member,
	}, "")
	return err
}

func (r *RemoteKV) ZTail(ctx context.Context, key string, n int) ([]string, error) {
	if n == 0 {
		return []string{}, nil
	}
	start := 0
	if n > 0 {
		start = -n
	}
	raw, err := r.do(ctx, resty.MethodGet, "/zrange/{key}/{start}/-1", map[string]string{
		"key": key, "start": strconv.Itoa(start),
	}, "")
	if err != nil {
		return nil, err
	}
	return decodeMembers("zrange", key, raw)
}

func decodeMembers(cmd, key string, raw json.RawMessage) ([]string, error) {
	members := []string{}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &members); err != nil {
			return nil, fmt.Errorf("kv %s %s: %w", cmd, key, err)
		}
	}
	return members, nil
}

func (r *RemoteKV) Ping(ctx context.Context) error {
	_, err := r.do(ctx, resty.MethodGet, "/ping", nil, "")
	return err
}

func (r *RemoteKV) Name() string { return "remote" }

func (r *RemoteKV) Close() error { return nil }
