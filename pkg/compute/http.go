package compute

import (
	"context"
	"fmt"

	"github.com/fleetctl/fleetctl/pkg/config"
	"github.com/fleetctl/fleetctl/pkg/model"
	"github.com/fleetctl/fleetctl/pkg/node"
	resty "github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// HTTPProvider is a Provider backed by a fleet-management HTTP API,
// grounded on the teacher's AuthHTTPClient/NoAuthHTTPStore split: a
// resty.Client carrying the base URL and auth token, responses read with
// gjson rather than unmarshaled into response DTOs.
type HTTPProvider struct {
	client *resty.Client
}

var _ Provider = (*HTTPProvider)(nil)

func NewHTTPProvider(baseURL, accessToken string) *HTTPProvider {
	c := resty.New()
	c.SetBaseURL(baseURL)
	if accessToken != "" {
		c.SetAuthToken(accessToken)
	}
	return &HTTPProvider{client: c}
}

// HTTPResponseError wraps a non-2xx response, grounded on the teacher's
// store.HTTPResponseError.
type HTTPResponseError struct {
	response *resty.Response
}

func (e HTTPResponseError) Error() string {
	return fmt.Sprintf("%s %s", e.response.Request.URL, e.response.Status())
}

func (p *HTTPProvider) Nodes(ctx context.Context) ([]node.Node, error) {
	resp, err := p.client.R().SetContext(ctx).Get("/nodes")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, HTTPResponseError{response: resp}
	}
	var out []node.Node
	gjson.GetBytes(resp.Body(), "nodes").ForEach(func(_, entry gjson.Result) bool {
		tags := map[string]string{}
		entry.Get("tags").ForEach(func(k, v gjson.Result) bool {
			tags[k.String()] = v.String()
			return true
		})
		out = append(out, node.Basic{
			NodeID:  entry.Get("id").String(),
			Name:    entry.Get("base_name").String(),
			IP:      entry.Get("primary_ip").String(),
			Service: entry.Get("compute_service").String(),
			CanTag:  entry.Get("taggable").Bool(),
			Tags:    tags,
		})
		return true
	})
	return out, nil
}

func (p *HTTPProvider) CreateNodes(ctx context.Context, spec model.NodeSpec, groupName, user string, count int) ([]node.Node, error) {
	resp, err := p.client.R().SetContext(ctx).SetBody(map[string]any{
		"image":      spec.Image,
		"flavor":     spec.Flavor,
		"network":    spec.Network,
		"location":   spec.Location,
		"count":      count,
		"user":       user,
		"tags":       map[string]string{config.GlobalConfig.GetGroupNameTagKey(): groupName},
		"group_name": groupName,
	}).Post("/nodes")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, HTTPResponseError{response: resp}
	}
	var out []node.Node
	gjson.GetBytes(resp.Body(), "nodes").ForEach(func(_, entry gjson.Result) bool {
		out = append(out, node.Basic{
			NodeID:  entry.Get("id").String(),
			Name:    entry.Get("base_name").String(),
			IP:      entry.Get("primary_ip").String(),
			Service: entry.Get("compute_service").String(),
			CanTag:  entry.Get("taggable").Bool(),
			Tags:    map[string]string{config.GlobalConfig.GetGroupNameTagKey(): groupName},
		})
		return true
	})
	return out, nil
}

func (p *HTTPProvider) DestroyNodes(ctx context.Context, targets []model.Target) (DestroyResult, error) {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		if t.Node != nil {
			ids = append(ids, t.Node.ID())
		}
	}
	resp, err := p.client.R().SetContext(ctx).SetBody(map[string]any{"node_ids": ids}).Post("/nodes/destroy")
	if err != nil {
		return DestroyResult{}, err
	}
	if resp.IsError() {
		return DestroyResult{}, HTTPResponseError{response: resp}
	}
	var res DestroyResult
	gjson.GetBytes(resp.Body(), "destroyed_node_ids").ForEach(func(_, v gjson.Result) bool {
		res.DestroyedNodeIDs = append(res.DestroyedNodeIDs, v.String())
		return true
	})
	gjson.GetBytes(resp.Body(), "errors").ForEach(func(_, v gjson.Result) bool {
		res.Errors = append(res.Errors, fmt.Errorf("%s", v.String()))
		return true
	})
	return res, nil
}

func (p *HTTPProvider) ServiceProperties(ctx context.Context) (ServiceProperties, error) {
	resp, err := p.client.R().SetContext(ctx).Get("/service-properties")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, HTTPResponseError{response: resp}
	}
	props := ServiceProperties{}
	gjson.ParseBytes(resp.Body()).ForEach(func(k, v gjson.Result) bool {
		props[k.String()] = v.String()
		return true
	})
	return props, nil
}
