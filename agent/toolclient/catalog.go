package toolclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cloudwego/eino/schema"
)

const (
	ToolGetCustomer     = "get_customer"
	ToolListCustomers   = "list_customers"
	ToolUpdateCustomer  = "update_customer"
	ToolCreateTicket    = "create_ticket"
	ToolCustomerHistory = "get_customer_history"
)

// Executor runs one named tool with model-produced arguments and always
// returns text.
type Executor func(ctx context.Context, tool string, args map[string]any) string

// BuildCatalog returns the tool menu handed to a reasoning agent's
// model together with the executor that backs it. Both specialist
// agents get the full set; which tools matter for a given request is
// the model's call.
func BuildCatalog(client *Client) ([]*schema.ToolInfo, Executor) {
	return Infos(), NewExecutor(client)
}

func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolGetCustomer,
			Desc: "Get customer details by ID. Uses customers.id field.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"customer_id": {Type: schema.Integer, Desc: "Customer ID", Required: true},
			}),
		},
		{
			Name: ToolListCustomers,
			Desc: "List customers, optionally filtered by status. Uses customers.status field.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"status": {Type: schema.String, Desc: "Filter by status, e.g. active or disabled"},
				"limit":  {Type: schema.Integer, Desc: "Maximum number of customers to return"},
			}),
		},
		{
			Name: ToolUpdateCustomer,
			Desc: "Update customer details. Data must be a JSON string, e.g. {\"email\": \"new@example.com\"}.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"customer_id": {Type: schema.Integer, Desc: "Customer ID", Required: true},
				"data":        {Type: schema.String, Desc: "JSON object of fields to update", Required: true},
			}),
		},
		{
			Name: ToolCreateTicket,
			Desc: "Create a new support ticket. Uses tickets fields.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"customer_id": {Type: schema.Integer, Desc: "Customer ID", Required: true},
				"issue":       {Type: schema.String, Desc: "Issue description", Required: true},
				"priority":    {Type: schema.String, Desc: "low, medium, or high (default medium)"},
			}),
		},
		{
			Name: ToolCustomerHistory,
			Desc: "Get ticket history for a customer. Uses tickets.customer_id field.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"customer_id": {Type: schema.Integer, Desc: "Customer ID", Required: true},
			}),
		},
	}
}

// NewExecutor maps tool names 1:1 onto client calls. Argument problems
// are reported as text, same as every other failure on this path.
func NewExecutor(client *Client) Executor {
	return func(ctx context.Context, tool string, args map[string]any) string {
		switch tool {
		case ToolGetCustomer:
			id, err := intArg(args, "customer_id")
			if err != nil {
				return "Error: " + err.Error()
			}
			return client.GetCustomer(ctx, id)

		case ToolListCustomers:
			status, _ := args["status"].(string)
			limit, err := optIntArg(args, "limit", 10)
			if err != nil {
				return "Error: " + err.Error()
			}
			return client.ListCustomers(ctx, status, int(limit))

		case ToolUpdateCustomer:
			id, err := intArg(args, "customer_id")
			if err != nil {
				return "Error: " + err.Error()
			}
			data, ok := args["data"].(string)
			if !ok {
				return "Error: data must be a JSON string"
			}
			return client.UpdateCustomer(ctx, id, data)

		case ToolCreateTicket:
			id, err := intArg(args, "customer_id")
			if err != nil {
				return "Error: " + err.Error()
			}
			issue, ok := args["issue"].(string)
			if !ok || issue == "" {
				return "Error: issue is required"
			}
			priority, _ := args["priority"].(string)
			return client.CreateTicket(ctx, id, issue, priority)

		case ToolCustomerHistory:
			id, err := intArg(args, "customer_id")
			if err != nil {
				return "Error: " + err.Error()
			}
			return client.CustomerHistory(ctx, id)

		default:
			return fmt.Sprintf("Error: tool %s is not available", tool)
		}
	}
}

func intArg(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s is required", key)
	}
	return coerceIntArg(key, v)
}

func optIntArg(args map[string]any, key string, def int64) (int64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	return coerceIntArg(key, v)
}

func coerceIntArg(key string, v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}
