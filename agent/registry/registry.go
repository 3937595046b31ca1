// Package registry maps operation names to record-store calls and
// normalizes every outcome into the uniform envelope. Nothing is allowed
// to escape Invoke as a Go error or a panic; one bad call never takes
// the bridge down.
package registry

import (
	"context"
	"fmt"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
	storex "github.com/helpmesh/helpmesh/agent/store"
)

const defaultListLimit = 100

type operation struct {
	spec contractx.ToolSpec
	run  func(ctx context.Context, p params) (contractx.Envelope, error)
}

// Registry is the name-indexed dispatch table. The discovery list and
// the dispatch map are two views of the same operation slice, so they
// cannot drift apart.
type Registry struct {
	store  *storex.Store
	ops    []operation
	byName map[string]int
}

func New(st *storex.Store) *Registry {
	r := &Registry{store: st}

	r.register(contractx.ToolSpec{
		Name:        "get_customer",
		Description: "Get customer information by ID",
		Parameters:  map[string]string{"customer_id": "integer"},
	}, r.getCustomer)

	r.register(contractx.ToolSpec{
		Name:        "list_customers",
		Description: "List customers, optionally filtered by status",
		Parameters: map[string]string{
			"status": "string (optional)",
			"limit":  "integer (optional)",
		},
	}, r.listCustomers)

	r.register(contractx.ToolSpec{
		Name:        "update_customer",
		Description: "Update customer fields (name, email, phone, status)",
		Parameters: map[string]string{
			"customer_id": "integer",
			"data":        "object",
		},
	}, r.updateCustomer)

	r.register(contractx.ToolSpec{
		Name:        "create_ticket",
		Description: "Create a new support ticket",
		Parameters: map[string]string{
			"customer_id": "integer",
			"issue":       "string",
			"priority":    "string (low/medium/high)",
		},
	}, r.createTicket)

	r.register(contractx.ToolSpec{
		Name:        "get_customer_history",
		Description: "Get ticket history for a customer",
		Parameters:  map[string]string{"customer_id": "integer"},
	}, r.customerHistory)

	return r
}

func (r *Registry) register(spec contractx.ToolSpec, run func(context.Context, params) (contractx.Envelope, error)) {
	r.ops = append(r.ops, operation{spec: spec, run: run})
	if r.byName == nil {
		r.byName = make(map[string]int, 8)
	}
	r.byName[spec.Name] = len(r.ops) - 1
}

// Specs returns the discovery list in registration order.
func (r *Registry) Specs() []contractx.ToolSpec {
	specs := make([]contractx.ToolSpec, 0, len(r.ops))
	for _, op := range r.ops {
		specs = append(specs, op.spec)
	}
	return specs
}

// Invoke dispatches one operation. Unknown names, handler errors, and
// handler panics all come back as failure envelopes.
func (r *Registry) Invoke(ctx context.Context, tool string, rawParams map[string]any) (env contractx.Envelope) {
	idx, ok := r.byName[tool]
	if !ok {
		return contractx.Fail(fmt.Sprintf("Unknown tool: %s", tool))
	}
	op := r.ops[idx]

	defer func() {
		if rec := recover(); rec != nil {
			env = contractx.Fail(fmt.Sprint(rec))
		}
	}()

	out, err := op.run(ctx, params(rawParams))
	if err != nil {
		return contractx.Fail(err.Error())
	}
	return out
}

var _ contractx.Invoker = (*Registry)(nil)

func (r *Registry) getCustomer(ctx context.Context, p params) (contractx.Envelope, error) {
	id, err := p.requireInt("customer_id")
	if err != nil {
		return contractx.Envelope{}, err
	}
	c, err := r.store.GetCustomer(ctx, id)
	if err != nil {
		return contractx.Envelope{}, err
	}
	return contractx.OK(c), nil
}

func (r *Registry) listCustomers(ctx context.Context, p params) (contractx.Envelope, error) {
	status, err := p.optionalString("status")
	if err != nil {
		return contractx.Envelope{}, err
	}
	limit, err := p.optionalInt("limit", defaultListLimit)
	if err != nil {
		return contractx.Envelope{}, err
	}
	customers, err := r.store.ListCustomers(ctx, status, int(limit))
	if err != nil {
		return contractx.Envelope{}, err
	}
	return contractx.OKCount(customers, len(customers)), nil
}

func (r *Registry) updateCustomer(ctx context.Context, p params) (contractx.Envelope, error) {
	id, err := p.requireInt("customer_id")
	if err != nil {
		return contractx.Envelope{}, err
	}
	data, err := p.requireObject("data")
	if err != nil {
		return contractx.Envelope{}, err
	}
	c, err := r.store.UpdateCustomer(ctx, id, data)
	if err != nil {
		return contractx.Envelope{}, err
	}
	return contractx.OK(c), nil
}

func (r *Registry) createTicket(ctx context.Context, p params) (contractx.Envelope, error) {
	id, err := p.requireInt("customer_id")
	if err != nil {
		return contractx.Envelope{}, err
	}
	issue, err := p.requireString("issue")
	if err != nil {
		return contractx.Envelope{}, err
	}
	priority, err := p.optionalString("priority")
	if err != nil {
		return contractx.Envelope{}, err
	}
	if priority == "" {
		priority = "medium"
	}
	t, err := r.store.CreateTicket(ctx, id, issue, priority)
	if err != nil {
		return contractx.Envelope{}, err
	}
	return contractx.OK(t), nil
}

func (r *Registry) customerHistory(ctx context.Context, p params) (contractx.Envelope, error) {
	id, err := p.requireInt("customer_id")
	if err != nil {
		return contractx.Envelope{}, err
	}
	tickets, err := r.store.CustomerHistory(ctx, id)
	if err != nil {
		return contractx.Envelope{}, err
	}
	return contractx.OKCount(tickets, len(tickets)), nil
}
