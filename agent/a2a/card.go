// Package a2a is the agent-to-agent boundary: each agent publishes a
// discovery card at a well-known path and accepts task submissions
// over plain HTTP+JSON. Only the parts this system consumes are
// implemented.
package a2a

// WellKnownPath is where an agent publishes its card.
const WellKnownPath = "/.well-known/agent.json"

// TasksPath accepts task submissions.
const TasksPath = "/tasks"

type Capabilities struct {
	Streaming bool `json:"streaming"`
}

type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Examples    []string `json:"examples,omitempty"`
}

// Card describes an agent to its peers.
type Card struct {
	Name               string       `json:"name"`
	URL                string       `json:"url"`
	Description        string       `json:"description"`
	Version            string       `json:"version"`
	Capabilities       Capabilities `json:"capabilities"`
	DefaultInputModes  []string     `json:"defaultInputModes"`
	DefaultOutputModes []string     `json:"defaultOutputModes"`
	PreferredTransport string       `json:"preferredTransport"`
	Skills             []Skill      `json:"skills"`
}

// DataAgentCard is the published card for the customer data agent.
func DataAgentCard(url string) Card {
	return Card{
		Name:               "Customer Data Agent",
		URL:                url,
		Description:        "Specialist agent for accessing and managing customer database information via bridge tools",
		Version:            "1.0",
		Capabilities:       Capabilities{Streaming: false},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain", "application/json"},
		PreferredTransport: "http+json",
		Skills: []Skill{
			{
				ID:          "get_customer_info",
				Name:        "Get Customer Information",
				Description: "Retrieves customer details by ID using customers.id field",
				Tags:        []string{"customer", "data", "retrieval"},
				Examples: []string{
					"Get customer information for ID 1",
					"Retrieve customer 5",
					"Show me customer details for ID 12345",
				},
			},
			{
				ID:          "list_customers",
				Name:        "List Customers",
				Description: "Lists customers with optional status filtering using customers.status field",
				Tags:        []string{"customer", "list", "filter"},
				Examples: []string{
					"List all active customers",
					"Show me customers with disabled status",
					"Get 10 customers",
				},
			},
			{
				ID:          "update_customer",
				Name:        "Update Customer",
				Description: "Updates customer records using customers fields",
				Tags:        []string{"customer", "update", "modify"},
				Examples: []string{
					"Update email for customer 1 to newemail@example.com",
					"Change phone number for customer 5",
				},
			},
			{
				ID:          "get_customer_history",
				Name:        "Get Customer History",
				Description: "Retrieves ticket history for a customer using tickets.customer_id field",
				Tags:        []string{"customer", "history", "tickets"},
				Examples: []string{
					"Show ticket history for customer 1",
					"Get all tickets for customer 5",
				},
			},
		},
	}
}

// SupportAgentCard is the published card for the support agent.
func SupportAgentCard(url string) Card {
	return Card{
		Name:               "Support Agent",
		URL:                url,
		Description:        "Specialist agent for handling customer support queries, ticket creation, and issue resolution",
		Version:            "1.0",
		Capabilities:       Capabilities{Streaming: false},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		PreferredTransport: "http+json",
		Skills: []Skill{
			{
				ID:          "create_ticket",
				Name:        "Create Support Ticket",
				Description: "Creates a new support ticket using tickets fields",
				Tags:        []string{"support", "ticket", "create"},
				Examples: []string{
					"Create a ticket for customer 1 about account upgrade",
					"Open a high priority ticket for billing issue",
				},
			},
			{
				ID:          "handle_support_query",
				Name:        "Handle Support Query",
				Description: "Processes general customer support queries and provides solutions",
				Tags:        []string{"support", "help", "assistance"},
				Examples: []string{
					"I need help with my account",
					"How do I upgrade my subscription?",
					"I have a billing question",
				},
			},
			{
				ID:          "escalate_issue",
				Name:        "Escalate Issue",
				Description: "Escalates complex or urgent issues appropriately",
				Tags:        []string{"support", "escalation", "urgent"},
				Examples: []string{
					"I've been charged twice, please refund immediately!",
					"My account has been compromised",
				},
			},
		},
	}
}

// RouterAgentCard is the published card for the front-door router.
func RouterAgentCard(url string) Card {
	return Card{
		Name:               "Router Agent",
		URL:                url,
		Description:        "Front-door agent that runs every query through the specialist pipeline",
		Version:            "1.0",
		Capabilities:       Capabilities{Streaming: false},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		PreferredTransport: "http+json",
		Skills: []Skill{
			{
				ID:          "route_query",
				Name:        "Route Customer Query",
				Description: "Passes a customer query through the data and support agents in order",
				Tags:        []string{"routing", "orchestration", "coordination"},
				Examples: []string{
					"Get customer information for ID 5",
					"I'm customer 1 and need help upgrading my account",
					"Show me all active customers who have open tickets",
				},
			},
			{
				ID:          "coordinate_agents",
				Name:        "Coordinate Multiple Agents",
				Description: "Combines specialist replies into a single answer for complex queries",
				Tags:        []string{"coordination", "multi-agent", "orchestration"},
				Examples: []string{
					"Update my email and show my ticket history",
					"I want to cancel but have billing issues",
				},
			},
		},
	}
}
