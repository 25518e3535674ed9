package services

import (
	"context"
	"net/url"
	"sort"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/core/domain"

	"golang.org/x/sync/errgroup"
)

// recentLimit is how many items the "latest" tables show
const recentLimit = 5

// DashboardService assembles the per-role dashboards from several API calls
type DashboardService struct {
	client *api.Client
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(client *api.Client) *DashboardService {
	return &DashboardService{client: client}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboard represents admin dashboard data
type AdminDashboard struct {
	TotalAgents     int               `json:"total_agents"`
	TotalOwners     int               `json:"total_owners"`
	TotalClients    int               `json:"total_clients"`
	TotalContracts  int               `json:"total_contracts"`
	TotalVisits     int               `json:"total_visits"`
	PendingVisits   int               `json:"pending_visits"`
	RecentContracts []domain.Contract `json:"recent_contracts"`
}

// Admin loads the admin dashboard. The five collections are fetched concurrently
// and the first failure cancels the rest.
func (s *DashboardService) Admin(ctx context.Context, token string) (*AdminDashboard, error) {
	svc := s.client.For(token)
	g, ctx := errgroup.WithContext(ctx)

	var (
		agents, owners, clients []domain.User
		contracts               []domain.Contract
		visits                  []domain.Visit
	)
	g.Go(func() (err error) { agents, err = svc.Users.Agents().All(ctx, nil); return })
	g.Go(func() (err error) { owners, err = svc.Users.Owners().All(ctx, nil); return })
	g.Go(func() (err error) { clients, err = svc.Users.Clients().All(ctx, nil); return })
	g.Go(func() (err error) { contracts, err = svc.Contracts.Admin().All(ctx, nil); return })
	g.Go(func() (err error) { visits, err = svc.Visits.Admin().All(ctx, nil); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalAgents:     len(agents),
		TotalOwners:     len(owners),
		TotalClients:    len(clients),
		TotalContracts:  len(contracts),
		TotalVisits:     len(visits),
		PendingVisits:   countVisits(visits, domain.VisitPending),
		RecentContracts: latestContracts(contracts, recentLimit),
	}, nil
}

// ============================================================
// Owner Dashboard
// ============================================================

// OwnerDashboard represents owner dashboard data
type OwnerDashboard struct {
	TotalProperties     int               `json:"total_properties"`
	AvailableProperties int               `json:"available_properties"`
	TotalContracts      int               `json:"total_contracts"`
	PendingContracts    int               `json:"pending_contracts"`
	UpcomingVisits      int               `json:"upcoming_visits"`
	RecentContracts     []domain.Contract `json:"recent_contracts"`
}

// Owner loads the owner dashboard
func (s *DashboardService) Owner(ctx context.Context, token string) (*OwnerDashboard, error) {
	svc := s.client.For(token)
	g, ctx := errgroup.WithContext(ctx)

	var (
		properties []domain.Property
		contracts  []domain.Contract
		visits     []domain.Visit
	)
	g.Go(func() (err error) { properties, err = svc.Properties.Owner().All(ctx, nil); return })
	g.Go(func() (err error) { contracts, err = svc.Contracts.Mine().All(ctx, nil); return })
	g.Go(func() (err error) { visits, err = svc.Visits.Mine().All(ctx, nil); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := &OwnerDashboard{
		TotalProperties: len(properties),
		TotalContracts:  len(contracts),
		UpcomingVisits:  len(visits) - countVisits(visits, domain.VisitCancelled),
		RecentContracts: latestContracts(contracts, recentLimit),
	}
	for _, p := range properties {
		if p.Status == domain.PropertyAvailable {
			data.AvailableProperties++
		}
	}
	for _, c := range contracts {
		if c.Pending() {
			data.PendingContracts++
		}
	}
	return data, nil
}

// ============================================================
// Client Dashboard
// ============================================================

// ClientDashboard represents client dashboard data
type ClientDashboard struct {
	TotalContracts int               `json:"total_contracts"`
	TotalVisits    int               `json:"total_visits"`
	Contracts      []domain.Contract `json:"contracts"`
	Visits         []domain.Visit    `json:"visits"`
	Suggestions    []domain.Property `json:"suggestions"`
}

// Client loads the client dashboard with a few available properties as suggestions
func (s *DashboardService) Client(ctx context.Context, token string) (*ClientDashboard, error) {
	svc := s.client.For(token)
	g, ctx := errgroup.WithContext(ctx)

	var (
		contracts  []domain.Contract
		visits     []domain.Visit
		properties []domain.Property
	)
	available := url.Values{"status": {string(domain.PropertyAvailable)}}
	g.Go(func() (err error) { contracts, err = svc.Contracts.Mine().All(ctx, nil); return })
	g.Go(func() (err error) { visits, err = svc.Visits.Mine().All(ctx, nil); return })
	g.Go(func() (err error) { properties, err = svc.Properties.Client().All(ctx, available); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(properties) > recentLimit {
		properties = properties[:recentLimit]
	}
	return &ClientDashboard{
		TotalContracts: len(contracts),
		TotalVisits:    len(visits),
		Contracts:      latestContracts(contracts, recentLimit),
		Visits:         visits,
		Suggestions:    properties,
	}, nil
}

// ============================================================
// Agent Dashboard
// ============================================================

// AgentDashboard represents agent dashboard data
type AgentDashboard struct {
	Pending   int            `json:"pending"`
	Confirmed int            `json:"confirmed"`
	Cancelled int            `json:"cancelled"`
	Visits    []domain.Visit `json:"visits"`
}

// Agent loads the visits assigned to the agent
func (s *DashboardService) Agent(ctx context.Context, token string) (*AgentDashboard, error) {
	visits, err := s.client.For(token).Visits.Mine().All(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &AgentDashboard{
		Pending:   countVisits(visits, domain.VisitPending),
		Confirmed: countVisits(visits, domain.VisitConfirmed),
		Cancelled: countVisits(visits, domain.VisitCancelled),
		Visits:    visits,
	}, nil
}

func countVisits(visits []domain.Visit, status domain.VisitStatus) int {
	n := 0
	for _, v := range visits {
		if v.Status == status {
			n++
		}
	}
	return n
}

// latestContracts returns up to n contracts, newest first, without touching the input
func latestContracts(contracts []domain.Contract, n int) []domain.Contract {
	out := make([]domain.Contract, len(contracts))
	copy(out, contracts)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
