package opsconsole

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"opsdeck/internal/ports"
	"opsdeck/internal/usecase/dashboard"
	"opsdeck/internal/usecase/kitchen"
)

const maxShownSupplies = 6

type Options struct {
	TenantID        string
	RefreshInterval time.Duration
}

type opsModel struct {
	ctx             context.Context
	dashboards      *dashboard.Service
	kitchens        *kitchen.Service
	tenantID        string
	refreshInterval time.Duration

	stats         dashboard.Stats
	hasStats      bool
	notifications kitchen.Notifications
	expiring      []ports.FoodSupplyRecord
	status        string
}

type tickMsg struct{}

type statsLoadedMsg struct {
	stats dashboard.Stats
	err   error
}

type suppliesLoadedMsg struct {
	notifications kitchen.Notifications
	expiring      []ports.FoodSupplyRecord
	err           error
}

func NewOpsModel(ctx context.Context, dashboards *dashboard.Service, kitchens *kitchen.Service, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &opsModel{
		ctx:             ctx,
		dashboards:      dashboards,
		kitchens:        kitchens,
		tenantID:        strings.TrimSpace(options.TenantID),
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *opsModel) Init() tea.Cmd {
	return tea.Batch(m.loadStatsCmd(false), m.loadSuppliesCmd(), m.tickCmd())
}

func (m *opsModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadStatsCmd(false), m.loadSuppliesCmd(), m.tickCmd())
	case statsLoadedMsg:
		if msg.err != nil {
			m.status = "stats refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.stats = msg.stats
		m.hasStats = true
		m.status = "refreshed " + msg.stats.GeneratedAt
		return m, nil
	case suppliesLoadedMsg:
		if msg.err != nil {
			m.status = "supplies refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.notifications = msg.notifications
		m.expiring = msg.expiring
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "forcing refresh"
			return m, tea.Batch(m.loadStatsCmd(true), m.loadSuppliesCmd())
		}
	}
	return m, nil
}

func (m *opsModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Ops Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf("tenant=%s refresh=%s", m.tenantID, m.refreshInterval)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Assets"))
	builder.WriteString("\n")
	if !m.hasStats {
		builder.WriteString(dimStyle.Render("- loading"))
		builder.WriteString("\n\n")
	} else {
		builder.WriteString(fmt.Sprintf("- active=%d maintenance=%d disposed=%d\n",
			m.stats.Assets.Active, m.stats.Assets.Maintenance, m.stats.Assets.Disposed))
		builder.WriteString(fmt.Sprintf("- kitchens=%d supplies=%d active_trips=%d\n\n",
			m.stats.Kitchens, m.stats.Supplies, m.stats.ActiveTrips))
	}

	builder.WriteString(sectionStyle.Render("Alerts"))
	builder.WriteString("\n")
	alerts := fmt.Sprintf("- expiring_soon=%d low_stock=%d", m.notifications.ExpiringSoon, m.notifications.LowStock)
	if m.notifications.ExpiringSoon > 0 || m.notifications.LowStock > 0 {
		builder.WriteString(alertStyle.Render(alerts))
	} else {
		builder.WriteString(alerts)
	}
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Expiring Supplies"))
	builder.WriteString("\n")
	if len(m.expiring) == 0 {
		builder.WriteString(dimStyle.Render("- none"))
		builder.WriteString("\n\n")
	} else {
		shown := m.expiring
		if len(shown) > maxShownSupplies {
			shown = shown[:maxShownSupplies]
		}
		for _, supply := range shown {
			builder.WriteString(fmt.Sprintf("- %s %.1f%s expires=%s\n", supply.Name, supply.Quantity, supply.Unit, supply.ExpiresAt))
		}
		if len(m.expiring) > maxShownSupplies {
			builder.WriteString(dimStyle.Render(fmt.Sprintf("- and %d more", len(m.expiring)-maxShownSupplies)))
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + m.status)
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: g force refresh  q quit"))
	return builder.String()
}

func (m *opsModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *opsModel) loadStatsCmd(force bool) tea.Cmd {
	return func() tea.Msg {
		stats, err := m.dashboards.Stats(m.ctx, m.tenantID, force)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		return statsLoadedMsg{stats: stats}
	}
}

func (m *opsModel) loadSuppliesCmd() tea.Cmd {
	return func() tea.Msg {
		notifications, err := m.kitchens.Notifications(m.ctx, m.tenantID)
		if err != nil {
			return suppliesLoadedMsg{err: err}
		}
		expiring, err := m.kitchens.ListSupplies(m.ctx, kitchen.SupplyQuery{
			TenantID:     m.tenantID,
			ExpiringSoon: true,
		})
		if err != nil {
			return suppliesLoadedMsg{err: err}
		}
		return suppliesLoadedMsg{notifications: notifications, expiring: expiring}
	}
}
