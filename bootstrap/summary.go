package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kbukum/h2bridge/component"
)

// Summary prints what the application started and how healthy it is.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a summary writing to out, or to stderr when out is nil.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stderr
	}
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Display prints the header, each component's description and live health.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(s.out, "%s %s started in %s\n", s.serviceName, version, s.startupDuration.Round(time.Millisecond))

	components := registry.All()
	if len(components) == 0 {
		fmt.Fprintf(s.out, "   └── no components registered\n")
		return
	}

	healths := registry.HealthAll(ctx)
	for i, c := range components {
		prefix := "├──"
		if i == len(components)-1 {
			prefix = "└──"
		}

		name, details := c.Name(), ""
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name != "" {
				name = desc.Name
			}
			details = desc.Details
			if desc.Type != "" {
				details = "[" + desc.Type + "] " + details
			}
		}

		status := component.HealthStatus("unknown")
		msg := ""
		if i < len(healths) {
			status = healths[i].Status
			if healths[i].Message != "" {
				msg = " - " + healths[i].Message
			}
		}
		fmt.Fprintf(s.out, "   %s %s %s %s (%s%s)\n", prefix, healthStatusIcon(status), name, details, status, msg)
	}
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
