package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// RouteInfo describes one manifest route.
type RouteInfo struct {
	Path           string            `json:"path"`
	Title          string            `json:"title,omitempty"`
	First5sMessage string            `json:"first_5s_message,omitempty"`
	Meta           map[string]string `json:"meta,omitempty"`
	NotFound       bool              `json:"not_found,omitempty"`
}

// RoutesResult is the routes command's output payload.
type RoutesResult struct {
	Manifest string      `json:"manifest"`
	Routes   []RouteInfo `json:"routes"`
}

// String renders one route per line, lexically ordered.
func (r RoutesResult) String() string {
	var b strings.Builder
	for i, route := range r.Routes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(route.Path)
		if route.Title != "" {
			fmt.Fprintf(&b, "  %q", route.Title)
		}
		if route.NotFound {
			b.WriteString("  [not found]")
		}
	}
	return b.String()
}

// NewRoutesCommand creates the routes command.
func NewRoutesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the manifest's routes",
		Long: `Load and validate the route manifest named by STATICROUTE_ROUTES_FILE and
list its routes with their UX metadata.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(rootOpts, cmd)
		},
	}

	return cmd
}

func runRoutes(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(formatter)
	if err != nil {
		return err
	}

	manifest, err := loadManifest(formatter, cfg)
	if err != nil {
		return err
	}

	table, err := manifest.Table(nil)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeManifest, "invalid route manifest", err, nil)
	}

	result := RoutesResult{Manifest: cfg.RoutesFile, Routes: []RouteInfo{}}
	for _, path := range table.Paths() {
		info := RouteInfo{Path: path, NotFound: path == manifest.NotFound}
		if ux, ok := table.UXMeta(path); ok {
			info.Title = ux.Title
			info.First5sMessage = ux.First5sMessage
			info.Meta = ux.Extra
		}
		result.Routes = append(result.Routes, info)
	}
	return formatter.Success(result)
}
